// Package kzg produces and verifies the polynomial commitments and witnesses
// attached to pieces, over BLS12-381.
package kzg

import (
	"fmt"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	blskzg "github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"golang.org/x/crypto/blake2b"

	"github.com/YFiN99/subspace/crypto"
	"github.com/YFiN99/subspace/pieces"
)

// srsSize is the number of powers in the structured reference string. It must
// cover the largest polynomial committed to: one scalar per record chunk.
const srsSize = 1024

var _ [srsSize - pieces.RecordChunks]byte
var _ [srsSize - pieces.PiecesInSegment]byte

var (
	srsOnce sync.Once
	srs     *blskzg.SRS
	srsErr  error
)

// loadSRS builds the development reference string from a fixed secret.
// A production deployment replaces this with the output of the network's
// trusted setup ceremony.
func loadSRS() (*blskzg.SRS, error) {
	srsOnce.Do(func() {
		tau := new(big.Int).SetBytes([]byte("subspace development srs secret"))
		srs, srsErr = blskzg.NewSRS(srsSize, tau)
	})
	return srs, srsErr
}

// Scheme commits to records and opens segment-level commitments.
type Scheme struct {
	srs *blskzg.SRS
	// domain is the fixed evaluation domain of the segment polynomial,
	// sized to one segment's worth of pieces.
	domain *fft.Domain
}

// NewScheme returns a scheme backed by the development reference string.
func NewScheme() (*Scheme, error) {
	s, err := loadSRS()
	if err != nil {
		return nil, fmt.Errorf("loading srs: %w", err)
	}
	return &Scheme{
		srs:    s,
		domain: fft.NewDomain(pieces.PiecesInSegment),
	}, nil
}

// recordPolynomial interprets the record's full scalar chunks as polynomial
// coefficients. Fails if any chunk is not a canonical field element.
func recordPolynomial(record *pieces.Record) ([]fr.Element, error) {
	chunks := record.FullScalarChunks()
	poly := make([]fr.Element, len(chunks))
	for i, chunk := range chunks {
		scalar, err := crypto.ScalarFromBytes(chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		poly[i] = scalar.Element()
	}
	return poly, nil
}

// commitmentToScalar maps a record commitment into the scalar field by
// hashing and truncating to the safe width.
func commitmentToScalar(commitment *pieces.RecordCommitment) fr.Element {
	hash := blake2b.Sum256(commitment.Bytes())
	var safe [crypto.ScalarSafeBytes]byte
	copy(safe[:], hash[:crypto.ScalarSafeBytes])
	scalar := crypto.ScalarFromSafeBytes(&safe)
	return scalar.Element()
}

// segmentPolynomial interpolates the hashed record commitments over the
// evaluation domain: the resulting polynomial evaluates to
// commitmentToScalar(commitments[i]) at the i-th domain point. Positions
// past len(commitments) evaluate to zero.
func (s *Scheme) segmentPolynomial(commitments []*pieces.RecordCommitment) []fr.Element {
	poly := make([]fr.Element, s.domain.Cardinality)
	for i, commitment := range commitments {
		poly[i] = commitmentToScalar(commitment)
	}
	s.domain.FFTInverse(poly, fft.DIF)
	fft.BitReverse(poly)
	return poly
}

// evaluationPoint returns the domain point a piece position maps to.
func (s *Scheme) evaluationPoint(position int) fr.Element {
	var point fr.Element
	point.Exp(s.domain.Generator, big.NewInt(int64(position)))
	return point
}

// CommitRecord commits to the record's chunks.
func (s *Scheme) CommitRecord(record *pieces.Record) (pieces.RecordCommitment, error) {
	poly, err := recordPolynomial(record)
	if err != nil {
		return pieces.RecordCommitment{}, fmt.Errorf("building record polynomial: %w", err)
	}
	digest, err := blskzg.Commit(poly, s.srs.Pk)
	if err != nil {
		return pieces.RecordCommitment{}, fmt.Errorf("committing to record: %w", err)
	}
	return pieces.RecordCommitment(digest.Bytes()), nil
}

// CommitSegment commits to one segment's worth of record commitments.
func (s *Scheme) CommitSegment(commitments []*pieces.RecordCommitment) (pieces.SegmentCommitment, error) {
	if uint64(len(commitments)) > s.domain.Cardinality {
		return pieces.SegmentCommitment{}, fmt.Errorf("too many record commitments: %d > %d",
			len(commitments), s.domain.Cardinality)
	}
	digest, err := blskzg.Commit(s.segmentPolynomial(commitments), s.srs.Pk)
	if err != nil {
		return pieces.SegmentCommitment{}, fmt.Errorf("committing to segment: %w", err)
	}
	return pieces.SegmentCommitment(digest.Bytes()), nil
}

// SegmentWitness opens the segment polynomial at the given piece position,
// producing the witness stored inside that piece.
func (s *Scheme) SegmentWitness(commitments []*pieces.RecordCommitment, position int) (pieces.RecordWitness, error) {
	if position < 0 || position >= len(commitments) {
		return pieces.RecordWitness{}, fmt.Errorf("piece position %d out of range 0..%d", position, len(commitments)-1)
	}
	if uint64(len(commitments)) > s.domain.Cardinality {
		return pieces.RecordWitness{}, fmt.Errorf("too many record commitments: %d > %d",
			len(commitments), s.domain.Cardinality)
	}

	proof, err := blskzg.Open(s.segmentPolynomial(commitments), s.evaluationPoint(position), s.srs.Pk)
	if err != nil {
		return pieces.RecordWitness{}, fmt.Errorf("opening segment polynomial: %w", err)
	}
	return pieces.RecordWitness(proof.H.Bytes()), nil
}

// VerifyPiece checks that the piece's record commitment belongs to the
// segment commitment at the given position, using the piece's own witness.
func (s *Scheme) VerifyPiece(commitment *pieces.RecordCommitment, witness *pieces.RecordWitness, position int, segment *pieces.SegmentCommitment) error {
	var digest blskzg.Digest
	if _, err := digest.SetBytes(segment.Bytes()); err != nil {
		return fmt.Errorf("malformed segment commitment: %w", err)
	}

	var h bls12381.G1Affine
	if _, err := h.SetBytes(witness.Bytes()); err != nil {
		return fmt.Errorf("malformed witness: %w", err)
	}

	// The segment polynomial evaluates to the hashed record commitment at
	// the position's domain point, so the verifier can reconstruct the
	// claimed value from the commitment alone.
	proof := blskzg.OpeningProof{
		H:            h,
		ClaimedValue: commitmentToScalar(commitment),
	}
	if err := blskzg.Verify(&digest, &proof, s.evaluationPoint(position), s.srs.Vk); err != nil {
		return fmt.Errorf("witness does not match segment commitment: %w", err)
	}
	return nil
}
