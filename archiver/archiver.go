// Package archiver turns segments of recorded history into erasure-coded,
// committed pieces, and reconstructs segments from surviving pieces.
package archiver

import (
	"errors"
	"fmt"

	"github.com/YFiN99/subspace/crypto/kzg"
	"github.com/YFiN99/subspace/erasurecoding"
	"github.com/YFiN99/subspace/log"
	"github.com/YFiN99/subspace/pieces"
)

var ErrWrongPieceCount = errors.New("wrong piece count")

// Archiver produces pieces from recorded history segments.
type Archiver struct {
	scheme *kzg.Scheme
}

func NewArchiver() (*Archiver, error) {
	scheme, err := kzg.NewScheme()
	if err != nil {
		return nil, fmt.Errorf("initializing commitment scheme: %w", err)
	}
	return &Archiver{scheme: scheme}, nil
}

// scatterRawRecord writes the raw record's chunks into the record's safe
// chunk views, leaving the pad byte of every full chunk zero.
func scatterRawRecord(raw *pieces.RawRecord, record *pieces.Record) {
	safe := record.SafeScalarChunks()
	for i, chunk := range raw.Chunks() {
		*safe[i] = *chunk
	}
}

// gatherRawRecord reads the record's safe chunks back into a raw record.
func gatherRawRecord(record *pieces.Record, raw *pieces.RawRecord) {
	safe := record.SafeScalarChunks()
	for i, chunk := range raw.Chunks() {
		*chunk = *safe[i]
	}
}

// ArchiveSegment expands one recorded history segment into its pieces.
// Source records land at even piece positions and parity records at odd
// positions. Every piece carries its record's commitment and a witness
// binding that commitment to the returned segment commitment.
func (a *Archiver) ArchiveSegment(segment *pieces.RecordedHistorySegment) (pieces.FlatPieces, pieces.SegmentCommitment, error) {
	flat := pieces.NewFlatPieces(pieces.PiecesInSegment)

	sourcePieces := flat.Source()
	parityPieces := flat.Parity()

	sources := make([]*pieces.Record, len(sourcePieces))
	for i, piece := range sourcePieces {
		sources[i] = piece.Record()
	}
	parities := make([]*pieces.Record, len(parityPieces))
	for i, piece := range parityPieces {
		parities[i] = piece.Record()
	}

	for i, raw := range segment.RawRecords() {
		scatterRawRecord(raw, sources[i])
	}
	if err := erasurecoding.ExtendRecords(sources, parities); err != nil {
		return nil, pieces.SegmentCommitment{}, fmt.Errorf("extending source records: %w", err)
	}
	log.Debug(log.ArchiverMonitoring, "extended segment records",
		"sources", len(sources), "parities", len(parities))

	commitments := make([]*pieces.RecordCommitment, pieces.PiecesInSegment)
	for position := range flat {
		piece := &flat[position]
		commitment, err := a.scheme.CommitRecord(piece.Record())
		if err != nil {
			return nil, pieces.SegmentCommitment{}, fmt.Errorf("committing to record at position %d: %w", position, err)
		}
		*piece.Commitment() = commitment
		commitments[position] = piece.Commitment()
	}

	segmentCommitment, err := a.scheme.CommitSegment(commitments)
	if err != nil {
		return nil, pieces.SegmentCommitment{}, fmt.Errorf("committing to segment: %w", err)
	}

	for position := range flat {
		witness, err := a.scheme.SegmentWitness(commitments, position)
		if err != nil {
			return nil, pieces.SegmentCommitment{}, fmt.Errorf("opening witness at position %d: %w", position, err)
		}
		*flat[position].Witness() = witness
	}

	log.Info(log.ArchiverMonitoring, "archived segment",
		"pieces", len(flat), "segment_commitment", fmt.Sprintf("%x", segmentCommitment[:8]))
	return flat, segmentCommitment, nil
}

// VerifyPiece checks a piece against the commitment of the segment it
// claims to belong to, at the given piece position.
func (a *Archiver) VerifyPiece(piece pieces.Piece, position int, segmentCommitment *pieces.SegmentCommitment) error {
	commitment, err := a.scheme.CommitRecord(piece.Record())
	if err != nil {
		return fmt.Errorf("committing to piece record: %w", err)
	}
	if commitment != *piece.Commitment() {
		return errors.New("piece commitment does not match its record")
	}
	return a.scheme.VerifyPiece(piece.Commitment(), piece.Witness(), position, segmentCommitment)
}

// ReconstructSegment rebuilds a recorded history segment from surviving
// pieces. available must hold one entry per piece position, nil where the
// piece was lost. At least half the pieces must be present.
func (a *Archiver) ReconstructSegment(available []*pieces.Piece) (*pieces.RecordedHistorySegment, error) {
	if len(available) != pieces.PiecesInSegment {
		return nil, fmt.Errorf("%w: got %d pieces, need %d",
			ErrWrongPieceCount, len(available), pieces.PiecesInSegment)
	}
	records := make([]*pieces.Record, len(available))
	for position, piece := range available {
		if piece != nil {
			records[position] = piece.Record()
		}
	}
	if err := erasurecoding.RecoverRecords(records); err != nil {
		return nil, fmt.Errorf("recovering records: %w", err)
	}

	segment := new(pieces.RecordedHistorySegment)
	raws := segment.RawRecords()
	for i := range raws {
		gatherRawRecord(records[2*i], raws[i])
	}
	return segment, nil
}
