package kzg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YFiN99/subspace/pieces"
)

// fillSafeRecord populates every chunk of the record through its safe view so
// all chunks are canonical scalars.
func fillSafeRecord(record *pieces.Record, seed byte) {
	for i, chunk := range record.SafeScalarChunks() {
		for j := range chunk {
			chunk[j] = seed + byte(i) + byte(j)
		}
	}
}

func TestCommitRecordDeterministic(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	record := new(pieces.Record)
	fillSafeRecord(record, 1)

	first, err := scheme.CommitRecord(record)
	require.NoError(t, err)
	second, err := scheme.CommitRecord(record)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := new(pieces.Record)
	fillSafeRecord(other, 2)
	different, err := scheme.CommitRecord(other)
	require.NoError(t, err)
	assert.NotEqual(t, first, different)
}

func TestCommitRecordRejectsNonCanonicalChunk(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	record := new(pieces.Record)
	for i := range record {
		record[i] = 0xff
	}
	_, err = scheme.CommitRecord(record)
	require.Error(t, err)
}

func TestSegmentWitnessVerifies(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	commitments := make([]*pieces.RecordCommitment, pieces.PiecesInSegment)
	for i := range commitments {
		record := new(pieces.Record)
		fillSafeRecord(record, byte(i))
		commitment, err := scheme.CommitRecord(record)
		require.NoError(t, err)
		commitments[i] = &commitment
	}

	segment, err := scheme.CommitSegment(commitments)
	require.NoError(t, err)

	for _, position := range []int{0, 1, 7, pieces.PiecesInSegment - 1} {
		witness, err := scheme.SegmentWitness(commitments, position)
		require.NoError(t, err)
		assert.NoError(t, scheme.VerifyPiece(commitments[position], &witness, position, &segment))
	}
}

func TestVerifyPieceRejectsWrongPosition(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	commitments := make([]*pieces.RecordCommitment, 4)
	for i := range commitments {
		record := new(pieces.Record)
		fillSafeRecord(record, byte(i))
		commitment, err := scheme.CommitRecord(record)
		require.NoError(t, err)
		commitments[i] = &commitment
	}

	segment, err := scheme.CommitSegment(commitments)
	require.NoError(t, err)

	witness, err := scheme.SegmentWitness(commitments, 1)
	require.NoError(t, err)

	assert.NoError(t, scheme.VerifyPiece(commitments[1], &witness, 1, &segment))
	assert.Error(t, scheme.VerifyPiece(commitments[1], &witness, 2, &segment))
	assert.Error(t, scheme.VerifyPiece(commitments[2], &witness, 1, &segment))
}

func TestVerifyPieceRejectsOtherSegmentCommitment(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	makeCommitments := func(seed byte) []*pieces.RecordCommitment {
		commitments := make([]*pieces.RecordCommitment, 4)
		for i := range commitments {
			record := new(pieces.Record)
			fillSafeRecord(record, seed+byte(i))
			commitment, err := scheme.CommitRecord(record)
			require.NoError(t, err)
			commitments[i] = &commitment
		}
		return commitments
	}

	first := makeCommitments(1)
	second := makeCommitments(100)

	firstSegment, err := scheme.CommitSegment(first)
	require.NoError(t, err)
	secondSegment, err := scheme.CommitSegment(second)
	require.NoError(t, err)

	witness, err := scheme.SegmentWitness(first, 0)
	require.NoError(t, err)

	assert.NoError(t, scheme.VerifyPiece(first[0], &witness, 0, &firstSegment))
	assert.Error(t, scheme.VerifyPiece(first[0], &witness, 0, &secondSegment))
}

func TestCommitSegmentRejectsOversizedInput(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	commitments := make([]*pieces.RecordCommitment, pieces.PiecesInSegment+1)
	for i := range commitments {
		commitments[i] = new(pieces.RecordCommitment)
	}
	_, err = scheme.CommitSegment(commitments)
	assert.Error(t, err)
}

func TestSegmentWitnessPositionRange(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	commitments := make([]*pieces.RecordCommitment, 2)
	for i := range commitments {
		commitments[i] = new(pieces.RecordCommitment)
	}
	_, err = scheme.SegmentWitness(commitments, -1)
	assert.Error(t, err)
	_, err = scheme.SegmentWitness(commitments, 2)
	assert.Error(t, err)
}

func TestCommitmentToScalarStaysInSafeRange(t *testing.T) {
	commitment := new(pieces.RecordCommitment)
	for i := range commitment {
		commitment[i] = 0xff
	}
	element := commitmentToScalar(commitment)
	bytes := element.Bytes()
	// Truncating the hash to the safe width keeps the top byte clear in
	// little-endian form, so the big-endian leading byte must be zero.
	assert.Zero(t, bytes[0])
}
