package pieces

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YFiN99/subspace/codec"
	"github.com/YFiN99/subspace/crypto"
)

func TestSizeConstants(t *testing.T) {
	assert.Equal(t, 31744, PieceSize)
	assert.Equal(t, 31648, RecordSize)
	assert.Equal(t, 48, RecordCommitmentSize)
	assert.Equal(t, 48, RecordWitnessSize)
	assert.Equal(t, 256, PiecesInSegment)

	assert.Zero(t, RecordSize%crypto.ScalarFullBytes)
	assert.Zero(t, RawRecordSize%crypto.ScalarSafeBytes)
	assert.Positive(t, RawRecordSize)
	assert.Equal(t, RawRecordSize*128, RecordedHistorySegmentSize)
}

func TestPieceWireRoundTrip(t *testing.T) {
	buf := make([]byte, PieceSize)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	var piece Piece
	require.NoError(t, codec.Unmarshal(buf, &piece))

	encoded, err := codec.Marshal(piece)
	require.NoError(t, err)
	assert.Equal(t, buf, encoded)
}

func TestPieceDecodeScenario(t *testing.T) {
	buf := bytes.Repeat([]byte{0xab}, PieceSize)

	var piece Piece
	require.NoError(t, codec.Unmarshal(buf, &piece))

	assert.Equal(t, bytes.Repeat([]byte{0xab}, RecordSize), piece.Record().Bytes())
	assert.Equal(t, bytes.Repeat([]byte{0xab}, RecordCommitmentSize), piece.Commitment().Bytes())
	assert.Equal(t, bytes.Repeat([]byte{0xab}, RecordWitnessSize), piece.Witness().Bytes())

	encoded, err := codec.Marshal(piece)
	require.NoError(t, err)
	assert.Equal(t, buf, encoded)
}

func TestPieceDecodeTruncated(t *testing.T) {
	var piece Piece
	err := codec.Unmarshal(make([]byte, PieceSize-1), &piece)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode Piece")
}

func TestPieceFromBytesLengthRejection(t *testing.T) {
	for _, length := range []int{0, 1, PieceSize - 1, PieceSize + 1, PieceSize * 2} {
		_, err := PieceFromBytes(make([]byte, length))
		assert.ErrorIs(t, err, ErrWrongPieceLength, "length %d", length)

		_, err = PieceFromOwnedBytes(make([]byte, length))
		assert.ErrorIs(t, err, ErrWrongPieceLength, "length %d", length)
	}
}

func TestPieceFromBytesCopies(t *testing.T) {
	buf := bytes.Repeat([]byte{0x11}, PieceSize)
	piece, err := PieceFromBytes(buf)
	require.NoError(t, err)

	buf[0] = 0x22
	assert.Equal(t, byte(0x11), piece.Bytes()[0])
}

func TestPieceFromOwnedBytesReinterprets(t *testing.T) {
	buf := bytes.Repeat([]byte{0x33}, PieceSize)
	piece, err := PieceFromOwnedBytes(buf)
	require.NoError(t, err)

	// The piece owns the buffer's storage directly, no copy was made.
	buf[0] = 0x44
	assert.Equal(t, byte(0x44), piece.Bytes()[0])
}

func TestPieceClone(t *testing.T) {
	piece := NewPiece()
	piece.Record()[0] = 0x55

	clone := piece.Clone()
	assert.True(t, piece.Equal(clone))

	clone.Record()[0] = 0x66
	assert.False(t, piece.Equal(clone))
	assert.Equal(t, byte(0x55), piece.Record()[0])
}

func TestZeroPieceIsInvalid(t *testing.T) {
	var piece Piece
	assert.Panics(t, func() { _ = piece.Bytes() })
	assert.Panics(t, func() { _ = piece.Record() })
	assert.Panics(t, func() { piece.Equal(NewPiece()) })
}

func TestPieceArraySplit(t *testing.T) {
	var piece PieceArray
	_, err := rand.Read(piece[:])
	require.NoError(t, err)

	record, commitment, witness := piece.Split()
	assert.Len(t, record.Bytes(), RecordSize)
	assert.Len(t, commitment.Bytes(), RecordCommitmentSize)
	assert.Len(t, witness.Bytes(), RecordWitnessSize)

	var concat []byte
	concat = append(concat, record.Bytes()...)
	concat = append(concat, commitment.Bytes()...)
	concat = append(concat, witness.Bytes()...)
	assert.Equal(t, piece.Bytes(), concat)
}

func TestPieceArraySplitAliases(t *testing.T) {
	var piece PieceArray
	record, commitment, witness := piece.Split()

	record[0] = 0x01
	commitment[0] = 0x02
	witness[0] = 0x03

	assert.Equal(t, byte(0x01), piece[0])
	assert.Equal(t, byte(0x02), piece[RecordSize])
	assert.Equal(t, byte(0x03), piece[RecordSize+RecordCommitmentSize])
}

func TestRecordFullScalarChunks(t *testing.T) {
	var record Record
	_, err := rand.Read(record[:])
	require.NoError(t, err)

	chunks := record.FullScalarChunks()
	require.Len(t, chunks, RecordChunks)

	var concat []byte
	for _, chunk := range chunks {
		concat = append(concat, chunk[:]...)
	}
	assert.Equal(t, record.Bytes(), concat)
}

func TestRecordSafeScalarChunks(t *testing.T) {
	var record Record
	_, err := rand.Read(record[:])
	require.NoError(t, err)

	fullChunks := record.FullScalarChunks()
	safeChunks := record.SafeScalarChunks()
	require.Len(t, safeChunks, len(fullChunks))

	for i, safe := range safeChunks {
		assert.Equal(t, fullChunks[i][:crypto.ScalarSafeBytes], safe[:])
	}
}

func TestRecordChunksWritable(t *testing.T) {
	var record Record
	chunks := record.FullScalarChunks()
	chunks[1][0] = 0x77
	assert.Equal(t, byte(0x77), record[crypto.ScalarFullBytes])
}

func TestRawRecordChunks(t *testing.T) {
	var raw RawRecord
	_, err := rand.Read(raw[:])
	require.NoError(t, err)

	chunks := raw.Chunks()
	require.Len(t, chunks, RecordChunks)

	var concat []byte
	for _, chunk := range chunks {
		concat = append(concat, chunk[:]...)
	}
	assert.Equal(t, raw.Bytes(), concat)
}

func TestRecordedHistorySegmentRawRecords(t *testing.T) {
	var segment RecordedHistorySegment
	records := segment.RawRecords()
	require.Len(t, records, RawRecordsInSegment)

	records[127][0] = 0x99
	assert.Equal(t, byte(0x99), segment[127*RawRecordSize])
}

func TestFlatPiecesIndexing(t *testing.T) {
	testCases := []struct {
		count       int
		sourceCount int
		parityCount int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{2, 1, 1},
		{5, 3, 2},
		{PiecesInSegment, 128, 128},
	}

	for _, tc := range testCases {
		flat := NewFlatPieces(tc.count)
		assert.Len(t, flat, tc.count)
		assert.Len(t, flat.Source(), tc.sourceCount, "count %d", tc.count)
		assert.Len(t, flat.Parity(), tc.parityCount, "count %d", tc.count)

		for _, piece := range flat {
			assert.Equal(t, PieceArray{}, piece)
		}
	}
}

func TestFlatPiecesSourceParityPositions(t *testing.T) {
	flat := NewFlatPieces(6)
	for i := range flat {
		flat[i][0] = byte(i)
	}

	for i, piece := range flat.Source() {
		assert.Equal(t, byte(i*2), piece[0])
	}
	for i, piece := range flat.Parity() {
		assert.Equal(t, byte(i*2+1), piece[0])
	}
}

func TestFlatPiecesBytes(t *testing.T) {
	flat := NewFlatPieces(3)
	flat[1][0] = 0xaa

	raw := flat.Bytes()
	require.Len(t, raw, 3*PieceSize)
	assert.Equal(t, byte(0xaa), raw[PieceSize])

	// Writing through the byte view mutates the batch.
	raw[2*PieceSize] = 0xbb
	assert.Equal(t, byte(0xbb), flat[2][0])

	assert.Nil(t, NewFlatPieces(0).Bytes())
}

func TestFlatPiecesWireRoundTrip(t *testing.T) {
	flat := NewFlatPieces(3)
	_, err := rand.Read(flat.Bytes())
	require.NoError(t, err)

	encoded, err := codec.Marshal(flat)
	require.NoError(t, err)
	// compact length prefix followed by the raw concatenated pieces
	require.Len(t, encoded, 1+3*PieceSize)
	assert.Equal(t, flat.Bytes(), encoded[1:])

	var decoded FlatPieces
	require.NoError(t, codec.Unmarshal(encoded, &decoded))
	assert.Equal(t, flat, decoded)
}
