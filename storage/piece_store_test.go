package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YFiN99/subspace/pieces"
)

func newTestStore(t *testing.T) *PieceStore {
	t.Helper()
	store, err := NewPieceStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func makePiece(seed byte) pieces.Piece {
	piece := pieces.NewPiece()
	bytes := piece.Bytes()
	for i := range bytes {
		bytes[i] = seed + byte(i)
	}
	return piece
}

func TestPieceRoundTrip(t *testing.T) {
	store := newTestStore(t)

	piece := makePiece(1)
	require.NoError(t, store.PutPiece(42, piece))

	loaded, err := store.GetPiece(42)
	require.NoError(t, err)
	assert.True(t, piece.Equal(loaded))

	found, err := store.HasPiece(42)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.HasPiece(43)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetPieceNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetPiece(7)
	assert.ErrorIs(t, err, ErrPieceNotFound)
}

func TestGetPieceWrongLength(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.store.Put(pieceKey(7), []byte{1, 2, 3}))
	_, err := store.GetPiece(7)
	assert.ErrorIs(t, err, pieces.ErrWrongPieceLength)
}

func TestDeletePiece(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PutPiece(1, makePiece(1)))
	require.NoError(t, store.DeletePiece(1))
	_, err := store.GetPiece(1)
	assert.ErrorIs(t, err, ErrPieceNotFound)
}

func TestPutSegment(t *testing.T) {
	store := newTestStore(t)

	flat := pieces.NewFlatPieces(pieces.PiecesInSegment)
	for i := range flat {
		flat[i][0] = byte(i)
	}
	commitment := pieces.SegmentCommitment{1, 2, 3}
	require.NoError(t, store.PutSegment(3, flat, &commitment))

	firstPieceIndex := uint64(3 * pieces.PiecesInSegment)
	for _, position := range []int{0, 1, pieces.PiecesInSegment - 1} {
		piece, err := store.GetPiece(firstPieceIndex + uint64(position))
		require.NoError(t, err)
		assert.Equal(t, byte(position), piece.Bytes()[0])
	}

	loaded, err := store.GetSegmentCommitment(3)
	require.NoError(t, err)
	assert.Equal(t, commitment, loaded)

	_, err = store.GetSegmentCommitment(4)
	assert.ErrorIs(t, err, ErrSegmentCommitmentNotFound)

	count, err := store.PieceCount()
	require.NoError(t, err)
	assert.Equal(t, pieces.PiecesInSegment, count)
}

func TestPersistenceStorePrefixScan(t *testing.T) {
	store, err := NewMemoryPersistenceStore()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put([]byte("a:1"), []byte{1}))
	require.NoError(t, store.Put([]byte("a:2"), []byte{2}))
	require.NoError(t, store.Put([]byte("b:1"), []byte{3}))

	results, err := store.GetWithPrefix([]byte("a:"))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []byte("a:1"), results[0][0])
	assert.Equal(t, []byte("a:2"), results[1][0])
}
