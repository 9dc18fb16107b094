package storage

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/YFiN99/subspace/common"
	"github.com/YFiN99/subspace/log"
	"github.com/YFiN99/subspace/pieces"
)

var (
	ErrPieceNotFound             = errors.New("piece not found")
	ErrSegmentCommitmentNotFound = errors.New("segment commitment not found")
)

var (
	piecePrefix             = []byte("p:")
	segmentCommitmentPrefix = []byte("sc:")
)

// PieceStore persists pieces and segment commitments by index.
type PieceStore struct {
	store *PersistenceStore
}

// NewPieceStore opens a piece store at the given path, in memory if the
// path is empty.
func NewPieceStore(path string) (*PieceStore, error) {
	store, err := NewPersistenceStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening piece store: %w", err)
	}
	return &PieceStore{store: store}, nil
}

func pieceKey(index uint64) []byte {
	return append(append([]byte{}, piecePrefix...), common.Uint64ToBytes(index)...)
}

func segmentCommitmentKey(segmentIndex uint64) []byte {
	return append(append([]byte{}, segmentCommitmentPrefix...), common.Uint64ToBytes(segmentIndex)...)
}

// PutPiece stores the piece under its global piece index.
func (s *PieceStore) PutPiece(index uint64, piece pieces.Piece) error {
	if err := s.store.Put(pieceKey(index), piece.Bytes()); err != nil {
		return fmt.Errorf("storing piece %d: %w", index, err)
	}
	log.Debug(log.PieceStoreMonitoring, "stored piece", "index", index)
	return nil
}

// GetPiece loads the piece stored under the given global piece index.
// The returned piece owns the bytes read from the database.
func (s *PieceStore) GetPiece(index uint64) (pieces.Piece, error) {
	data, found, err := s.store.Get(pieceKey(index))
	if err != nil {
		return pieces.Piece{}, fmt.Errorf("loading piece %d: %w", index, err)
	}
	if !found {
		return pieces.Piece{}, fmt.Errorf("piece %d: %w", index, ErrPieceNotFound)
	}
	piece, err := pieces.PieceFromOwnedBytes(data)
	if err != nil {
		return pieces.Piece{}, fmt.Errorf("piece %d: %w", index, err)
	}
	return piece, nil
}

// HasPiece reports whether a piece is stored under the given index.
func (s *PieceStore) HasPiece(index uint64) (bool, error) {
	_, found, err := s.store.Get(pieceKey(index))
	if err != nil {
		return false, fmt.Errorf("checking piece %d: %w", index, err)
	}
	return found, nil
}

// DeletePiece removes the piece stored under the given index.
func (s *PieceStore) DeletePiece(index uint64) error {
	return s.store.Delete(pieceKey(index))
}

// PutSegment stores a whole segment's pieces starting at the segment's
// first global piece index, together with its commitment. The writes land
// in one batch so a failure never leaves a partially stored segment.
func (s *PieceStore) PutSegment(segmentIndex uint64, flat pieces.FlatPieces, commitment *pieces.SegmentCommitment) error {
	batch := new(leveldb.Batch)
	firstPieceIndex := segmentIndex * pieces.PiecesInSegment
	for position := range flat {
		batch.Put(pieceKey(firstPieceIndex+uint64(position)), flat[position].Bytes())
	}
	batch.Put(segmentCommitmentKey(segmentIndex), commitment.Bytes())
	if err := s.store.WriteBatch(batch); err != nil {
		return fmt.Errorf("storing segment %d: %w", segmentIndex, err)
	}
	log.Info(log.PieceStoreMonitoring, "stored segment",
		"segment", segmentIndex, "pieces", len(flat))
	return nil
}

// GetSegmentCommitment loads the commitment stored for the given segment.
func (s *PieceStore) GetSegmentCommitment(segmentIndex uint64) (pieces.SegmentCommitment, error) {
	data, found, err := s.store.Get(segmentCommitmentKey(segmentIndex))
	if err != nil {
		return pieces.SegmentCommitment{}, fmt.Errorf("loading segment %d commitment: %w", segmentIndex, err)
	}
	if !found {
		return pieces.SegmentCommitment{}, fmt.Errorf("segment %d: %w", segmentIndex, ErrSegmentCommitmentNotFound)
	}
	if len(data) != pieces.SegmentCommitmentSize {
		return pieces.SegmentCommitment{}, fmt.Errorf("segment %d commitment: stored value has %d bytes", segmentIndex, len(data))
	}
	return pieces.SegmentCommitment(data), nil
}

// PieceCount returns the number of pieces currently stored.
func (s *PieceStore) PieceCount() (int, error) {
	results, err := s.store.GetWithPrefix(piecePrefix)
	if err != nil {
		return 0, fmt.Errorf("counting pieces: %w", err)
	}
	return len(results), nil
}

func (s *PieceStore) Close() error {
	return s.store.Close()
}
