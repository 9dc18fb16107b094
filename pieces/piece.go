package pieces

import (
	"errors"
	"fmt"
	"io"
)

// ErrWrongPieceLength is returned when converting a byte buffer whose length
// is not exactly PieceSize into a piece.
var ErrWrongPieceLength = errors.New("wrong piece length")

// PieceArray is the canonical shape of one piece: Record, RecordCommitment
// and RecordWitness concatenated with no padding. It is a bare byte array, so
// embedding it in larger arrays or batches keeps the wire layout byte-exact.
type PieceArray [PieceSize]byte

// Bytes returns the piece as a byte slice backed by the same memory.
func (p *PieceArray) Bytes() []byte {
	return p[:]
}

// Split returns the record, commitment and witness views of the piece. The
// three views are contiguous, non-overlapping and alias the piece memory, so
// writing through them mutates the piece. The reinterpretations are valid
// because all component types are bare fixed-width byte arrays.
func (p *PieceArray) Split() (*Record, *RecordCommitment, *RecordWitness) {
	record := (*Record)(p[:RecordSize])
	commitment := (*RecordCommitment)(p[RecordSize : RecordSize+RecordCommitmentSize])
	witness := (*RecordWitness)(p[RecordSize+RecordCommitmentSize:])
	return record, commitment, witness
}

// Record returns the record view of the piece.
func (p *PieceArray) Record() *Record {
	record, _, _ := p.Split()
	return record
}

// Commitment returns the commitment view of the piece.
func (p *PieceArray) Commitment() *RecordCommitment {
	_, commitment, _ := p.Split()
	return commitment
}

// Witness returns the witness view of the piece.
func (p *PieceArray) Witness() *RecordWitness {
	_, _, witness := p.Split()
	return witness
}

// MarshalSCALE encodes the piece as exactly PieceSize raw bytes.
func (p PieceArray) MarshalSCALE() ([]byte, error) {
	return p[:], nil
}

// UnmarshalSCALE reads exactly PieceSize bytes into the piece's own storage.
func (p *PieceArray) UnmarshalSCALE(reader io.Reader) error {
	if _, err := io.ReadFull(reader, p[:]); err != nil {
		return fmt.Errorf("could not decode PieceArray: %w", err)
	}
	return nil
}

// Piece is an owning, independently heap-allocated handle to one PieceArray.
// It is semantically identical to PieceArray and exists so that single pieces
// can be moved around without embedding a ~31KiB array in enclosing values.
// A Piece is never partially initialized: constructors either zero-fill it or
// require a buffer of the exact expected length. The zero value of the type
// itself is not a valid piece: only the constructors and UnmarshalSCALE
// produce an initialized Piece, and calling accessors on a zero Piece panics.
type Piece struct {
	array *PieceArray
}

// NewPiece allocates a zero-filled piece.
func NewPiece() Piece {
	return Piece{array: new(PieceArray)}
}

// PieceFromArray copies the given array into a freshly allocated piece.
func PieceFromArray(array *PieceArray) Piece {
	piece := NewPiece()
	*piece.array = *array
	return piece
}

// PieceFromBytes copies a byte slice of exactly PieceSize bytes into a freshly
// allocated piece.
func PieceFromBytes(b []byte) (Piece, error) {
	if len(b) != PieceSize {
		return Piece{}, fmt.Errorf("%w: expected %d, got %d", ErrWrongPieceLength, PieceSize, len(b))
	}
	piece := NewPiece()
	copy(piece.array[:], b)
	return piece, nil
}

// PieceFromOwnedBytes takes ownership of a buffer of exactly PieceSize bytes
// and reinterprets its storage as the piece, avoiding a redundant copy. The
// caller must not reuse the buffer afterwards.
func PieceFromOwnedBytes(b []byte) (Piece, error) {
	if len(b) != PieceSize {
		return Piece{}, fmt.Errorf("%w: expected %d, got %d", ErrWrongPieceLength, PieceSize, len(b))
	}
	return Piece{array: (*PieceArray)(b)}, nil
}

// Array returns the underlying piece array.
func (p Piece) Array() *PieceArray {
	return p.array
}

// Bytes returns the piece as a byte slice backed by the same memory.
func (p Piece) Bytes() []byte {
	return p.array[:]
}

// Record returns the record view of the piece.
func (p Piece) Record() *Record {
	return p.array.Record()
}

// Commitment returns the commitment view of the piece.
func (p Piece) Commitment() *RecordCommitment {
	return p.array.Commitment()
}

// Witness returns the witness view of the piece.
func (p Piece) Witness() *RecordWitness {
	return p.array.Witness()
}

// Clone returns an independently owned copy of the piece.
func (p Piece) Clone() Piece {
	return PieceFromArray(p.array)
}

// Equal reports whether two pieces hold identical bytes.
func (p Piece) Equal(other Piece) bool {
	return *p.array == *other.array
}

// MarshalSCALE encodes the piece as exactly PieceSize raw bytes.
func (p Piece) MarshalSCALE() ([]byte, error) {
	return p.array[:], nil
}

// UnmarshalSCALE decodes a piece from exactly PieceSize bytes of input.
//
// The destination buffer is allocated directly on the heap and filled in
// place: a PieceSize temporary on the decode call stack can overflow
// constrained runtimes, so this is a correctness requirement rather than an
// optimization.
func (p *Piece) UnmarshalSCALE(reader io.Reader) error {
	buf := make([]byte, PieceSize)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("could not decode Piece: %w", err)
	}
	p.array = (*PieceArray)(buf)
	return nil
}
