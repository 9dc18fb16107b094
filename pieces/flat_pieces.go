package pieces

import (
	"unsafe"
)

// FlatPieces is a contiguous batch of pieces, one segment's worth when sized
// PiecesInSegment. Pieces at even indices are source pieces, pieces at odd
// indices are parity pieces. The flat layout exists so bulk archiving and
// verification can run over one allocation.
type FlatPieces []PieceArray

// NewFlatPieces allocates pieceCount zero-filled pieces contiguously.
func NewFlatPieces(pieceCount int) FlatPieces {
	return make(FlatPieces, pieceCount)
}

// Source returns views of the pieces derived directly from original data,
// at indices 0, 2, 4 and so on.
func (f FlatPieces) Source() []*PieceArray {
	source := make([]*PieceArray, (len(f)+1)/2)
	for i := range source {
		source[i] = &f[i*2]
	}
	return source
}

// Parity returns views of the erasure-coding redundancy pieces, at indices
// 1, 3, 5 and so on.
func (f FlatPieces) Parity() []*PieceArray {
	parity := make([]*PieceArray, len(f)/2)
	for i := range parity {
		parity[i] = &f[i*2+1]
	}
	return parity
}

// Bytes reinterprets the whole batch as one contiguous byte range of
// len(f)*PieceSize bytes, without copying. PieceArray is a bare byte array,
// so the backing storage already has the wire layout; this function is the
// single place that reinterprets it.
func (f FlatPieces) Bytes() []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*PieceSize)
}
