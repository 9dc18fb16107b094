package pieces

import (
	"github.com/YFiN99/subspace/crypto"
)

// RawRecord is the pre-archival counterpart of a Record: the bytes of one
// record of recorded history before erasure coding packs them into scalars.
// Its size is a whole number of safe scalar chunks.
type RawRecord [RawRecordSize]byte

// Bytes returns the raw record as a byte slice backed by the same memory.
func (r *RawRecord) Bytes() []byte {
	return r[:]
}

// Chunks returns views of the raw record as consecutive safe scalar chunks.
// The views alias the record memory; writing through them mutates the record.
func (r *RawRecord) Chunks() []*[crypto.ScalarSafeBytes]byte {
	chunks := make([]*[crypto.ScalarSafeBytes]byte, RecordChunks)
	for i := range chunks {
		chunks[i] = (*[crypto.ScalarSafeBytes]byte)(r[i*crypto.ScalarSafeBytes : (i+1)*crypto.ScalarSafeBytes])
	}
	return chunks
}

// Record is the data-bearing portion of a piece: RecordSize bytes dividing
// evenly into full scalar chunks.
type Record [RecordSize]byte

// Bytes returns the record as a byte slice backed by the same memory.
func (r *Record) Bytes() []byte {
	return r[:]
}

// FullScalarChunks returns views of the record as consecutive full scalar
// chunks, covering the whole record with no gaps and no overlap. The views
// alias the record memory; writing through them mutates the record.
func (r *Record) FullScalarChunks() []*[crypto.ScalarFullBytes]byte {
	chunks := make([]*[crypto.ScalarFullBytes]byte, RecordChunks)
	for i := range chunks {
		chunks[i] = (*[crypto.ScalarFullBytes]byte)(r[i*crypto.ScalarFullBytes : (i+1)*crypto.ScalarFullBytes])
	}
	return chunks
}

// SafeScalarChunks returns views of the leading safe-width prefix of each full
// scalar chunk.
//
// Only useful for source records: those carry raw record bytes in the safe
// prefix with the remainder as padding, while parity records use the full
// chunk width. The type does not track which kind of record it holds.
func (r *Record) SafeScalarChunks() []*[crypto.ScalarSafeBytes]byte {
	chunks := make([]*[crypto.ScalarSafeBytes]byte, RecordChunks)
	for i := range chunks {
		chunks[i] = (*[crypto.ScalarSafeBytes]byte)(r[i*crypto.ScalarFullBytes : i*crypto.ScalarFullBytes+crypto.ScalarSafeBytes])
	}
	return chunks
}

// RecordCommitment is the commitment to a record's content contained within a
// piece.
type RecordCommitment [RecordCommitmentSize]byte

// Bytes returns the commitment as a byte slice backed by the same memory.
func (c *RecordCommitment) Bytes() []byte {
	return c[:]
}

// RecordWitness proves that a record commitment belongs to the segment-wide
// commitment, enabling independent verification of a single piece.
type RecordWitness [RecordWitnessSize]byte

// Bytes returns the witness as a byte slice backed by the same memory.
func (w *RecordWitness) Bytes() []byte {
	return w[:]
}

// SegmentCommitment is the compact root a whole segment of pieces is verified
// against.
type SegmentCommitment [SegmentCommitmentSize]byte

// Bytes returns the segment commitment as a byte slice backed by the same
// memory.
func (c *SegmentCommitment) Bytes() []byte {
	return c[:]
}
