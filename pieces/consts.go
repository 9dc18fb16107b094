// Package pieces defines the fixed-size unit of archival history and the
// segment structure around it. Every size below is a network-wide constant
// frozen at launch; changing any of them breaks compatibility with the
// already-published history.
package pieces

import (
	"github.com/YFiN99/subspace/crypto"
)

const (
	// PieceSize is the byte size of a piece, ~32KiB. A bit less because the
	// record has to be a multiple of 2 bytes for erasure coding and a multiple
	// of 32 bytes to divide evenly into BLS12-381 scalars.
	PieceSize = 31744

	// RecordCommitmentSize is the size of a record commitment in bytes.
	RecordCommitmentSize = 48

	// RecordWitnessSize is the size of a record witness in bytes.
	RecordWitnessSize = 48

	// SegmentCommitmentSize is the size of a segment commitment in bytes.
	SegmentCommitmentSize = 48

	// RecordSize is the size of the data-bearing portion of a piece, guaranteed
	// to be a multiple of crypto.ScalarFullBytes.
	RecordSize = PieceSize - RecordCommitmentSize - RecordWitnessSize

	// RecordChunks is the number of full scalar chunks in one record.
	RecordChunks = RecordSize / crypto.ScalarFullBytes

	// RawRecordSize is the size of a raw record in bytes, guaranteed to be a
	// multiple of crypto.ScalarSafeBytes.
	RawRecordSize = RecordChunks * crypto.ScalarSafeBytes

	// PiecesInSegment is the number of pieces one recorded history segment is
	// archived into: half source records and half parity records.
	PiecesInSegment = 256

	// RawRecordsInSegment is the number of raw records in one segment of
	// recorded history, before erasure coding is applied.
	RawRecordsInSegment = PiecesInSegment / 2

	// RecordedHistorySegmentSize is the size of one recorded history segment
	// in bytes.
	RecordedHistorySegmentSize = RawRecordSize * RawRecordsInSegment
)

// The size constants are frozen for the lifetime of the network, so their
// divisibility invariants are checked at compile time rather than at runtime.
// Each pair of declarations below produces a negative array length, and thus a
// build failure, if the invariant does not hold.
var (
	_ [RecordSize - RecordChunks*crypto.ScalarFullBytes]byte
	_ [RecordChunks*crypto.ScalarFullBytes - RecordSize]byte
	_ [0 - PieceSize%2]byte
)
