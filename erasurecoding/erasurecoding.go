// Package erasurecoding extends a segment's source records with parity
// records and recovers missing records, using Reed-Solomon coding.
package erasurecoding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/reedsolomon"

	"github.com/YFiN99/subspace/pieces"
)

const (
	sourceShards = pieces.RawRecordsInSegment
	parityShards = pieces.PiecesInSegment - pieces.RawRecordsInSegment
)

var (
	ErrWrongRecordCount = errors.New("wrong record count")
	ErrTooFewRecords    = errors.New("too few records to recover segment")
)

var (
	encoderOnce sync.Once
	encoder     reedsolomon.Encoder
	encoderErr  error
)

func getEncoder() (reedsolomon.Encoder, error) {
	encoderOnce.Do(func() {
		encoder, encoderErr = reedsolomon.New(sourceShards, parityShards)
	})
	return encoder, encoderErr
}

// ExtendRecords computes the parity records of a segment from its source
// records, writing them in place. Each record is one shard, so the byte-wise
// parity combination preserves zero bytes shared by every source record at
// the same offset. Source records filled through their safe chunk views
// therefore yield parity records whose chunks are canonical scalars too.
func ExtendRecords(sources []*pieces.Record, parities []*pieces.Record) error {
	if len(sources) != sourceShards || len(parities) != parityShards {
		return fmt.Errorf("%w: got %d source and %d parity records, need %d and %d",
			ErrWrongRecordCount, len(sources), len(parities), sourceShards, parityShards)
	}
	enc, err := getEncoder()
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}

	shards := make([][]byte, 0, pieces.PiecesInSegment)
	for _, record := range sources {
		shards = append(shards, record[:])
	}
	for _, record := range parities {
		shards = append(shards, record[:])
	}
	if err := enc.Encode(shards); err != nil {
		return fmt.Errorf("encoding parity records: %w", err)
	}
	return nil
}

// shardIndex maps a piece position to its Reed-Solomon shard index. Source
// records sit at even positions and parity records at odd positions, while
// the coder orders all source shards before all parity shards.
func shardIndex(position int) int {
	if position%2 == 0 {
		return position / 2
	}
	return sourceShards + position/2
}

// RecoverRecords reconstructs the missing records of a segment in place.
// records must hold one entry per piece position, nil where the record is
// missing. At least half the entries must be present. Recovered entries are
// filled in without copying the shards the decoder produces.
func RecoverRecords(records []*pieces.Record) error {
	if len(records) != pieces.PiecesInSegment {
		return fmt.Errorf("%w: got %d records, need %d",
			ErrWrongRecordCount, len(records), pieces.PiecesInSegment)
	}
	enc, err := getEncoder()
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}

	present := 0
	shards := make([][]byte, len(records))
	for position, record := range records {
		if record != nil {
			shards[shardIndex(position)] = record[:]
			present++
		}
	}
	if present < sourceShards {
		return fmt.Errorf("%w: %d of %d present", ErrTooFewRecords, present, len(records))
	}
	if present == len(records) {
		return nil
	}

	if err := enc.Reconstruct(shards); err != nil {
		return fmt.Errorf("reconstructing records: %w", err)
	}
	for position, record := range records {
		if record == nil {
			records[position] = (*pieces.Record)(shards[shardIndex(position)])
		}
	}
	return nil
}
