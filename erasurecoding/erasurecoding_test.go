package erasurecoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YFiN99/subspace/pieces"
)

func makeSegmentRecords(t *testing.T) ([]*pieces.Record, []*pieces.Record) {
	t.Helper()
	sources := make([]*pieces.Record, sourceShards)
	for i := range sources {
		record := new(pieces.Record)
		for j, chunk := range record.SafeScalarChunks() {
			for k := range chunk {
				chunk[k] = byte(i + j + k)
			}
		}
		sources[i] = record
	}
	parities := make([]*pieces.Record, parityShards)
	for i := range parities {
		parities[i] = new(pieces.Record)
	}
	require.NoError(t, ExtendRecords(sources, parities))
	return sources, parities
}

func TestExtendRecordsDeterministic(t *testing.T) {
	sources, parities := makeSegmentRecords(t)
	_, again := makeSegmentRecords(t)
	for i := range parities {
		assert.Equal(t, parities[i], again[i])
	}
	// Sanity: parity differs from source.
	assert.NotEqual(t, sources[0], parities[0])
}

func TestExtendRecordsWrongCount(t *testing.T) {
	err := ExtendRecords(make([]*pieces.Record, 3), make([]*pieces.Record, parityShards))
	assert.ErrorIs(t, err, ErrWrongRecordCount)
}

func TestParityChunksKeepPadByteClear(t *testing.T) {
	_, parities := makeSegmentRecords(t)
	for _, record := range parities {
		for _, chunk := range record.FullScalarChunks() {
			assert.Zero(t, chunk[len(chunk)-1])
		}
	}
}

func TestRecoverRecordsFromHalf(t *testing.T) {
	sources, parities := makeSegmentRecords(t)

	records := make([]*pieces.Record, pieces.PiecesInSegment)
	for i := range sources {
		records[2*i] = sources[i]
		records[2*i+1] = parities[i]
	}

	// Drop every source record, keeping only parity.
	damaged := make([]*pieces.Record, len(records))
	copy(damaged, records)
	for i := 0; i < len(damaged); i += 2 {
		damaged[i] = nil
	}
	require.NoError(t, RecoverRecords(damaged))
	for i := range damaged {
		require.NotNil(t, damaged[i])
		assert.Equal(t, records[i], damaged[i], "record %d", i)
	}
}

func TestRecoverRecordsTooFew(t *testing.T) {
	records := make([]*pieces.Record, pieces.PiecesInSegment)
	for i := 0; i < sourceShards-1; i++ {
		records[i] = new(pieces.Record)
	}
	assert.ErrorIs(t, RecoverRecords(records), ErrTooFewRecords)
}

func TestRecoverRecordsAllPresentIsNoop(t *testing.T) {
	sources, parities := makeSegmentRecords(t)
	records := make([]*pieces.Record, pieces.PiecesInSegment)
	for i := range sources {
		records[2*i] = sources[i]
		records[2*i+1] = parities[i]
	}
	require.NoError(t, RecoverRecords(records))
}
