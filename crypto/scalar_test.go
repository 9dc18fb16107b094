package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarSafeBytesRoundTrip(t *testing.T) {
	var safe [ScalarSafeBytes]byte
	for i := range safe {
		safe[i] = byte(i * 7)
	}

	scalar := ScalarFromSafeBytes(&safe)
	full := scalar.ToBytes()

	assert.Equal(t, safe[:], full[:ScalarSafeBytes])
	assert.Equal(t, byte(0), full[ScalarFullBytes-1])
}

func TestScalarFullBytesRoundTrip(t *testing.T) {
	var full [ScalarFullBytes]byte
	for i := 0; i < ScalarSafeBytes; i++ {
		full[i] = byte(255 - i)
	}

	scalar, err := ScalarFromBytes(&full)
	require.NoError(t, err)
	assert.Equal(t, full, scalar.ToBytes())
}

func TestScalarFromBytesRejectsNonCanonical(t *testing.T) {
	var full [ScalarFullBytes]byte
	for i := range full {
		full[i] = 0xff
	}

	_, err := ScalarFromBytes(&full)
	assert.Error(t, err)
}
