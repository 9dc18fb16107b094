// Package crypto wraps the BLS12-381 scalar field used for piece records.
package crypto

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// ScalarFullBytes is the full serialized width of a BLS12-381 scalar.
	ScalarFullBytes = fr.Bytes
	// ScalarSafeBytes is the largest number of bytes guaranteed to round-trip
	// through a scalar without modular reduction.
	ScalarSafeBytes = fr.Bytes - 1
)

// Scalar is a BLS12-381 field element.
type Scalar fr.Element

// ScalarFromBytes deserializes a full-width little-endian chunk into a scalar.
// Fails if the chunk does not represent a canonical field element.
func ScalarFromBytes(bytes *[ScalarFullBytes]byte) (Scalar, error) {
	element, err := fr.LittleEndian.Element(bytes)
	if err != nil {
		return Scalar{}, fmt.Errorf("non-canonical scalar bytes: %w", err)
	}
	return Scalar(element), nil
}

// ScalarFromSafeBytes embeds a safe-width chunk into a scalar. Safe chunks are
// strictly below the field modulus, so this cannot fail.
func ScalarFromSafeBytes(bytes *[ScalarSafeBytes]byte) Scalar {
	var full [ScalarFullBytes]byte
	copy(full[:ScalarSafeBytes], bytes[:])
	element, err := fr.LittleEndian.Element(&full)
	if err != nil {
		panic(fmt.Sprintf("safe bytes are always canonical: %v", err))
	}
	return Scalar(element)
}

// ToBytes serializes the scalar into its full-width little-endian form.
func (s *Scalar) ToBytes() [ScalarFullBytes]byte {
	var out [ScalarFullBytes]byte
	fr.LittleEndian.PutElement(&out, fr.Element(*s))
	return out
}

// Element returns the underlying gnark-crypto field element.
func (s *Scalar) Element() fr.Element {
	return fr.Element(*s)
}
