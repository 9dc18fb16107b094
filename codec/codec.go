// Package codec implements the SCALE wire encoding used for pieces and the
// metadata that travels with them: little-endian fixed-width integers,
// compact length prefixes, and raw fixed-width byte layouts via the
// Marshaler and Unmarshaler hooks.
package codec

import (
	"bytes"
	"fmt"
)

// Encode serializes the given object using the SCALE codec rules.
func Encode(obj interface{}) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	encoder := NewEncoder(buffer)

	err := encoder.Encode(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding failed: %w", err)
	}

	return buffer.Bytes(), nil
}

// Decode deserializes the given byte slice into an object of the specified
// type using the SCALE codec.
func Decode(inp []byte, typ interface{}) (interface{}, error) {
	decoder := NewDecoder(bytes.NewReader(inp))

	err := decoder.Decode(typ)
	if err != nil {
		return nil, fmt.Errorf("decoding failed: %w", err)
	}

	return typ, nil
}
