package codec

import "errors"

var (
	ErrU16OutOfRange              = errors.New("uint16 out of range")
	ErrU32OutOfRange              = errors.New("uint32 out of range")
	ErrU64OutOfRange              = errors.New("uint64 out of range")
	ErrU64NotSupported            = errors.New("uint64 is not supported")
	ErrCompactUintPrefixUnknown   = errors.New("unknown prefix for compact uint")
	ErrUnsupportedCustomPrimitive = errors.New("unsupported custom primitive")
	ErrUnsupportedDestination     = errors.New("unsupported destination type")
	ErrUnsupportedType            = errors.New("unsupported type")
	ErrUnsupportedOption          = errors.New("unsupported option")
	errDecodeBool                 = errors.New("failed to decode bool")
)
