package wire

import "errors"

var (
	ErrBufferExhausted     = errors.New("buffer exhausted")
	ErrTruncatedMessage    = errors.New("truncated message")
	ErrUnsupportedWireType = errors.New("unsupported wire type")
	ErrInvalidRegionCast   = errors.New("field is not length-delimited")
	ErrFieldKindMismatch   = errors.New("field has unexpected wire kind")
)
