package osc

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrMalformedAddress is returned when a message does not start with '/'.
	ErrMalformedAddress = errors.New("osc: malformed address")

	// ErrUnsupportedTypeTag is returned for a type tag outside of "ifsb".
	ErrUnsupportedTypeTag = errors.New("osc: unsupported type tag")

	// ErrBufferTruncated is returned for any read past the end of the data.
	ErrBufferTruncated = errors.New("osc: buffer truncated")

	// ErrUnsupportedType is returned by the encoder for an argument it has no tag for.
	ErrUnsupportedType = errors.New("osc: unsupported argument type")

	// ErrMalformedBundle is returned when a bundle header or element is invalid.
	ErrMalformedBundle = errors.New("osc: malformed bundle")
)

// truncated wraps ErrBufferTruncated with the read that failed.
func truncated(what string, offset, need, have int) error {
	return errors.Wrapf(ErrBufferTruncated, "%s at offset %d: need %d bytes, have %d", what, offset, need, have)
}
