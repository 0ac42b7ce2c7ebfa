package osc

import (
	"bytes"
	"encoding/binary"
)

const (
	bit32Size = 4
	bit64Size = 8

	// blobAlign is the boundary blob content is zero filled to.
	blobAlign = 8
)

// Padded returns the smallest multiple of unit that is >= length. Fields with
// a mandatory NUL terminator are sized with Padded(n+1, unit), so the
// terminator always takes at least one pad byte.
func Padded(length, unit int) int {
	if unit <= 0 {
		return length
	}
	return length + padBytesNeeded(length, unit)
}

// padBytesNeeded determines how many bytes are needed to fill up to the next
// unit boundary.
func padBytesNeeded(elementLen, unit int) int {
	return (unit - (elementLen % unit)) % unit
}

// paddedStringLen is the number of wire bytes used by an OSC-string holding n
// content bytes.
func paddedStringLen(n int) int {
	return Padded(n+1, bit32Size)
}

// appendPaddedString appends str, its terminator and the zero fill to b.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	return appendZeros(b, paddedStringLen(len(str))-len(str))
}

// parsePaddedString reads a NUL terminated, padded string starting at offset.
// It returns the content and the number of bytes the field occupies.
func parsePaddedString(data []byte, offset int) (string, int, error) {
	if offset < 0 || offset >= len(data) {
		return "", 0, truncated("string", offset, 1, 0)
	}

	pos := bytes.IndexByte(data[offset:], 0)
	if pos == -1 {
		return "", 0, truncated("string terminator", offset, len(data)-offset+1, len(data)-offset)
	}

	n := paddedStringLen(pos)
	if offset+n > len(data) {
		return "", 0, truncated("string padding", offset, n, len(data)-offset)
	}

	return string(data[offset : offset+pos]), n, nil
}

// appendBlob appends the blob length, its content and the zero fill to b.
func appendBlob(b []byte, blob []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(blob)))
	b = append(b, blob...)
	return appendZeros(b, padBytesNeeded(len(blob), blobAlign))
}

func appendZeros(b []byte, n int) []byte {
	for i := 0; i < n; i++ {
		b = append(b, 0)
	}
	return b
}
