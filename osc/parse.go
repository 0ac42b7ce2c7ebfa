package osc

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// Parser decodes one argument starting at offset and reports how many bytes
// it occupies on the wire.
type Parser func(data []byte, offset int) (value any, consumed int, err error)

var parsers = map[TypeTag]Parser{
	TypeInt32:   parseInt32,
	TypeFloat32: parseFloat32,
	TypeString:  parseString,
	TypeBlob:    parseBlob,
}

// ParserFor returns the parser for tag. The tag may be given as a TypeTag, a
// byte or rune code point, an int, or a single character string.
func ParserFor(tag any) (Parser, error) {
	t, ok := tagOf(tag)
	if ok {
		if p, found := parsers[t]; found {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedTypeTag, "%v", tag)
}

// Parse decodes a single argument of type tag from data at offset.
func Parse(tag any, data []byte, offset int) (any, int, error) {
	p, err := ParserFor(tag)
	if err != nil {
		return nil, 0, err
	}
	return p(data, offset)
}

// ParseInt32 reads a big-endian int32.
func ParseInt32(data []byte, offset int) (int32, int, error) {
	if offset < 0 || len(data)-offset < bit32Size {
		return 0, 0, truncated("int32", offset, bit32Size, max(len(data)-offset, 0))
	}
	return int32(binary.BigEndian.Uint32(data[offset:])), bit32Size, nil
}

// ParseFloat32 reads a big-endian IEEE-754 float32.
func ParseFloat32(data []byte, offset int) (float32, int, error) {
	if offset < 0 || len(data)-offset < bit32Size {
		return 0, 0, truncated("float32", offset, bit32Size, max(len(data)-offset, 0))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(data[offset:])), bit32Size, nil
}

// ParseString reads an OSC-string. The consumed count covers the content,
// the terminator and the zero fill.
func ParseString(data []byte, offset int) (string, int, error) {
	return parsePaddedString(data, offset)
}

// ParseBlob reads a length prefixed blob whose content is zero filled to a
// multiple of 8 bytes.
func ParseBlob(data []byte, offset int) (Blob, int, error) {
	size, _, err := ParseInt32(data, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "blob length")
	}
	if size < 0 {
		return nil, 0, errors.Wrapf(ErrBufferTruncated, "negative blob length %d at offset %d", size, offset)
	}

	n := Padded(int(size), blobAlign)
	start := offset + bit32Size
	if len(data)-start < n {
		return nil, 0, truncated("blob", start, n, len(data)-start)
	}

	blob := make(Blob, size)
	copy(blob, data[start:start+int(size)])
	return blob, bit32Size + n, nil
}

func parseInt32(data []byte, offset int) (any, int, error) {
	v, n, err := ParseInt32(data, offset)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func parseFloat32(data []byte, offset int) (any, int, error) {
	v, n, err := ParseFloat32(data, offset)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func parseString(data []byte, offset int) (any, int, error) {
	v, n, err := ParseString(data, offset)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func parseBlob(data []byte, offset int) (any, int, error) {
	v, n, err := ParseBlob(data, offset)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}
