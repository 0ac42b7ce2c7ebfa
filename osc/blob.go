package osc

import (
	"encoding/binary"
)

// Blob is an OSC blob argument. On the wire it is a 4-byte big-endian byte
// count followed by the content, zero filled to a multiple of 8 bytes.
type Blob []byte

// Words returns the zero filled content as big-endian 64-bit words.
func (b Blob) Words() []uint64 {
	padded := make([]byte, Padded(len(b), blobAlign))
	copy(padded, b)

	words := make([]uint64, len(padded)/bit64Size)
	for i := range words {
		words[i] = binary.BigEndian.Uint64(padded[i*bit64Size:])
	}
	return words
}

// BlobFromWords packs words back into a blob.
func BlobFromWords(words []uint64) Blob {
	b := make(Blob, 0, len(words)*bit64Size)
	for _, w := range words {
		b = binary.BigEndian.AppendUint64(b, w)
	}
	return b
}
