package osc

import (
	"encoding"

	"github.com/cockroachdb/errors"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	// AppendBinary appends the wire form of the packet to b.
	AppendBinary(b []byte) ([]byte, error)
}

// ParsePacket parses the given data and returns either a *Message or a *Bundle.
func ParsePacket(data []byte, opts ...DecodeOption) (Packet, error) {
	return parsePacket(data, newDecodeConfig(opts))
}

func parsePacket(data []byte, cfg decodeConfig) (Packet, error) {
	if len(data) == 0 {
		return nil, truncated("packet", 0, 1, 0)
	}

	switch data[0] {
	case '/':
		msg, _, _, err := ReadMessage(data, 0, withConfig(cfg))
		if err != nil {
			return nil, err
		}
		return msg, nil
	case '#':
		return unmarshalBundle(data, cfg)
	default:
		return nil, errors.Wrapf(ErrMalformedAddress, "packet starts with %q", data[0])
	}
}
