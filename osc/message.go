package osc

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []any
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...any) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...any) error {
	if _, err := GetTypeTags(args); err != nil {
		return err
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string, without the leading ','.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", errors.New("TypeTags: message is nil")
	}
	return GetTypeTags(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.Address)

	tags, err := m.TypeTags()
	if err != nil || len(tags) == 0 {
		return sb.String()
	}

	sb.WriteString(" ,")
	sb.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case Blob:
			fmt.Fprintf(&sb, " blob(%d)", len(arg))
		case []byte:
			fmt.Fprintf(&sb, " blob(%d)", len(arg))
		case string:
			fmt.Fprintf(&sb, " %q", arg)
		default:
			fmt.Fprintf(&sb, " %v", arg)
		}
	}

	return sb.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(nil)
}

// AppendBinary appends the wire form of the message to b. The layout is:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) AppendBinary(b []byte) ([]byte, error) {
	if m == nil {
		return nil, errors.Wrap(ErrMalformedAddress, "nil message")
	}
	if !strings.HasPrefix(m.Address, "/") {
		return nil, errors.Wrapf(ErrMalformedAddress, "%q", m.Address)
	}
	if strings.IndexByte(m.Address, 0) != -1 {
		return nil, errors.Wrapf(ErrMalformedAddress, "%q contains NUL", m.Address)
	}

	tags, err := m.TypeTags()
	if err != nil {
		return nil, err
	}

	b = appendPaddedString(b, m.Address)
	b = appendPaddedString(b, string(rune(typeTagMarker))+tags)

	for i, arg := range m.Arguments {
		switch t := arg.(type) {
		case float32:
			b = binary.BigEndian.AppendUint32(b, math.Float32bits(t))
		case float64:
			b = binary.BigEndian.AppendUint32(b, math.Float32bits(float32(t)))
		case string:
			if strings.IndexByte(t, 0) != -1 {
				return nil, errors.Wrapf(ErrUnsupportedType, "argument %d: string contains NUL", i)
			}
			b = appendPaddedString(b, t)
		case Blob:
			b = appendBlob(b, t)
		case []byte:
			b = appendBlob(b, t)
		default:
			v, err := toInt32(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i)
			}
			b = binary.BigEndian.AppendUint32(b, uint32(v))
		}
	}

	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	msg, _, _, err := ReadMessage(data, 0)
	if err != nil {
		return err
	}
	*m = *msg
	return nil
}

// NewMessageFromData returns a new OSC message created from the parsed data.
func NewMessageFromData(data []byte, opts ...DecodeOption) (*Message, error) {
	msg, _, _, err := ReadMessage(data, 0, opts...)
	return msg, err
}

// FormatMessage encodes address and args into a new buffer. Argument types
// map to tags as: integers 'i', floats 'f', string 's', Blob or []byte 'b'.
func FormatMessage(address string, args ...any) ([]byte, error) {
	return NewMessage(address, args...).MarshalBinary()
}

// ReadMessage decodes the message starting at offset. It returns the
// message, the type tags that were accepted and the number of bytes consumed
// from offset.
func ReadMessage(data []byte, offset int, opts ...DecodeOption) (*Message, string, int, error) {
	cfg := newDecodeConfig(opts)

	if offset < 0 || offset >= len(data) {
		return nil, "", 0, truncated("address", offset, 1, 0)
	}
	if data[offset] != '/' {
		return nil, "", 0, errors.Wrapf(ErrMalformedAddress, "first byte %q at offset %d", data[offset], offset)
	}

	addr, n, err := parsePaddedString(data, offset)
	if err != nil {
		return nil, "", 0, errors.Wrap(err, "address")
	}

	msg := &Message{Address: addr}

	// Older senders may omit the type tag string entirely.
	if offset+n == len(data) {
		return msg, "", n, nil
	}

	raw, tn, err := parsePaddedString(data, offset+n)
	if err != nil {
		return nil, "", 0, errors.Wrap(err, "type tags")
	}
	n += tn

	tags, err := cfg.readTypeTags(raw, addr)
	if err != nil {
		return nil, "", 0, err
	}

	if cfg.legacyAdvance {
		n++
	}

	msg.Arguments = make([]any, 0, len(tags))
	for i := 0; i < len(tags); i++ {
		v, an, err := parsers[TypeTag(tags[i])](data, offset+n)
		if err != nil {
			return nil, "", 0, errors.Wrapf(err, "%s argument %d (%c)", addr, i, tags[i])
		}
		msg.Arguments = append(msg.Arguments, v)
		n += an
	}

	return msg, tags, n, nil
}

// readTypeTags filters raw down to the recognized tags according to the
// configured policy.
func (c decodeConfig) readTypeTags(raw, addr string) (string, error) {
	if c.strict {
		if len(raw) == 0 || raw[0] != typeTagMarker {
			return "", errors.Wrapf(ErrUnsupportedTypeTag, "%s: type tag string %q does not start with ','", addr, raw)
		}
		for i := 1; i < len(raw); i++ {
			if !TypeTag(raw[i]).Valid() {
				return "", errors.Wrapf(ErrUnsupportedTypeTag, "%s: %q", addr, raw[i])
			}
		}
		return raw[1:], nil
	}

	tags := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		t := TypeTag(raw[i])
		if t.Valid() {
			tags = append(tags, raw[i])
			continue
		}
		if i > 0 || t != typeTagMarker {
			ev := c.log.Warn().
				Str("address", addr).
				Str("tags", raw).
				Int("position", i)
			if i < len(raw)-1 {
				ev = ev.Bool("misaligned", true)
				ev.Msgf("skipping unrecognized type tag %q, later arguments may be misaligned", raw[i])
				continue
			}
			ev.Msgf("skipping unrecognized type tag %q", raw[i])
		}
	}
	return string(tags), nil
}
