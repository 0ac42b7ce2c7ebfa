package osc

import (
	"encoding/binary"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	bundleTagString = "#bundle"

	// bundleHeaderSize covers the padded "#bundle" string and the time tag.
	bundleHeaderSize = 16
)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns a bundle holding elems, to be executed at tt.
func NewBundle(tt Timetag, elems ...Packet) *Bundle {
	return &Bundle{Timetag: tt, Elements: elems}
}

// NewBundleWithTime returns an empty OSC Bundle for the given time.
func NewBundleWithTime(t time.Time) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(t)}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return errors.Newf("unsupported OSC packet type %T: only Bundle and Message are supported", pck)

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// Messages returns every message in the bundle, descending into nested
// bundles depth first.
func (b *Bundle) Messages() []*Message {
	var msgs []*Message
	for _, e := range b.Elements {
		switch t := e.(type) {
		case *Message:
			msgs = append(msgs, t)
		case *Bundle:
			msgs = append(msgs, t.Messages()...)
		}
	}
	return msgs
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	return b.AppendBinary(nil)
}

// AppendBinary appends the bundle to buf:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) AppendBinary(buf []byte) ([]byte, error) {
	if b == nil {
		return nil, errors.Wrap(ErrMalformedBundle, "nil bundle")
	}
	buf = appendPaddedString(buf, bundleTagString)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Timetag))

	for i, e := range b.Elements {
		if e == nil {
			return nil, errors.Wrapf(ErrMalformedBundle, "element %d is nil", i)
		}

		// Reserve the size prefix and fill it in once the element is written.
		sizeAt := len(buf)
		buf = append(buf, 0, 0, 0, 0)

		var err error
		if buf, err = e.AppendBinary(buf); err != nil {
			return nil, errors.Wrapf(err, "bundle element %d", i)
		}
		binary.BigEndian.PutUint32(buf[sizeAt:], uint32(len(buf)-sizeAt-bit32Size))
	}

	return buf, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	bb, err := unmarshalBundle(data, newDecodeConfig(nil))
	if err != nil {
		return err
	}
	*b = *bb
	return nil
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte, opts ...DecodeOption) (*Bundle, error) {
	return unmarshalBundle(data, newDecodeConfig(opts))
}

func unmarshalBundle(data []byte, cfg decodeConfig) (*Bundle, error) {
	tt, err := readBundleHeader(data)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Timetag: tt}
	for off := bundleHeaderSize; off < len(data); {
		elem, next, err := nextElement(data, off)
		if err != nil {
			return nil, err
		}
		off = next

		p, err := parsePacket(elem, cfg)
		if err != nil {
			return nil, err
		}
		b.Elements = append(b.Elements, p)
	}

	return b, nil
}

// FormatBundle encodes msgs into a bundle for tt. Pass ImmediateTimetag when
// no execution time is wanted.
func FormatBundle(tt Timetag, msgs ...*Message) ([]byte, error) {
	b := &Bundle{Timetag: tt, Elements: make([]Packet, 0, len(msgs))}
	for _, m := range msgs {
		b.Elements = append(b.Elements, m)
	}
	return b.MarshalBinary()
}

// readBundleHeader checks the "#bundle" string and returns the time tag.
func readBundleHeader(data []byte) (Timetag, error) {
	if len(data) < bundleHeaderSize {
		return 0, truncated("bundle header", 0, bundleHeaderSize, len(data))
	}

	tag, n, err := parsePaddedString(data[:bit64Size], 0)
	if err != nil || tag != bundleTagString || n != bit64Size {
		return 0, errors.Wrapf(ErrMalformedBundle, "invalid bundle start tag %q", data[:bit64Size])
	}

	return Timetag(binary.BigEndian.Uint64(data[bit64Size:bundleHeaderSize])), nil
}

// nextElement returns the size prefixed element at off and the offset just
// past it.
func nextElement(data []byte, off int) ([]byte, int, error) {
	if len(data)-off < bit32Size {
		return nil, 0, truncated("bundle element size", off, bit32Size, len(data)-off)
	}

	size := int(int32(binary.BigEndian.Uint32(data[off:])))
	start := off + bit32Size
	if size <= 0 {
		return nil, 0, errors.Wrapf(ErrMalformedBundle, "invalid bundle element length %d at offset %d", size, off)
	}
	if size > len(data)-start {
		return nil, 0, truncated("bundle element", start, size, len(data)-start)
	}

	return data[start : start+size], start + size, nil
}

// BundleReader walks the messages of an encoded bundle one at a time. Nested
// bundles are descended into, so Message only ever returns messages. A reader
// holds nothing but a view of the caller's buffer and may be dropped at any
// point.
type BundleReader struct {
	cfg     decodeConfig
	timetag Timetag
	frames  []bundleFrame
	msg     *Message
	msgTime Timetag
	err     error
}

type bundleFrame struct {
	data    []byte
	off     int
	timetag Timetag
}

// ReadBundle validates the bundle header in data and returns a reader over its
// elements. Nothing past the header is decoded until Next is called.
func ReadBundle(data []byte, opts ...DecodeOption) (*BundleReader, error) {
	tt, err := readBundleHeader(data)
	if err != nil {
		return nil, err
	}

	return &BundleReader{
		cfg:     newDecodeConfig(opts),
		timetag: tt,
		frames:  []bundleFrame{{data: data, off: bundleHeaderSize, timetag: tt}},
	}, nil
}

// Timetag returns the time tag of the outermost bundle.
func (r *BundleReader) Timetag() Timetag {
	return r.timetag
}

// Next advances to the next message. It returns false when the bundle is
// exhausted or an error occurred; check Err to tell them apart.
func (r *BundleReader) Next() bool {
	r.msg = nil
	if r.err != nil {
		return false
	}

	for len(r.frames) > 0 {
		f := &r.frames[len(r.frames)-1]
		if f.off >= len(f.data) {
			r.frames = r.frames[:len(r.frames)-1]
			continue
		}

		elem, next, err := nextElement(f.data, f.off)
		if err != nil {
			r.fail(err)
			return false
		}
		f.off = next

		if elem[0] == '#' {
			tt, err := readBundleHeader(elem)
			if err != nil {
				r.fail(err)
				return false
			}
			r.frames = append(r.frames, bundleFrame{data: elem, off: bundleHeaderSize, timetag: tt})
			continue
		}

		msg, _, _, err := ReadMessage(elem, 0, withConfig(r.cfg))
		if err != nil {
			r.fail(err)
			return false
		}
		r.msg = msg
		r.msgTime = f.timetag
		return true
	}

	return false
}

// Message returns the message read by the last successful call to Next.
func (r *BundleReader) Message() *Message {
	return r.msg
}

// MessageTimetag returns the time tag of the bundle directly enclosing the
// current message.
func (r *BundleReader) MessageTimetag() Timetag {
	return r.msgTime
}

// Err returns the first error encountered by Next.
func (r *BundleReader) Err() error {
	return r.err
}

// All drains the reader into a slice.
func (r *BundleReader) All() ([]*Message, error) {
	var msgs []*Message
	for r.Next() {
		msgs = append(msgs, r.Message())
	}
	return msgs, r.Err()
}

func (r *BundleReader) fail(err error) {
	r.err = err
	r.frames = nil
}

// withConfig passes an already resolved config through to ReadMessage.
func withConfig(cfg decodeConfig) DecodeOption {
	return func(c *decodeConfig) {
		*c = cfg
	}
}
