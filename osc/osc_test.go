package osc

import (
	"encoding/binary"
)

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

// be32 returns v as 4 big-endian bytes.
func be32(v uint32) string {
	return string(binary.BigEndian.AppendUint32(nil, v))
}

// element size-prefixes raw for use inside a bundle.
func element(raw []byte) []byte {
	return append(binary.BigEndian.AppendUint32(nil, uint32(len(raw))), raw...)
}

func bundleHeader(tt uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte("#bundle"+zero), tt)
}

// Example messages from the OSC 1.0 specification.
var (
	oscillatorVector = []byte{
		0x2f, 0x6f, 0x73, 0x63,
		0x69, 0x6c, 0x6c, 0x61,
		0x74, 0x6f, 0x72, 0x2f,
		0x34, 0x2f, 0x66, 0x72,
		0x65, 0x71, 0x75, 0x65,
		0x6e, 0x63, 0x79, 0x0,
		0x2c, 0x66, 0x0, 0x0,
		0x43, 0xdc, 0x0, 0x0,
	}

	fooVector = []byte{
		0x2f, 0x66, 0x6f, 0x6f,
		0x0, 0x0, 0x0, 0x0,
		0x2c, 0x69, 0x69, 0x73,
		0x66, 0x66, 0x0, 0x0,
		0x0, 0x0, 0x3, 0xe8,
		0xff, 0xff, 0xff, 0xff,
		0x68, 0x65, 0x6c, 0x6c,
		0x6f, 0x0, 0x0, 0x0,
		0x3f, 0x9d, 0xf3, 0xb6,
		0x40, 0xb5, 0xb2, 0x2d,
	}
)

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"no_args",
		&Message{Address: "/a", Arguments: []any{}},
		[]byte("/a" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"int32",
		&Message{Address: "/int", Arguments: []any{int32(1)}},
		[]byte("/int" + nulls(4) + ",i" + nulls(2) + be32(1)),
		false,
	},
	{
		"float32",
		&Message{Address: "/float", Arguments: []any{float32(440)}},
		[]byte("/float" + nulls(2) + ",f" + nulls(2) + be32(0x43dc0000)),
		false,
	},
	{
		"string",
		&Message{Address: "/str", Arguments: []any{"hello"}},
		[]byte("/str" + nulls(4) + ",s" + nulls(2) + "hello" + nulls(3)),
		false,
	},
	{
		"string_aligned",
		&Message{Address: "/str", Arguments: []any{"abcd"}},
		[]byte("/str" + nulls(4) + ",s" + nulls(2) + "abcd" + nulls(4)),
		false,
	},
	{
		"blob",
		&Message{Address: "/blob", Arguments: []any{Blob("abc")}},
		[]byte("/blob" + nulls(3) + ",b" + nulls(2) + be32(3) + "abc" + nulls(5)),
		false,
	},
	{
		"mixed",
		&Message{Address: "/mixed", Arguments: []any{int32(-1), float32(1.5), "abcd", Blob{}}},
		[]byte("/mixed" + nulls(2) + ",ifsb" + nulls(3) +
			be32(0xffffffff) + be32(0x3fc00000) + "abcd" + nulls(4) + be32(0)),
		false,
	},
}

var bundleTestCases = []testCase{
	{
		"empty_bundle",
		&Bundle{Timetag: ImmediateTimetag},
		bundleHeader(1),
		false,
	},
	{
		"one_message",
		&Bundle{Timetag: ImmediateTimetag, Elements: []Packet{
			&Message{Address: "/a", Arguments: []any{int32(1)}},
		}},
		append(bundleHeader(1), element([]byte("/a"+nulls(2)+",i"+nulls(2)+be32(1)))...),
		false,
	},
	{
		"nested",
		&Bundle{Timetag: 5 << 32, Elements: []Packet{
			&Message{Address: "/a", Arguments: []any{}},
			&Bundle{Timetag: 6 << 32, Elements: []Packet{
				&Message{Address: "/b", Arguments: []any{"x"}},
			}},
		}},
		append(append(bundleHeader(5<<32),
			element([]byte("/a"+nulls(2)+","+nulls(3)))...),
			element(append(bundleHeader(6<<32),
				element([]byte("/b"+nulls(2)+",s"+nulls(2)+"x"+nulls(3)))...))...),
		false,
	},
}
