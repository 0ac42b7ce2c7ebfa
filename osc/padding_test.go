package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadded(t *testing.T) {
	for l := 0; l < 64; l++ {
		n := Padded(l, 4)
		if n%4 != 0 || n < l || n-l > 3 {
			t.Errorf("Padded(%d, 4) = %d", l, n)
		}
		if s := paddedStringLen(l); s <= l || s%4 != 0 {
			t.Errorf("paddedStringLen(%d) = %d, want > %d and 4-aligned", l, s, l)
		}
	}

	assert.Equal(t, 0, Padded(0, 8))
	assert.Equal(t, 8, Padded(1, 8))
	assert.Equal(t, 16, Padded(10, 8))
	assert.Equal(t, 16, Padded(16, 8))
	assert.Equal(t, 7, Padded(7, 0))
}

func TestPadBytesNeeded(t *testing.T) {
	var n int
	n = padBytesNeeded(4, 4)
	if n != 0 {
		t.Errorf("Number of pad bytes should be 0 and is: %d", n)
	}

	n = padBytesNeeded(3, 4)
	if n != 1 {
		t.Errorf("Number of pad bytes should be 1 and is: %d", n)
	}

	n = padBytesNeeded(1, 4)
	if n != 3 {
		t.Errorf("Number of pad bytes should be 3 and is: %d", n)
	}

	n = padBytesNeeded(0, 4)
	if n != 0 {
		t.Errorf("Number of pad bytes should be 0 and is: %d", n)
	}

	n = padBytesNeeded(63, 4)
	if n != 1 {
		t.Errorf("Number of pad bytes should be 1 and is: %d", n)
	}

	n = padBytesNeeded(10, 8)
	if n != 6 {
		t.Errorf("Number of pad bytes should be 6 and is: %d", n)
	}
}

func TestParsePaddedString(t *testing.T) {
	for _, tt := range []struct {
		buf   []byte // buffer
		want  int    // bytes consumed
		want1 string // resulting string
		err   error
	}{
		{[]byte{'t', 'e', 's', 't', 's', 't', 'r', 'i', 'n', 'g', 0, 0}, 12, "teststring", nil},
		{[]byte{'t', 'e', 's', 't', 'e', 'r', 's', 0}, 8, "testers", nil},
		{[]byte{'t', 'e', 's', 't', 's', 0, 0, 0}, 8, "tests", nil},
		{[]byte{'t', 'e', 's', 0, 0, 0, 0, 0}, 4, "tes", nil}, // OSC uses null terminated strings
		{[]byte{'t', 'e', 's', 't'}, 0, "", ErrBufferTruncated}, // if there is no null byte at the end, it doesn't work.
		{[]byte{'t', 'e', 's', 't', 0}, 0, "", ErrBufferTruncated}, // terminator present, padding missing
		{[]byte{}, 0, "", ErrBufferTruncated},
	} {
		got, got1, err := parsePaddedString(tt.buf, 0)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.want1)
		} else {
			assert.NoError(t, err)
		}
		if got1 != tt.want {
			t.Errorf("%s: Bytes consumed don't match; got = %d, want = %d", tt.want1, got1, tt.want)
		}
		if got != tt.want1 {
			t.Errorf("%s: Strings don't match; got = %b, want = %b", tt.want1, []byte(got), []byte(tt.want1))
		}
	}
}

func TestAppendPaddedString(t *testing.T) {
	for _, s := range []string{"", "a", "abc", "abcd", "testString"} {
		b := appendPaddedString(nil, s)
		require.Len(t, b, paddedStringLen(len(s)), s)

		got, n, err := parsePaddedString(b, 0)
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.Equal(t, len(b), n)
	}
}

func TestAppendBlob(t *testing.T) {
	b := appendBlob([]byte{0xaa}, []byte("0123456789"))
	assert.Len(t, b, 1+4+16)
	assert.Equal(t, []byte{0xaa, 0, 0, 0, 10}, b[:5])
	assert.Equal(t, make([]byte, 6), b[15:])
}
