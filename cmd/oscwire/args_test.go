package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabad360/oscwire/osc"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		in      string
		want    any
		wantErr bool
	}{
		{"42", int32(42), false},
		{"-7", int32(-7), false},
		{"1.5", float32(1.5), false},
		{"hello", "hello", false},
		{"i:0x10", int32(16), false},
		{"i:nope", nil, true},
		{"i:4294967296", nil, true},
		{"f:2", float32(2), false},
		{"f:x", nil, true},
		{"s:42", "42", false},
		{"s:", "", false},
		{"b:cafe", osc.Blob{0xca, 0xfe}, false},
		{"b:zz", nil, true},
		{"x:y", "x:y", false},
		{"4294967296", float32(4294967296), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseArg(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessageFlag(t *testing.T) {
	m, err := parseMessageFlag("/synth/1 i:3  f:0.5 on")
	require.NoError(t, err)
	assert.Equal(t, osc.NewMessage("/synth/1", int32(3), float32(0.5), "on"), m)

	m, err = parseMessageFlag("/ping")
	require.NoError(t, err)
	assert.Equal(t, "/ping", m.Address)
	assert.Empty(t, m.Arguments)

	_, err = parseMessageFlag("   ")
	assert.Error(t, err)

	_, err = parseMessageFlag("/bad i:x")
	assert.Error(t, err)
}
