package osc

import (
	"github.com/rs/zerolog"
)

// DecodeOption configures ReadMessage, ReadBundle and ParsePacket.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict        bool
	legacyAdvance bool
	log           zerolog.Logger
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	cfg := decodeConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithStrictTypeTags requires the leading ',' of the type tag string and
// fails on any unrecognized tag. The default skips unrecognized bytes and
// logs a warning for each of them. A skipped tag's payload is not consumed,
// so any argument after it is read from the wrong offset; use strict decoding
// when the sender may emit tags outside "ifsb".
func WithStrictTypeTags() DecodeOption {
	return func(c *decodeConfig) {
		c.strict = true
	}
}

// WithLegacyTagAdvance skips one extra byte after the type tag string before
// reading arguments. Only use it against senders that emit that layout.
func WithLegacyTagAdvance() DecodeOption {
	return func(c *decodeConfig) {
		c.legacyAdvance = true
	}
}

// WithLogger sets the logger used for lenient decode warnings.
func WithLogger(log zerolog.Logger) DecodeOption {
	return func(c *decodeConfig) {
		c.log = log
	}
}
