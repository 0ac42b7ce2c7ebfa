package main

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/chabad360/oscwire/osc"
)

// parseArg turns a command line word into an OSC argument. A "tag:" prefix
// forces the type (i, f, s or b with hex content); without one, integers
// become int32, other numbers float32 and everything else a string.
func parseArg(s string) (any, error) {
	if len(s) >= 2 && s[1] == ':' {
		v := s[2:]
		switch osc.TypeTag(s[0]) {
		case osc.TypeInt32:
			i, err := strconv.ParseInt(v, 0, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "int32 argument %q", v)
			}
			return int32(i), nil
		case osc.TypeFloat32:
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "float32 argument %q", v)
			}
			return float32(f), nil
		case osc.TypeString:
			return v, nil
		case osc.TypeBlob:
			b, err := hex.DecodeString(v)
			if err != nil {
				return nil, errors.Wrapf(err, "blob argument %q", v)
			}
			return osc.Blob(b), nil
		}
	}

	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(i), nil
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil {
		return float32(f), nil
	}
	return s, nil
}

func parseArgs(words []string) ([]any, error) {
	args := make([]any, 0, len(words))
	for _, w := range words {
		a, err := parseArg(w)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

// parseMessageFlag parses "ADDRESS ARG..." as given to --msg.
func parseMessageFlag(s string) (*osc.Message, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errors.New("empty message")
	}
	args, err := parseArgs(fields[1:])
	if err != nil {
		return nil, errors.Wrapf(err, "message %q", fields[0])
	}
	return osc.NewMessage(fields[0], args...), nil
}
