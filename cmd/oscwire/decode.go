package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/chabad360/oscwire/osc"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [HEX]",
		Short: "Decode a hex encoded packet (read from stdin when HEX is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var in string
			if len(args) == 1 {
				in = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "read stdin")
				}
				in = string(b)
			}

			data, err := hex.DecodeString(strings.Join(strings.Fields(in), ""))
			if err != nil {
				return errors.Wrap(err, "invalid hex input")
			}

			return decodeTo(cmd.OutOrStdout(), data, cfg.DecodeOptions(logger)...)
		},
	}
}

// decodeTo prints the packet in data. Bundles are walked lazily, so the
// messages before a malformed element are still printed.
func decodeTo(w io.Writer, data []byte, opts ...osc.DecodeOption) error {
	if len(data) > 0 && data[0] == '#' {
		r, err := osc.ReadBundle(data, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "bundle %s\n", r.Timetag())
		for r.Next() {
			fmt.Fprintf(w, "\t%s\n", r.Message())
		}
		return r.Err()
	}

	msg, _, n, err := osc.ReadMessage(data, 0, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, msg)
	if n < len(data) {
		fmt.Fprintf(w, "(%d trailing bytes ignored)\n", len(data)-n)
	}
	return nil
}

// describe prints a decoded packet, one line per message.
func describe(w io.Writer, p osc.Packet, indent string) {
	switch p := p.(type) {
	case *osc.Message:
		fmt.Fprintf(w, "%s%s\n", indent, p)
	case *osc.Bundle:
		fmt.Fprintf(w, "%sbundle %s (%d elements)\n", indent, p.Timetag, len(p.Elements))
		for _, e := range p.Elements {
			describe(w, e, indent+"\t")
		}
	}
}
