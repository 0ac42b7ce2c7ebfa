package main

import (
	"encoding/hex"
	"fmt"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/chabad360/oscwire/osc"
)

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send ADDRESS [ARG...]",
		Short: "Send a single message",
		Long: "Send a single message to the configured target.\n\n" +
			"Arguments may be typed with a prefix: i:42, f:1.5, s:text, b:cafe (hex).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, words []string) error {
			args, err := parseArgs(words[1:])
			if err != nil {
				return err
			}
			return withClient(cmd, func(c *osc.Client) error {
				return c.SendMessage(words[0], args...)
			})
		},
	}
}

func newBundleCmd() *cobra.Command {
	var (
		msgFlags []string
		timetag  float64
	)

	cmd := &cobra.Command{
		Use:   "bundle --msg 'ADDRESS ARG...' [--msg ...]",
		Short: "Send several messages as one bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msgs, err := messagesFromFlags(msgFlags)
			if err != nil {
				return err
			}
			tt := osc.ImmediateTimetag
			if cmd.Flags().Changed("timetag") {
				tt = osc.TimetagFromSeconds(timetag)
			}
			return withClient(cmd, func(c *osc.Client) error {
				return c.SendBundle(tt, msgs...)
			})
		},
	}

	cmd.Flags().StringArrayVar(&msgFlags, "msg", nil, "message as 'ADDRESS ARG...' (repeatable)")
	cmd.Flags().Float64Var(&timetag, "timetag", 0, "execution time in seconds since the Unix epoch (default immediate)")
	_ = cmd.MarkFlagRequired("msg")

	return cmd
}

func newEncodeCmd() *cobra.Command {
	var (
		msgFlags []string
		timetag  float64
	)

	cmd := &cobra.Command{
		Use:   "encode [ADDRESS ARG...]",
		Short: "Print the hex encoding of a message, or of a bundle with --msg",
		RunE: func(cmd *cobra.Command, words []string) error {
			var (
				data []byte
				err  error
			)

			switch {
			case len(msgFlags) > 0:
				var msgs []*osc.Message
				if msgs, err = messagesFromFlags(msgFlags); err != nil {
					return err
				}
				tt := osc.ImmediateTimetag
				if cmd.Flags().Changed("timetag") {
					tt = osc.TimetagFromSeconds(timetag)
				}
				data, err = osc.FormatBundle(tt, msgs...)
			case len(words) > 0:
				var args []any
				if args, err = parseArgs(words[1:]); err != nil {
					return err
				}
				data, err = osc.FormatMessage(words[0], args...)
			default:
				return errors.New("nothing to encode: give ADDRESS [ARG...] or --msg")
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&msgFlags, "msg", nil, "bundle message as 'ADDRESS ARG...' (repeatable)")
	cmd.Flags().Float64Var(&timetag, "timetag", 0, "bundle execution time in seconds since the Unix epoch")

	return cmd
}

func messagesFromFlags(msgFlags []string) ([]*osc.Message, error) {
	msgs := make([]*osc.Message, 0, len(msgFlags))
	for _, f := range msgFlags {
		m, err := parseMessageFlag(f)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// withClient opens a local UDP socket, builds a client for the configured
// target and closes the socket once fn returns.
func withClient(cmd *cobra.Command, fn func(c *osc.Client) error) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dest, err := osc.ResolveDestination(cfg.Target.Host, cfg.Target.Port)
	if err != nil {
		return err
	}

	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return errors.Wrap(err, "open udp socket")
	}
	defer conn.Close()

	c := osc.NewClient(conn, dest, osc.WithClientLogger(logger))
	if err := fn(c); err != nil {
		return err
	}

	logger.Info().Stringer("dest", dest).Msg("sent")
	return nil
}
