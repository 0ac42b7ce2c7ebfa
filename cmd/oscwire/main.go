package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chabad360/oscwire/internal/config"
	"github.com/chabad360/oscwire/internal/log"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "oscwire",
		Short:         "Send, receive and inspect Open Sound Control packets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "enable pretty logging")
	rootCmd.PersistentFlags().String("host", "", "destination host")
	rootCmd.PersistentFlags().Int("port", 0, "destination port")
	rootCmd.PersistentFlags().Bool("strict", false, "reject type tag strings without ',' and unknown tags")
	rootCmd.PersistentFlags().Bool("legacy-tag-advance", false, "skip one byte after the type tag string when decoding")

	rootCmd.AddCommand(
		newSendCmd(),
		newBundleCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newListenCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), errors.Wrap(err, "failed to load config")
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	return cfg, log.New(cfg.Log.Level, cfg.Log.Pretty), nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty, _ = flags.GetBool("log-pretty")
	}
	if flags.Changed("host") {
		cfg.Target.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Target.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("strict") {
		cfg.Decode.StrictTypeTags, _ = flags.GetBool("strict")
	}
	if flags.Changed("legacy-tag-advance") {
		cfg.Decode.LegacyTagAdvance, _ = flags.GetBool("legacy-tag-advance")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Listen.Addr, _ = flags.GetString("addr")
	}
	if flags.Lookup("metrics") != nil && flags.Changed("metrics") {
		cfg.Metrics.Enabled, _ = flags.GetBool("metrics")
	}
	if flags.Lookup("metrics-addr") != nil && flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = flags.GetString("metrics-addr")
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "oscwire %s (%s) %s\n", Version, GitCommit, runtime.Version())
		},
	}
}
