// Package config loads oscwire settings from a YAML file, OSCWIRE_*
// environment variables and built-in defaults, in that order of precedence
// after command line flags.
package config

import (
	"net"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chabad360/oscwire/osc"
)

// EnvPrefix is prepended to every environment override, e.g. OSCWIRE_TARGET_PORT.
const EnvPrefix = "OSCWIRE"

// Config holds the complete application configuration
type Config struct {
	Target  TargetConfig  `mapstructure:"target"  yaml:"target"`
	Listen  ListenConfig  `mapstructure:"listen"  yaml:"listen"`
	Decode  DecodeConfig  `mapstructure:"decode"  yaml:"decode"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Log     LogConfig     `mapstructure:"log"     yaml:"log"`
}

// TargetConfig is the default destination for outgoing packets.
type TargetConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// ListenConfig configures the receive loop.
type ListenConfig struct {
	Addr        string        `mapstructure:"addr"         yaml:"addr"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
}

// DecodeConfig selects the decoder policies.
type DecodeConfig struct {
	StrictTypeTags   bool `mapstructure:"strict_type_tags"   yaml:"strict_type_tags"`
	LegacyTagAdvance bool `mapstructure:"legacy_tag_advance" yaml:"legacy_tag_advance"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr"    yaml:"addr"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Load loads configuration from file and environment. An empty path skips
// the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("target.host", "127.0.0.1")
	v.SetDefault("target.port", 8765)

	v.SetDefault("listen.addr", "127.0.0.1:8765")
	v.SetDefault("listen.read_timeout", "0s")

	v.SetDefault("decode.strict_type_tags", false)
	v.SetDefault("decode.legacy_tag_advance", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9765")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target.Host) == "" {
		return errors.New("target.host is required")
	}
	if c.Target.Port <= 0 || c.Target.Port > 65535 {
		return errors.Newf("target.port %d out of range", c.Target.Port)
	}
	if _, _, err := net.SplitHostPort(c.Listen.Addr); err != nil {
		return errors.Wrapf(err, "listen.addr %q", c.Listen.Addr)
	}
	if c.Listen.ReadTimeout < 0 {
		return errors.Newf("listen.read_timeout %s is negative", c.Listen.ReadTimeout)
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return errors.Wrapf(err, "metrics.addr %q", c.Metrics.Addr)
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return errors.Newf("metrics.path %q must start with '/'", c.Metrics.Path)
		}
	}
	return nil
}

// DecodeOptions translates the decode section into codec options.
func (c *Config) DecodeOptions(log zerolog.Logger) []osc.DecodeOption {
	opts := []osc.DecodeOption{osc.WithLogger(log)}
	if c.Decode.StrictTypeTags {
		opts = append(opts, osc.WithStrictTypeTags())
	}
	if c.Decode.LegacyTagAdvance {
		opts = append(opts, osc.WithLegacyTagAdvance())
	}
	return opts
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "marshal config")
	}
	return out, nil
}
