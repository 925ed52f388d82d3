// Package config loads the settings of the afe4400 command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/cgxeiji/afe4400"
	"github.com/cgxeiji/afe4400/afe"
)

// Config holds the acquisition settings.
type Config struct {
	Bus        string        `mapstructure:"bus" yaml:"bus"`
	Addr       uint16        `mapstructure:"addr" yaml:"addr"`
	Output     string        `mapstructure:"output" yaml:"output"`
	LogFile    string        `mapstructure:"logfile" yaml:"logfile"`
	Verbose    bool          `mapstructure:"verbose" yaml:"verbose"`
	StartDelay int           `mapstructure:"start_delay" yaml:"start_delay"`
	Interval   time.Duration `mapstructure:"interval" yaml:"interval"`
}

// EnvPrefix prefixes environment variables overriding configuration keys,
// e.g. AFE4400_OUTPUT.
const EnvPrefix = "AFE4400"

func setDefaults(v *viper.Viper) {
	v.SetDefault("bus", "")
	v.SetDefault("addr", afe.Addr)
	v.SetDefault("output", "plox.dat")
	v.SetDefault("logfile", "")
	v.SetDefault("verbose", false)
	v.SetDefault("start_delay", 0)
	v.SetDefault("interval", time.Duration(0))
}

// Load reads the configuration from file, if not empty, and from the
// environment. Unset keys keep their defaults.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: could not read %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: could not decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that c describes a usable acquisition.
func (c *Config) Validate() error {
	switch {
	case c.Addr > 0x7f:
		return fmt.Errorf("config: invalid 7-bit I2C address %#x", c.Addr)
	case c.Addr < 0x08 || c.Addr > 0x77:
		return fmt.Errorf("config: reserved I2C address %#x", c.Addr)
	case c.Output == "":
		return errors.New("config: output path required")
	case c.StartDelay < 0:
		return fmt.Errorf("config: invalid start delay %d", c.StartDelay)
	case c.Interval < 0:
		return fmt.Errorf("config: invalid interval %v", c.Interval)
	}
	return nil
}

// YAML renders c as a configuration file.
func (c *Config) YAML() ([]byte, error) {
	out := struct {
		Bus        string `yaml:"bus"`
		Addr       uint16 `yaml:"addr"`
		Output     string `yaml:"output"`
		LogFile    string `yaml:"logfile"`
		Verbose    bool   `yaml:"verbose"`
		StartDelay int    `yaml:"start_delay"`
		Interval   string `yaml:"interval"`
	}{
		Bus:        c.Bus,
		Addr:       c.Addr,
		Output:     c.Output,
		LogFile:    c.LogFile,
		Verbose:    c.Verbose,
		StartDelay: c.StartDelay,
		Interval:   c.Interval.String(),
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("config: could not encode: %w", err)
	}
	return b, nil
}

// Logger returns the logger for the run. Logs go to a rotating LogFile when
// set, to stderr when Verbose is set, and nowhere otherwise.
func (c *Config) Logger() *log.Logger {
	var w io.Writer
	switch {
	case c.LogFile != "":
		w = &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 4,
			MaxAge:     30, // days
			Compress:   true,
		}
	case c.Verbose:
		w = os.Stderr
	default:
		w = io.Discard
	}
	return log.New(w, "afe4400: ", log.LstdFlags)
}

// Options returns the loop options matching c.
func (c *Config) Options() []afe4400.Option {
	return []afe4400.Option{
		afe4400.OnBus(c.Bus),
		afe4400.OnAddr(c.Addr),
		afe4400.WithOutput(c.Output),
		afe4400.WithLogger(c.Logger()),
		afe4400.WithStartDelay(c.StartDelay),
		afe4400.WithInterval(c.Interval),
	}
}
