// Package config handles configuration loading and defaults.
//
// Values are resolved in order: defaults, YAML file, environment, then
// command line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formgen-playground/internal/logging"
	"github.com/goliatone/go-formgen-playground/pkg/playground"
)

// Default values.
const (
	DefaultAddr            = ":8383"
	DefaultSweepInterval   = time.Minute
	DefaultShutdownTimeout = 5 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = logging.FormatText
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMGEN_PLAYGROUND_"

// Config holds the full configuration for the playground server.
type Config struct {
	Addr            string        `yaml:"addr"`
	ReservedField   string        `yaml:"reserved_field"`
	TemplatesDir    string        `yaml:"templates_dir,omitempty"`
	Session         SessionConfig `yaml:"session"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Log             LogConfig     `yaml:"log"`
}

type SessionConfig struct {
	Cookie        string        `yaml:"cookie"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:          DefaultAddr,
		ReservedField: playground.DefaultReservedField,
		Session: SessionConfig{
			Cookie:        playground.DefaultCookieName,
			TTL:           playground.DefaultSessionTTL,
			SweepInterval: DefaultSweepInterval,
		},
		ShutdownTimeout: DefaultShutdownTimeout,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load returns defaults overlaid with the YAML file at path (when set) and
// the process environment. The result is not validated; callers apply
// flags first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.decode(raw); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode merges YAML into cfg. Unknown keys are rejected.
func (c *Config) decode(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays FORMGEN_PLAYGROUND_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	strs := map[string]*string{
		"ADDR":           &c.Addr,
		"RESERVED_FIELD": &c.ReservedField,
		"TEMPLATES_DIR":  &c.TemplatesDir,
		"SESSION_COOKIE": &c.Session.Cookie,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
	}
	for key, target := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*target = v
		}
	}

	durations := map[string]*time.Duration{
		"SESSION_TTL":            &c.Session.TTL,
		"SESSION_SWEEP_INTERVAL": &c.Session.SweepInterval,
		"SHUTDOWN_TIMEOUT":       &c.ShutdownTimeout,
	}
	for key, target := range durations {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*target = d
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.ReservedField) == "" {
		errs = append(errs, errors.New("reserved_field is required"))
	}
	if dir := strings.TrimSpace(c.TemplatesDir); dir != "" {
		if info, err := os.Stat(dir); err != nil {
			errs = append(errs, fmt.Errorf("templates_dir: %w", err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("templates_dir %q is not a directory", dir))
		}
	}
	if !validCookieName(c.Session.Cookie) {
		errs = append(errs, fmt.Errorf("session.cookie %q is not a valid cookie name", c.Session.Cookie))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("session.sweep_interval must be positive, got %s", c.Session.SweepInterval))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

// LoggingOptions maps the log section onto logging options.
func (c Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Log.Level
	opts.Format = c.Log.Format
	return opts
}

// PlaygroundOptions maps the harness settings onto playground options.
func (c Config) PlaygroundOptions() []playground.OptionFn {
	return []playground.OptionFn{
		playground.WithReservedField(c.ReservedField),
		playground.WithCookieName(c.Session.Cookie),
		playground.WithSessionTTL(c.Session.TTL),
	}
}

func validCookieName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	cookie := &http.Cookie{Name: name, Value: "x"}
	return cookie.Valid() == nil
}
