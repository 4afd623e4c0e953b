// Package config loads atnrt.toml, the optional tool configuration. Every
// setting has a default, and command-line flags override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"atnrt/internal/bundle"
	"atnrt/internal/token"
	"atnrt/internal/trace"
)

// FileName is the name Find looks for.
const FileName = "atnrt.toml"

// Config is the decoded atnrt.toml.
type Config struct {
	Path string `toml:"-"` // empty when defaults are used

	Trace  Trace  `toml:"trace"`
	Cache  Cache  `toml:"cache"`
	Stream Stream `toml:"stream"`
	Lex    Lex    `toml:"lex"`
	Output Output `toml:"output"`
}

type Trace struct {
	Output    string        `toml:"output"` // "-" is stderr
	Level     string        `toml:"level"`
	Mode      string        `toml:"mode"`
	Format    string        `toml:"format"`
	RingSize  int           `toml:"ring_size"`
	Heartbeat time.Duration `toml:"heartbeat"`
}

type Cache struct {
	// Shared makes grammars loaded together use one prediction-context
	// cache.
	Shared bool `toml:"shared"`
}

type Stream struct {
	Channel int `toml:"channel"` // channel the token stream follows
}

type Lex struct {
	Normalize      bool `toml:"normalize"`
	CommentChannel int  `toml:"comment_channel"`
}

type Output struct {
	Color   string `toml:"color"` // auto, on, off
	Timings bool   `toml:"timings"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Trace: Trace{
			Level:    "off",
			Mode:     "ring",
			Format:   "auto",
			RingSize: 4096,
		},
		Cache:  Cache{Shared: true},
		Stream: Stream{Channel: int(token.DefaultChannel)},
		Lex:    Lex{CommentChannel: int(token.HiddenChannel)},
		Output: Output{Color: "auto"},
	}
}

// Find walks up from startDir looking for atnrt.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the file at path over the defaults. An empty path searches
// from the working directory and falls back to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		found, ok, err := Find(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return Default(), nil
		}
		path = found
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("trace", "output") && strings.TrimSpace(cfg.Trace.Output) == "" {
		return nil, fmt.Errorf("%s: [trace].output must not be empty", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that decode fine but make no sense.
func (c *Config) Validate() error {
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	if _, ok := trace.ParseFormat(c.Trace.Format); !ok {
		return fmt.Errorf("[trace].format: invalid value %q (expected: auto|text|ndjson)", c.Trace.Format)
	}
	if c.Trace.RingSize <= 0 {
		return fmt.Errorf("[trace].ring_size must be positive, got %d", c.Trace.RingSize)
	}
	if c.Trace.Heartbeat < 0 {
		return errors.New("[trace].heartbeat must not be negative")
	}
	if c.Stream.Channel < 0 || c.Lex.CommentChannel < 0 {
		return errors.New("channels must not be negative")
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color: invalid value %q (expected: auto|on|off)", c.Output.Color)
	}
	return nil
}

// TraceConfig converts the [trace] section. Call Validate first.
func (c *Config) TraceConfig() trace.Config {
	level, _ := trace.ParseLevel(c.Trace.Level)
	mode, _ := trace.ParseMode(c.Trace.Mode)
	format, _ := trace.ParseFormat(c.Trace.Format)
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
		Heartbeat:  c.Trace.Heartbeat,
	}
}

// BundlePath resolves a grammar name or path: an existing file is used as
// is, otherwise name.atnb next to the config file.
func (c *Config) BundlePath(name string) string {
	if _, err := os.Stat(name); err == nil || c.Path == "" {
		return name
	}
	if filepath.Ext(name) == "" {
		name += bundle.Ext
	}
	return filepath.Join(filepath.Dir(c.Path), name)
}
