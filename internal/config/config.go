package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"jsreport/internal/engine"
	"jsreport/internal/reportfmt"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = ".jsreport.toml"

// Config is the decoded and validated project configuration.
type Config struct {
	// Path is the file the configuration came from; empty for defaults.
	Path string `toml:"-"`
	// Root is the directory holding Path.
	Root string `toml:"-"`

	Engine EngineConfig `toml:"engine"`
	Report ReportConfig `toml:"report"`
	Files  FilesConfig  `toml:"files"`
}

// EngineConfig selects the lint engine and how to run it.
type EngineConfig struct {
	Bundle  string   `toml:"bundle"`
	Runtime string   `toml:"runtime"`
	Command []string `toml:"command"`
	Timeout string   `toml:"timeout"`

	timeout time.Duration
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	Format       string `toml:"format"`
	FatalMessage string `toml:"fatal_message"`
	ExitCode     bool   `toml:"exit_code"`
	// TextChecks appends the line-length, whitespace, conflict and tab records.
	TextChecks bool `toml:"text_checks"`
}

// FilesConfig controls directory walks.
type FilesConfig struct {
	Extensions []string `toml:"extensions"`
	Jobs       int      `toml:"jobs"`
	// NormalizeNFC composes sources to NFC before linting; columns then
	// count composed characters.
	NormalizeNFC bool `toml:"normalize_nfc"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{Runtime: string(engine.RuntimeEmbedded)},
		Report: ReportConfig{Format: string(reportfmt.FormatPlain)},
	}
}

// TimeoutDuration is the parsed engine timeout; zero means none.
func (e EngineConfig) TimeoutDuration() time.Duration {
	return e.timeout
}

// Find walks up from startDir looking for FileName.
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

// Discover finds and loads the nearest configuration. Without a file it
// returns Default and false.
func Discover(startDir string) (*Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load decodes and validates the file at path. The bundle path is resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b := strings.TrimSpace(cfg.Engine.Bundle); b != "" && !filepath.IsAbs(b) {
		cfg.Engine.Bundle = filepath.Join(cfg.Root, filepath.FromSlash(b))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	rt, err := engine.ParseRuntime(c.Engine.Runtime)
	if err != nil {
		return fmt.Errorf("[engine].runtime: %w", err)
	}
	if rt == engine.RuntimeExec && c.Engine.Command != nil && len(c.Engine.Command) == 0 {
		return errors.New("[engine].command must not be empty for the exec runtime")
	}
	if t := strings.TrimSpace(c.Engine.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("[engine].timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("[engine].timeout must not be negative, got %s", d)
		}
		c.Engine.timeout = d
	}
	if _, err := reportfmt.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("[report].format: %w", err)
	}
	if c.Files.Jobs < 0 {
		return fmt.Errorf("[files].jobs must not be negative, got %d", c.Files.Jobs)
	}
	for i, ext := range c.Files.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return errors.New("[files].extensions contains an empty entry")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Files.Extensions[i] = ext
	}
	c.Files.Extensions = slices.Compact(c.Files.Extensions)
	return nil
}
