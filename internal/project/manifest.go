// Package project reads the optional llnode.toml manifest and provides
// the content hashes used to key cached modules.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"llnode/internal/layout"
	"llnode/internal/trace"
)

// Manifest is a loaded llnode.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables. Zero values mean "not set".
type Config struct {
	Target TargetConfig `toml:"target"`
	Build  BuildConfig  `toml:"build"`
	Cache  CacheConfig  `toml:"cache"`
	Trace  TraceConfig  `toml:"trace"`
}

type TargetConfig struct {
	// DataLayout applies to modules that do not carry their own.
	DataLayout string `toml:"datalayout"`
}

type BuildConfig struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type CacheConfig struct {
	Enabled *bool  `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// CacheEnabled reports whether the module cache is on. It defaults to true.
func (c Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// LoadManifest finds and loads the manifest above startDir. ok is false
// when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, keys[0])
	}
	if meta.IsDefined("target", "datalayout") {
		if _, err := layout.ParseDataLayout(cfg.Target.DataLayout); err != nil {
			return Config{}, fmt.Errorf("%s: [target].datalayout: %w", path, err)
		}
	}
	if meta.IsDefined("build", "jobs") && cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if meta.IsDefined("build", "max_diagnostics") && cfg.Build.MaxDiagnostics <= 0 {
		return Config{}, fmt.Errorf("%s: [build].max_diagnostics must be positive", path)
	}
	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(strings.TrimSpace(cfg.Trace.Level)); err != nil {
			return Config{}, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
	}
	return cfg, nil
}

// CacheDir returns the cache directory made absolute against the
// manifest root. It is empty when the manifest does not set one.
func (m *Manifest) CacheDir() string {
	if m == nil || m.Config.Cache.Dir == "" {
		return ""
	}
	if filepath.IsAbs(m.Config.Cache.Dir) {
		return m.Config.Cache.Dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Cache.Dir))
}
