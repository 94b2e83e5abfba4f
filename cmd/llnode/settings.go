package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"llnode/internal/driver"
	"llnode/internal/project"
)

func errInvalidColor(mode string) error {
	return fmt.Errorf("invalid --color %q (expected auto|on|off)", mode)
}

// settings merges llnode.toml with command-line flags. Flags that were set
// explicitly win over the manifest.
type settings struct {
	manifest       *project.Manifest
	jobs           int
	maxDiagnostics int
	timings        bool
	dataLayout     string
	cache          *driver.DiskCache
}

func loadSettings(cmd *cobra.Command, modulePath string) (*settings, error) {
	flags := cmd.Flags()
	s := &settings{}

	manifest, ok, err := project.LoadManifest(filepath.Dir(modulePath))
	if err != nil {
		return nil, err
	}
	var cfg project.Config
	if ok {
		s.manifest = manifest
		cfg = manifest.Config
	}

	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, err
	}
	if !flags.Changed("jobs") && cfg.Build.Jobs > 0 {
		s.jobs = cfg.Build.Jobs
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, err
	}
	if !flags.Changed("max-diagnostics") && cfg.Build.MaxDiagnostics > 0 {
		s.maxDiagnostics = cfg.Build.MaxDiagnostics
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	s.dataLayout = cfg.Target.DataLayout

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	if noCache || !cfg.CacheEnabled() {
		return s, nil
	}
	if dir := manifest.CacheDir(); dir != "" {
		s.cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		s.cache, err = driver.OpenDiskCache("llnode")
	}
	if err != nil {
		// A cache that cannot be opened only costs a reparse.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: module cache disabled: %v\n", err)
		s.cache = nil
	}
	return s, nil
}

func (s *settings) traceConfig() project.TraceConfig {
	if s == nil || s.manifest == nil {
		return project.TraceConfig{}
	}
	return s.manifest.Config.Trace
}
