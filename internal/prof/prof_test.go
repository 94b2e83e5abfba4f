package prof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	be.True(t, opts.Enabled())

	s, err := Start(opts)
	be.Err(t, err, nil)
	be.Err(t, s.Stop(), nil)
	be.Err(t, s.Stop(), nil)

	for _, path := range []string{opts.CPU, opts.Mem, opts.Trace} {
		info, err := os.Stat(path)
		be.Err(t, err, nil)
		be.True(t, info.Size() > 0)
	}
}

func TestSessionBadPath(t *testing.T) {
	_, err := Start(Options{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	be.True(t, err != nil)

	var s *Session
	be.Err(t, s.Stop(), nil)
	be.True(t, !Options{}.Enabled())
}
