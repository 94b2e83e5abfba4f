package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"llnode/internal/project"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	be.Err(t, err, nil)
	m := loadDemo(t)
	key := project.Sum([]byte("demo"))

	_, ok, err := cache.Get(key)
	be.Err(t, err, nil)
	be.True(t, !ok)

	be.Err(t, cache.Put(key, demoPath, m), nil)
	got, ok, err := cache.Get(key)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, got.Name, m.Name)
	be.Equal(t, len(got.Funcs), len(m.Funcs))

	be.Err(t, cache.DropAll(), nil)
	_, ok, err = cache.Get(key)
	be.Err(t, err, nil)
	be.True(t, !ok)
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	be.Err(t, err, nil)
	key := project.Sum([]byte("broken"))
	p := cache.pathFor(key)
	be.Err(t, os.MkdirAll(filepath.Dir(p), 0o755), nil)
	be.Err(t, os.WriteFile(p, []byte{0xc1}, 0o600), nil)

	_, ok, err := cache.Get(key)
	be.True(t, err != nil)
	be.True(t, !ok)
}

func TestOpenDiskCacheHonoursXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenDiskCache("llnode")
	be.Err(t, err, nil)
	be.Equal(t, cache.Dir(), filepath.Join(base, "llnode"))

	var nilCache *DiskCache
	_, ok, err := nilCache.Get(project.Digest{})
	be.Err(t, err, nil)
	be.True(t, !ok)
	be.Err(t, nilCache.Put(project.Digest{}, "", nil), nil)
}

func TestLoadModuleUsesCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	be.Err(t, err, nil)

	first, err := LoadModule(context.Background(), demoPath, cache, nil)
	be.Err(t, err, nil)
	be.True(t, !first.CacheHit)

	second, err := LoadModule(context.Background(), demoPath, cache, nil)
	be.Err(t, err, nil)
	be.True(t, second.CacheHit)
	be.Equal(t, second.Hash, first.Hash)

	fresh, err := Build(context.Background(), first.Module, Options{Jobs: 1})
	be.Err(t, err, nil)
	cached, err := Build(context.Background(), second.Module, Options{Jobs: 1})
	be.Err(t, err, nil)
	be.Equal(t, dumpAll(cached), dumpAll(fresh))

	_, err = LoadModule(context.Background(), "missing.toml", nil, nil)
	be.True(t, err != nil)
}
