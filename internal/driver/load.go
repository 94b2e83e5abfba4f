package driver

import (
	"context"
	"fmt"
	"os"

	"llnode/internal/diag"
	"llnode/internal/ir"
	"llnode/internal/irtext"
	"llnode/internal/observ"
	"llnode/internal/project"
	"llnode/internal/trace"
)

// LoadResult is a decoded module and where it came from.
type LoadResult struct {
	Module   *ir.Module
	Hash     project.Digest
	CacheHit bool
}

// LoadModule reads a module file, consulting cache first. cache and timer
// may be nil. Cache read failures degrade to a fresh parse.
func LoadModule(ctx context.Context, path string, cache *DiskCache, timer *observ.Timer) (*LoadResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "load", trace.CurrentSpan(ctx).SpanID).WithExtra("path", path)
	phase := timer.Begin("load")

	data, err := os.ReadFile(path)
	if err != nil {
		timer.End(phase, "read failed")
		span.End("error")
		return nil, &irtext.LoadError{Path: path, Code: diag.LoadReadFailed, Err: err}
	}
	key := project.Sum(data)

	if m, ok, cerr := cache.Get(key); cerr == nil && ok {
		timer.End(phase, "cache hit")
		span.End("cache hit")
		return &LoadResult{Module: m, Hash: key, CacheHit: true}, nil
	} else if cerr != nil {
		trace.Point(tracer, trace.ScopePass, "cache-read", cerr.Error(), span.ID())
	}

	m, err := irtext.Parse(path, data)
	if err != nil {
		timer.End(phase, "parse failed")
		span.End("error")
		return nil, err
	}
	if err := cache.Put(key, path, m); err != nil {
		trace.Point(tracer, trace.ScopePass, "cache-write", err.Error(), span.ID())
	}
	timer.End(phase, fmt.Sprintf("%d functions", len(m.Funcs)))
	span.End("parsed")
	return &LoadResult{Module: m, Hash: key}, nil
}
