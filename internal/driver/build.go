package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"llnode/internal/diag"
	"llnode/internal/fnreg"
	"llnode/internal/ir"
	"llnode/internal/layout"
	"llnode/internal/lower"
	"llnode/internal/nodes"
	"llnode/internal/observ"
	"llnode/internal/resolve"
	"llnode/internal/trace"
)

// Options tune Build. Zero values pick defaults.
type Options struct {
	Jobs           int
	MaxDiagnostics int
	// DataLayout is used for modules that carry none.
	DataLayout string
	Timer      *observ.Timer
	// Progress, when set, receives per-function events.
	Progress ProgressSink
}

// Tree is a resolved module-level constant or global initializer.
type Tree struct {
	Name string
	Node *nodes.Node
}

// Result holds everything built for one module. Bodies follows
// Module.Definitions(); a nil entry is a function whose build failed.
type Result struct {
	Module    *ir.Module
	Layout    *layout.Engine
	Constants []Tree
	Globals   []Tree
	Bodies    []*lower.Body
	Functions *fnreg.Registry
	Bag       *diag.Bag
	// Unresolved names the constants ($name) and global initializers
	// (@name) that failed to resolve.
	Unresolved []string
}

// Failed reports whether any function body or module-level value failed
// to build.
func (r *Result) Failed() bool {
	return len(r.Unresolved) > 0 || r.FailedFunctions() > 0
}

// FailedFunctions counts the function bodies that failed to build.
func (r *Result) FailedFunctions() int {
	n := 0
	for _, b := range r.Bodies {
		if b == nil {
			n++
		}
	}
	return n
}

// Build resolves the constants and global initializers of m and lowers
// every function body, in parallel across functions. Per-function failures
// are reported as diagnostics and joined into the returned error; the
// Result is still returned so callers can print what did build.
func Build(ctx context.Context, m *ir.Module, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeBuild, "build", trace.CurrentSpan(ctx).SpanID).WithExtra("module", m.Name)
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	dl := m.DataLayout
	if dl == "" {
		dl = opts.DataLayout
	}
	target, err := layout.ParseDataLayout(dl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}

	bag := diag.NewBag(maxDiag)
	reporter := diag.NewLockedReporter(diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	res := &Result{
		Module:    m,
		Layout:    layout.New(target, m.Types),
		Functions: fnreg.NewRegistry(),
		Bag:       bag,
	}
	env := lower.NewEnv(m, res.Layout, res.Functions, reporter)

	// Function ids follow module order regardless of scheduling.
	r := env.Resolver(ctx)
	for _, f := range m.Funcs {
		if _, err := r.Resolve(f.Sym); err != nil {
			return nil, fmt.Errorf("@%s: %w", f.Name, err)
		}
	}

	var failures []error
	emit(opts.Progress, Event{Stage: StageModule, Status: StatusWorking})
	moduleFailures := buildModuleLevel(ctx, env, res, opts.Timer)
	failures = append(failures, moduleFailures...)
	if len(moduleFailures) > 0 {
		emit(opts.Progress, Event{Stage: StageModule, Status: StatusError, Err: errors.Join(moduleFailures...)})
	} else {
		emit(opts.Progress, Event{Stage: StageModule, Status: StatusDone})
	}

	errs, err := buildBodies(ctx, env, res, opts)
	if err != nil {
		return nil, err
	}
	failures = append(failures, errs...)

	opts.Timer.Add("functions", int64(len(res.Bodies)))
	bag.Sort()
	AppendTimings(bag, "build", m.Name, opts.Timer)
	span.WithExtra("diagnostics", fmt.Sprint(bag.Len()))
	return res, errors.Join(failures...)
}

func buildModuleLevel(ctx context.Context, env *lower.Env, res *Result, timer *observ.Timer) []error {
	m := env.Module
	pass := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "constants", trace.CurrentSpan(ctx).SpanID)
	phase := timer.Begin("constants")
	r := env.Resolver(trace.WithSpan(ctx, pass))

	var failures []error
	count := 0
	for _, c := range m.Constants {
		n, err := r.Resolve(c.Sym)
		if err != nil {
			failures = append(failures, report(env, diag.Location{Module: m.Name, Symbol: uint32(c.Sym)}, fmt.Errorf("$%s: %w", c.Name, err)))
			res.Unresolved = append(res.Unresolved, "$"+c.Name)
			continue
		}
		count += nodes.Count(n)
		res.Constants = append(res.Constants, Tree{Name: c.Name, Node: n})
	}
	for _, g := range m.Globals {
		if !g.Init.IsValid() {
			continue
		}
		n, err := r.Resolve(g.Init)
		if err != nil {
			failures = append(failures, report(env, diag.Location{Module: m.Name, Symbol: uint32(g.Init)}, fmt.Errorf("@%s: %w", g.Name, err)))
			res.Unresolved = append(res.Unresolved, "@"+g.Name)
			continue
		}
		count += nodes.Count(n)
		res.Globals = append(res.Globals, Tree{Name: g.Name, Node: n})
	}
	timer.Add("nodes", int64(count))
	timer.End(phase, fmt.Sprintf("%d constants, %d initializers", len(res.Constants), len(res.Globals)))
	pass.End("")
	return failures
}

func buildBodies(ctx context.Context, env *lower.Env, res *Result, opts Options) ([]error, error) {
	defs := env.Module.Definitions()
	res.Bodies = make([]*lower.Body, len(defs))
	if len(defs) == 0 {
		return nil, nil
	}
	pass := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "bodies", trace.CurrentSpan(ctx).SpanID)
	defer pass.End("")
	ctx = trace.WithSpan(ctx, pass)
	phase := opts.Timer.Begin("bodies")

	for _, fn := range defs {
		emit(opts.Progress, Event{Function: fn.Name, Stage: StageBody, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indices are unique per goroutine, so the slices need no lock.
	errs := make([]error, len(defs))
	counts := make([]int, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(defs)))
	for i, fn := range defs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(opts.Progress, Event{Function: fn.Name, Stage: StageBody, Status: StatusWorking})
			body, err := lower.BuildFunction(gctx, env, fn)
			if err != nil {
				errs[i] = fmt.Errorf("@%s: %w", fn.Name, err)
				emit(opts.Progress, Event{Function: fn.Name, Stage: StageBody, Status: StatusError, Err: err})
				return nil
			}
			emit(opts.Progress, Event{Function: fn.Name, Stage: StageBody, Status: StatusDone})
			for _, blk := range body.Blocks {
				counts[i] += nodes.Count(blk)
			}
			res.Bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		opts.Timer.End(phase, "canceled")
		return nil, err
	}

	var failures []error
	total := 0
	for i, err := range errs {
		total += counts[i]
		if err != nil {
			failures = append(failures, report(env, diag.Location{Module: env.Module.Name, Function: defs[i].Name}, err))
		}
	}
	opts.Timer.Add("nodes", int64(total))
	opts.Timer.End(phase, fmt.Sprintf("%d functions, %d failed", len(defs), len(failures)))
	return failures, nil
}

// report turns a build failure into an error diagnostic and returns err.
func report(env *lower.Env, at diag.Location, err error) error {
	code := diag.ResolveInvariant
	var rerr *resolve.Error
	if errors.As(err, &rerr) {
		code = rerr.Code()
		if rerr.Symbol.IsValid() {
			at.Symbol = uint32(rerr.Symbol)
		}
	}
	diag.ReportError(env.Reporter, code, at, err.Error()).Emit()
	return err
}
