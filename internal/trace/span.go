package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses the id out of the "goroutine N [running]:" header
// of the current stack.
func goroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	_, rest, ok := bytes.Cut(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	id, _, ok := bytes.Cut(rest, []byte(" "))
	if !ok {
		return 0
	}
	gid, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an operation with a begin and an end event. A disabled span is
// inert: all its methods are no-ops.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	function string
	started  time.Time
	extra    map[string]string
}

var disabled = &Span{tracer: Nop}

// Begin starts a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, "", parent)
}

// BeginFunction starts a function-scope span for the body of fn.
func BeginFunction(t Tracer, fn string, parent uint64) *Span {
	return begin(t, ScopeFunction, "fn:"+fn, fn, parent)
}

func begin(t Tracer, scope Scope, name, function string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      goroutineID(),
		scope:    scope,
		name:     name,
		function: function,
		started:  time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Function: s.function,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled() && s.id != 0
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent. Cheap when the scope is filtered.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	emitPoint(t, &Event{Scope: scope, ParentID: parent, Name: name, Detail: detail})
}

// SymbolPoint emits a symbol-scope instant event located at symbol inside
// function.
func SymbolPoint(t Tracer, function string, symbol uint32, name, detail string, parent uint64) {
	emitPoint(t, &Event{Scope: ScopeSymbol, ParentID: parent, Name: name, Detail: detail, Function: function, Symbol: symbol})
}

func emitPoint(t Tracer, ev *Event) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ev.Scope) {
		return
	}
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Kind = KindPoint
	ev.GID = goroutineID()
	t.Emit(ev)
}
