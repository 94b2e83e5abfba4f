package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeBuild covers loading and building one module.
	ScopeBuild Scope = iota + 1
	// ScopePass covers a phase of the build (load, constants, bodies).
	ScopePass
	// ScopeFunction covers lowering one function body.
	ScopeFunction
	// ScopeSymbol covers a single symbol resolution.
	ScopeSymbol
)

var scopeNames = [...]string{
	ScopeBuild:    "build",
	ScopePass:     "pass",
	ScopeFunction: "function",
	ScopeSymbol:   "symbol",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "load", "bodies", "fn:main", "gep-fold"
	Detail   string
	// Function and Symbol locate function- and symbol-scope events.
	Function string
	Symbol   uint32
	Extra    map[string]string
}
