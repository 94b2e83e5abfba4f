// Package fnreg owns the function descriptors of one compilation unit.
//
// A descriptor is identified by its name together with its runtime
// signature, so two declarations that disagree on the signature get
// distinct descriptors. GetOrCreate is an idempotent insert-or-fetch and is
// safe to call from the goroutines that build function bodies in parallel.
package fnreg

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"fortio.org/safecast"

	"llnode/internal/types"
)

// Descriptor identifies a callable function at run time.
type Descriptor struct {
	ID       int
	Name     string
	Return   types.BaseKind
	Args     []types.BaseKind
	Variadic bool
}

// Signature renders the descriptor in a compact, stable form.
func (d *Descriptor) Signature() string {
	if d == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(d.Return.String())
	sb.WriteString(" @")
	sb.WriteString(d.Name)
	sb.WriteByte('(')
	for i, a := range d.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	if d.Variadic {
		if len(d.Args) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteByte(')')
	return sb.String()
}

// Registry maps (name, signature) keys to descriptors.
type Registry struct {
	mu    sync.Mutex
	byKey map[string]*Descriptor
	all   []*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Descriptor, 64)}
}

// GetOrCreate returns the descriptor for the key, creating it on first use.
// Identical keys always yield the identical *Descriptor.
func (r *Registry) GetOrCreate(name string, ret types.BaseKind, args []types.BaseKind, variadic bool) *Descriptor {
	key := descriptorKey(name, ret, args, variadic)

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byKey[key]; ok {
		return d
	}
	d := &Descriptor{
		ID:       len(r.all) + 1,
		Name:     name,
		Return:   ret,
		Args:     slices.Clone(args),
		Variadic: variadic,
	}
	r.byKey[key] = d
	r.all = append(r.all, d)
	return d
}

// Lookup finds a descriptor without creating it.
func (r *Registry) Lookup(name string, ret types.BaseKind, args []types.BaseKind, variadic bool) (*Descriptor, bool) {
	key := descriptorKey(name, ret, args, variadic)
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byKey[key]
	return d, ok
}

// Len reports how many descriptors exist.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.all)
}

// Descriptors returns all descriptors in creation order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.all)
}

func descriptorKey(name string, ret types.BaseKind, args []types.BaseKind, variadic bool) string {
	var sb strings.Builder
	n, err := safecast.Conv[uint32](len(name))
	if err != nil {
		panic(fmt.Errorf("function name too long: %w", err))
	}
	// length prefix keeps names containing separators unambiguous
	fmt.Fprintf(&sb, "%d:%s|%d|", n, name, ret)
	for _, a := range args {
		fmt.Fprintf(&sb, "%d,", a)
	}
	if variadic {
		sb.WriteString("...")
	}
	return sb.String()
}
