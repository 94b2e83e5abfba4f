package fnreg

import (
	"sync"
	"testing"

	"github.com/nalgeon/be"

	"llnode/internal/types"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	r := NewRegistry()
	args := []types.BaseKind{types.BaseI32, types.BaseAddress}
	d1 := r.GetOrCreate("main", types.BaseI32, args, false)
	d2 := r.GetOrCreate("main", types.BaseI32, []types.BaseKind{types.BaseI32, types.BaseAddress}, false)
	be.True(t, d1 == d2)
	be.Equal(t, r.Len(), 1)

	args[0] = types.BaseI64
	be.Equal(t, d1.Args[0], types.BaseI32)
}

func TestDifferentSignaturesGetDistinctDescriptors(t *testing.T) {
	r := NewRegistry()
	base := r.GetOrCreate("f", types.BaseVoid, []types.BaseKind{types.BaseI32}, false)
	variadic := r.GetOrCreate("f", types.BaseVoid, []types.BaseKind{types.BaseI32}, true)
	otherRet := r.GetOrCreate("f", types.BaseI32, []types.BaseKind{types.BaseI32}, false)
	otherArgs := r.GetOrCreate("f", types.BaseVoid, []types.BaseKind{types.BaseI64}, false)

	be.True(t, base != variadic)
	be.True(t, base != otherRet)
	be.True(t, base != otherArgs)
	be.Equal(t, r.Len(), 4)
	be.Equal(t, variadic.Signature(), "void @f(i32, ...)")

	got, ok := r.Lookup("f", types.BaseI32, []types.BaseKind{types.BaseI32}, false)
	be.True(t, ok)
	be.True(t, got == otherRet)
	_, ok = r.Lookup("g", types.BaseVoid, nil, false)
	be.True(t, !ok)
}

func TestNamesWithSeparatorsDoNotCollide(t *testing.T) {
	r := NewRegistry()
	a := r.GetOrCreate("a|1", types.BaseVoid, nil, false)
	b := r.GetOrCreate("a", types.BaseVoid, nil, false)
	be.True(t, a != b)
}

func TestConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry()
	const workers = 16
	results := make([]*Descriptor, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.GetOrCreate("printf", types.BaseI32, []types.BaseKind{types.BaseAddress}, true)
		}()
	}
	wg.Wait()
	for _, d := range results {
		be.True(t, d == results[0])
	}
	be.Equal(t, r.Len(), 1)
	be.Equal(t, r.Descriptors()[0].ID, 1)
}
