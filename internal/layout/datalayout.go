package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ErrBadDataLayout wraps every data layout parse failure.
var ErrBadDataLayout = errors.New("malformed data layout")

// ParseDataLayout builds a Target from an LLVM data layout string. Entries
// the engine has no use for (mangling, program/global address spaces,
// function pointer alignment) are accepted and ignored.
func ParseDataLayout(s string) (Target, error) {
	t := defaultTarget()
	t.DataLayout = s
	if strings.TrimSpace(s) == "" {
		return t, nil
	}
	for _, spec := range strings.Split(s, "-") {
		if spec == "" {
			continue
		}
		if err := t.applySpec(spec); err != nil {
			return Target{}, fmt.Errorf("%w: %q: %w", ErrBadDataLayout, spec, err)
		}
	}
	return t, nil
}

func (t *Target) applySpec(spec string) error {
	head, rest, _ := strings.Cut(spec, ":")
	if strings.HasPrefix(head, "ni") {
		return nil // non-integral address spaces
	}
	switch head[0] {
	case 'e':
		t.BigEndian = false
	case 'E':
		t.BigEndian = true
	case 'm', 'A', 'P', 'G', 'F':
		// mangling and address-space selectors do not affect layout queries
	case 'S':
		bits, err := parseBits(head[1:])
		if err != nil {
			return err
		}
		t.StackAlign = bits / 8
	case 'n':
		fields := append([]string{head[1:]}, splitFields(rest)...)
		t.NativeInts = t.NativeInts[:0]
		for _, f := range fields {
			bits, err := parseWidth(f)
			if err != nil {
				return err
			}
			w, err := safecast.Conv[uint32](bits)
			if err != nil {
				return err
			}
			t.NativeInts = append(t.NativeInts, w)
		}
	case 'p':
		space := head[1:]
		fields := splitFields(rest)
		if len(fields) < 2 {
			return errors.New("pointer spec needs size and abi alignment")
		}
		if space != "" && space != "0" {
			return nil
		}
		size, err := parseBits(fields[0])
		if err != nil {
			return err
		}
		abi, err := parseBits(fields[1])
		if err != nil {
			return err
		}
		t.PtrSize = size / 8
		t.PtrAlign = abi / 8
	case 'i', 'f', 'v':
		width, err := parseWidth(head[1:])
		if err != nil {
			return err
		}
		fields := splitFields(rest)
		if len(fields) < 1 {
			return errors.New("missing abi alignment")
		}
		abi, err := parseBits(fields[0])
		if err != nil {
			return err
		}
		w, err := safecast.Conv[uint32](width)
		if err != nil {
			return err
		}
		switch head[0] {
		case 'i':
			t.IntAligns[w] = abi / 8
		case 'f':
			t.FloatAligns[w] = abi / 8
		default:
			t.VectorAligns[w] = abi / 8
		}
	case 'a':
		fields := splitFields(rest)
		if len(fields) < 1 {
			return errors.New("missing aggregate abi alignment")
		}
		abi, err := parseBits(fields[0])
		if err != nil {
			return err
		}
		t.AggregateAlign = max(1, abi/8)
	default:
		return fmt.Errorf("unknown specifier %q", head[:1])
	}
	return nil
}

func splitFields(rest string) []string {
	if rest == "" {
		return nil
	}
	return strings.Split(rest, ":")
}

// parseWidth reads a type width, which need not be byte sized (i1).
func parseWidth(s string) (int, error) {
	if s == "" {
		return 0, errors.New("missing number")
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](n)
}

// parseBits reads a size or alignment, which must be a whole number of bytes.
func parseBits(s string) (int, error) {
	v, err := parseWidth(s)
	if err != nil {
		return 0, err
	}
	if v%8 != 0 {
		return 0, fmt.Errorf("%d is not a multiple of 8", v)
	}
	return v, nil
}
