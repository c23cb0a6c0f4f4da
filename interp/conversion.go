package interp

import "github.com/aby-mpc/bytecode-interpreter/circuit"

// Converter is the conversion layer of §4.4: on demand it inserts a
// domain-conversion gate between builder domains and caches
// (source handle, target domain) -> converted handle so that no pair is
// ever converted twice across the run (§8 property 2).
type Converter struct {
	cache [3]map[circuit.HandleID]circuit.Handle
}

// NewConverter returns an empty conversion cache, one map slot per target
// domain (Arith, Bool, Yao).
func NewConverter() *Converter {
	return &Converter{
		cache: [3]map[circuit.HandleID]circuit.Handle{
			circuit.Arith: {},
			circuit.Bool:  {},
			circuit.Yao:   {},
		},
	}
}

// Convert returns a handle for h in domain target, emitting a conversion
// gate at most once per (source, target) pair over the run's lifetime.
func (c *Converter) Convert(b circuit.Builder, h circuit.Handle, target circuit.Domain) circuit.Handle {
	if h.Domain == target {
		return h
	}
	m := c.cache[target]
	if cached, ok := m[h.ID]; ok {
		return cached
	}
	var out circuit.Handle
	switch {
	case h.Domain == circuit.Arith && target == circuit.Bool:
		out = b.A2B(h)
	case h.Domain == circuit.Arith && target == circuit.Yao:
		out = b.A2Y(h)
	case h.Domain == circuit.Bool && target == circuit.Arith:
		out = b.B2A(h)
	case h.Domain == circuit.Bool && target == circuit.Yao:
		out = b.B2Y(h)
	case h.Domain == circuit.Yao && target == circuit.Arith:
		out = b.Y2A(h)
	case h.Domain == circuit.Yao && target == circuit.Bool:
		out = b.Y2B(h)
	default:
		out = h
	}
	m[h.ID] = out
	return out
}
