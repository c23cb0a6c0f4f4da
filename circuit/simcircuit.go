package circuit

import (
	"fmt"

	"github.com/pkg/errors"
)

type gateKind uint8

const (
	gAdd gateKind = iota
	gSub
	gMul
	gGt
	gEq
	gAnd
	gOr
	gXor
	gInv
	gShl
	gLshr
	gMux
	gCons
	gIn
	gDummyIn
	gOut
	gA2B
	gA2Y
	gB2A
	gB2Y
	gY2A
	gY2B
	gBitAt
)

type node struct {
	kind  gateKind
	args  []HandleID
	imm   int64 // shift amount, bit index, constant value, or dummy hint
	role  Role
	width int
	value int64 // filled in by Execute
}

// Sim is a pure in-memory reference circuit: gates are DAG nodes over plain
// int64 wire values. Domains are bookkeeping only — there is no secret
// sharing — which is exactly what §1 Non-goal (i) asks for: a stand-in for
// the real cryptographic backend, not a reimplementation of it.
type Sim struct {
	nodes   []node
	handles []Handle
	outputs []HandleID
	evald   bool
}

// NewSim creates an empty circuit builder.
func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) alloc(k gateKind, d Domain, width int, args ...HandleID) Handle {
	id := HandleID(len(s.nodes))
	s.nodes = append(s.nodes, node{kind: k, args: args, width: width})
	h := Handle{ID: id, Domain: d, Width: width}
	s.handles = append(s.handles, h)
	return h
}

func (s *Sim) Add(d Domain, a, b Handle) Handle { return s.alloc(gAdd, d, 32, a.ID, b.ID) }
func (s *Sim) Sub(d Domain, a, b Handle) Handle { return s.alloc(gSub, d, 32, a.ID, b.ID) }
func (s *Sim) Mul(d Domain, a, b Handle) Handle { return s.alloc(gMul, d, 32, a.ID, b.ID) }
func (s *Sim) Gt(d Domain, a, b Handle) Handle  { return s.alloc(gGt, d, 1, a.ID, b.ID) }
func (s *Sim) Eq(d Domain, a, b Handle) Handle  { return s.alloc(gEq, d, 1, a.ID, b.ID) }
func (s *Sim) And(d Domain, a, b Handle) Handle { return s.alloc(gAnd, d, maxWidth(a, b), a.ID, b.ID) }
func (s *Sim) Or(d Domain, a, b Handle) Handle  { return s.alloc(gOr, d, maxWidth(a, b), a.ID, b.ID) }
func (s *Sim) Xor(d Domain, a, b Handle) Handle { return s.alloc(gXor, d, maxWidth(a, b), a.ID, b.ID) }

func (s *Sim) Inv(d Domain, a Handle) Handle { return s.alloc(gInv, d, a.Width, a.ID) }

func (s *Sim) Shl(d Domain, a Handle, n int) Handle {
	h := s.alloc(gShl, d, a.Width, a.ID)
	s.nodes[h.ID].imm = int64(n)
	return h
}

func (s *Sim) Lshr(d Domain, a Handle, n int) Handle {
	h := s.alloc(gLshr, d, a.Width, a.ID)
	s.nodes[h.ID].imm = int64(n)
	return h
}

func (s *Sim) Mux(d Domain, sel, t, f Handle) Handle {
	return s.alloc(gMux, d, t.Width, sel.ID, t.ID, f.ID)
}

func (s *Sim) Cons(d Domain, value int64, width int) Handle {
	h := s.alloc(gCons, d, width)
	s.nodes[h.ID].imm = value
	return h
}

func (s *Sim) In(d Domain, role Role, value int64, width int) Handle {
	h := s.alloc(gIn, d, width)
	s.nodes[h.ID].imm = value
	s.nodes[h.ID].role = role
	return h
}

func (s *Sim) DummyIn(d Domain, width int, hint int64) Handle {
	h := s.alloc(gDummyIn, d, width)
	s.nodes[h.ID].imm = hint
	return h
}

func (s *Sim) Out(h Handle) Handle {
	out := s.alloc(gOut, h.Domain, h.Width, h.ID)
	s.outputs = append(s.outputs, out.ID)
	return out
}

func (s *Sim) A2B(h Handle) Handle { return s.alloc(gA2B, Bool, h.Width, h.ID) }
func (s *Sim) A2Y(h Handle) Handle { return s.alloc(gA2Y, Yao, h.Width, h.ID) }
func (s *Sim) B2A(h Handle) Handle { return s.alloc(gB2A, Arith, h.Width, h.ID) }
func (s *Sim) B2Y(h Handle) Handle { return s.alloc(gB2Y, Yao, h.Width, h.ID) }
func (s *Sim) Y2A(h Handle) Handle { return s.alloc(gY2A, Arith, h.Width, h.ID) }
func (s *Sim) Y2B(h Handle) Handle { return s.alloc(gY2B, Bool, h.Width, h.ID) }

func (s *Sim) BitAt(h Handle, bit int) Handle {
	node := s.alloc(gBitAt, h.Domain, 1, h.ID)
	s.nodes[node.ID].imm = int64(bit)
	return node
}

// maxWidth is the result width of a bitwise And/Or/Xor: combining a
// narrow wire (e.g. a single bit from BitAt) with a wider register must
// not truncate the register down to the narrower operand's width.
func maxWidth(a, b Handle) int {
	if a.Width > b.Width {
		return a.Width
	}
	return b.Width
}

func mask(v int64, width int) int64 {
	if width <= 0 || width >= 63 {
		return v
	}
	return v & ((int64(1) << uint(width)) - 1)
}

// Execute evaluates every gate node exactly once, in emission order — which
// is also a valid topological order since every node only ever references
// handles created strictly before it (gate emission order is bytecode
// textual order, per spec §5).
func (s *Sim) Execute() error {
	for id := range s.nodes {
		n := &s.nodes[id]
		switch n.kind {
		case gAdd:
			n.value = s.v(n.args[0]) + s.v(n.args[1])
		case gSub:
			n.value = s.v(n.args[0]) - s.v(n.args[1])
		case gMul:
			n.value = s.v(n.args[0]) * s.v(n.args[1])
		case gGt:
			n.value = boolToInt(s.v(n.args[0]) > s.v(n.args[1]))
		case gEq:
			n.value = boolToInt(s.v(n.args[0]) == s.v(n.args[1]))
		case gAnd:
			n.value = s.v(n.args[0]) & s.v(n.args[1])
		case gOr:
			n.value = s.v(n.args[0]) | s.v(n.args[1])
		case gXor:
			n.value = s.v(n.args[0]) ^ s.v(n.args[1])
		case gInv:
			if n.width == 1 {
				n.value = 1 - s.v(n.args[0])
			} else {
				n.value = mask(^s.v(n.args[0]), n.width)
			}
		case gShl:
			n.value = mask(s.v(n.args[0])<<uint(n.imm), n.width)
		case gLshr:
			n.value = mask(int64(uint64(s.v(n.args[0]))>>uint(n.imm)), n.width)
		case gMux:
			if s.v(n.args[0]) != 0 {
				n.value = s.v(n.args[1])
			} else {
				n.value = s.v(n.args[2])
			}
		case gCons, gIn:
			n.value = n.imm
		case gDummyIn:
			n.value = n.imm
		case gOut:
			n.value = s.v(n.args[0])
		case gA2B, gA2Y, gB2A, gB2Y, gY2A, gY2B:
			n.value = s.v(n.args[0])
		case gBitAt:
			n.value = (s.v(n.args[0]) >> uint(n.imm)) & 1
		default:
			return errors.Errorf("simcircuit: unknown gate kind %d at handle %d", n.kind, id)
		}
	}
	s.evald = true
	return nil
}

func (s *Sim) v(id HandleID) int64 {
	return s.nodes[id].value
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Result returns the declassified clear value of a handle previously passed
// to Out.
func (s *Sim) Result(h Handle) (int64, error) {
	if !s.evald {
		return 0, errors.New("simcircuit: Execute has not run yet")
	}
	if int(h.ID) >= len(s.nodes) {
		return 0, errors.Errorf("simcircuit: unknown handle %d", h.ID)
	}
	return s.nodes[h.ID].value, nil
}

// GateCount returns the number of gates emitted so far, used by tests that
// assert "no additional gates were emitted" (§8 property 3, scenario b).
func (s *Sim) GateCount() int { return len(s.nodes) }

// Dump returns a human-readable trace with one line per gate, in emission
// order, grounded on the teacher's vm/image.go Disassemble and cmd/retro/dump.go.
func (s *Sim) Dump() []string {
	lines := make([]string, len(s.nodes))
	for id, n := range s.nodes {
		lines[id] = fmt.Sprintf("%04d %-8s dom=%v w=%d args=%v", id, n.kind.String(), s.handles[id].Domain, n.width, n.args)
	}
	return lines
}

func (k gateKind) String() string {
	switch k {
	case gAdd:
		return "ADD"
	case gSub:
		return "SUB"
	case gMul:
		return "MUL"
	case gGt:
		return "GT"
	case gEq:
		return "EQ"
	case gAnd:
		return "AND"
	case gOr:
		return "OR"
	case gXor:
		return "XOR"
	case gInv:
		return "INV"
	case gShl:
		return "SHL"
	case gLshr:
		return "LSHR"
	case gMux:
		return "MUX"
	case gCons:
		return "CONS"
	case gIn:
		return "IN"
	case gDummyIn:
		return "DUMMYIN"
	case gOut:
		return "OUT"
	case gA2B:
		return "A2B"
	case gA2Y:
		return "A2Y"
	case gB2A:
		return "B2A"
	case gB2Y:
		return "B2Y"
	case gY2A:
		return "Y2A"
	case gY2B:
		return "Y2B"
	case gBitAt:
		return "BITAT"
	default:
		return "?"
	}
}
