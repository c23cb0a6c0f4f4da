package interp

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/aby-mpc/bytecode-interpreter/bytecode"
	"github.com/aby-mpc/bytecode-interpreter/circuit"
)

const bitWidth = 32

// run drives the per-line dispatch loop for one bytecode file (§4.3). It
// returns the handles declassified by every top-level OUT line reached
// while outputs was empty — i.e. the function's return value when called
// as `main`, or an empty slice for a callee invocation (where OUT lines
// are consumed by the rewire path instead, see dispatchOut).
func (in *Interpreter) run(lines []string, fn string, inputs *HandleFifo, outputs *NameFifo) ([]circuit.Handle, error) {
	var results []circuit.Handle
	for lineNo, raw := range lines {
		ins, ok, err := bytecode.Lex(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", fn, lineNo+1)
		}
		if !ok {
			continue
		}
		if ins.Op == bytecode.OpCall {
			if err := in.dispatchCall(ins); err != nil {
				return nil, errors.Wrapf(err, "%s:%d", fn, lineNo+1)
			}
			continue
		}
		out, err := in.dispatchLine(ins, inputs, outputs, &results)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: %s", fn, lineNo+1, ins.Raw)
		}
		if out != nil {
			for idx, name := range ins.Out {
				in.bind(name, []circuit.Handle{out[idx]})
			}
		}
	}
	return results, nil
}

// targetDomain implements the target-domain selection rule of §4.3: the
// domain assigned by the share-map to out0 if any output exists, else to
// in0. Returns ok=false when neither has a share-map entry.
func (in *Interpreter) targetDomain(ins bytecode.Instruction) (circuit.Domain, bool) {
	if len(ins.Out) > 0 {
		d, ok := in.ShareMap[ins.Out[0]]
		return d, ok
	}
	if len(ins.In) > 0 {
		d, ok := in.ShareMap[ins.In[0]]
		return d, ok
	}
	return 0, false
}

// dispatchLine realises a single non-CALL instruction against the builder
// in its target domain (§4.3). results accumulates declassified OUT
// handles for the enclosing run.
func (in *Interpreter) dispatchLine(ins bytecode.Instruction, inputs *HandleFifo, outputs *NameFifo, results *[]circuit.Handle) ([]circuit.Handle, error) {
	d, ok := in.targetDomain(ins)
	if !ok {
		if ins.Op == bytecode.OpIn && !inputs.Empty() {
			inputs.Pop()
		}
		return nil, nil
	}

	switch {
	case bytecode.IsBinary(ins.Op):
		return in.dispatchBinary(d, ins)
	case ins.Op == bytecode.OpNot:
		return in.dispatchNot(d, ins)
	case ins.Op == bytecode.OpShl || ins.Op == bytecode.OpLshr:
		return in.dispatchShift(d, ins)
	case ins.Op == bytecode.OpCons:
		return in.dispatchCons(d, ins)
	case ins.Op == bytecode.OpMux:
		return in.dispatchMux(d, ins)
	case ins.Op == bytecode.OpSelect:
		return in.dispatchSelect(d, ins)
	case ins.Op == bytecode.OpStore:
		return in.dispatchStore(d, ins)
	case ins.Op == bytecode.OpIn:
		return in.dispatchIn(d, ins, inputs)
	case ins.Op == bytecode.OpOut:
		return in.dispatchOut(ins, outputs, results)
	default:
		return nil, fault(MalformedBytecode, "unhandled opcode %s", ins.Op)
	}
}

func (in *Interpreter) dispatchBinary(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	lhs, err := in.lookup1(ins.In[0])
	if err != nil {
		return nil, err
	}
	rhs, err := in.lookup1(ins.In[1])
	if err != nil {
		return nil, err
	}
	a := in.conv.Convert(in.Builder, lhs, d)
	b := in.conv.Convert(in.Builder, rhs, d)

	var result circuit.Handle
	switch ins.Op {
	case bytecode.OpAdd:
		result = in.Builder.Add(d, a, b)
	case bytecode.OpSub:
		result = in.Builder.Sub(d, a, b)
	case bytecode.OpMul:
		result = in.mul(d, ins.In[0], ins.In[1], a, b)
	case bytecode.OpGt:
		result = in.Builder.Gt(d, a, b)
	case bytecode.OpLt:
		// LT(a,b) is lowered as GT(b,a).
		result = in.Builder.Gt(d, b, a)
	case bytecode.OpGe:
		// GE(a,b) is the logical inverse of GT(b,a).
		result = in.Builder.Inv(d, in.Builder.Gt(d, b, a))
	case bytecode.OpLe:
		// LE(a,b) is the logical inverse of GT(a,b).
		result = in.Builder.Inv(d, in.Builder.Gt(d, a, b))
	case bytecode.OpAnd:
		result = in.Builder.And(d, a, b)
	case bytecode.OpOr:
		result = in.Builder.Or(d, a, b)
	case bytecode.OpXor:
		result = in.Builder.Xor(d, a, b)
	case bytecode.OpEq:
		result = in.Builder.Eq(d, a, b)
	case bytecode.OpDiv, bytecode.OpRem:
		if d == circuit.Arith {
			return nil, fault(UnsupportedDomain, "DIV/REM not supported in arithmetic domain")
		}
		q, r := circuit.SignedDivMod(in.Builder, d, bitWidth, a, b)
		if ins.Op == bytecode.OpDiv {
			result = q
		} else {
			result = r
		}
	default:
		return nil, fault(MalformedBytecode, "unknown binary opcode %s", ins.Op)
	}
	return []circuit.Handle{result}, nil
}

// mul applies the constant-multiplication rewrite of §4.3: when target
// domain is Boolean/Yao and exactly one operand is in the constant map,
// it emits a shift-and-add tree over the non-constant operand instead of
// calling the generic multiplier.
func (in *Interpreter) mul(d circuit.Domain, lName, rName string, a, b circuit.Handle) circuit.Handle {
	if d == circuit.Bool || d == circuit.Yao {
		cl, lIsConst := in.consts[lName]
		cr, rIsConst := in.consts[rName]
		if lIsConst != rIsConst {
			if lIsConst {
				return constMul(in.Builder, d, b, cl)
			}
			return constMul(in.Builder, d, a, cr)
		}
	}
	return in.Builder.Mul(d, a, b)
}

// constMul builds a shift-and-add tree for x*c driven by the set bits of
// the compile-time constant c. Strictly local: it never alters x's domain
// or the result's domain.
func constMul(b circuit.Builder, d circuit.Domain, x circuit.Handle, c int64) circuit.Handle {
	var acc circuit.Handle
	have := false
	for bit := 0; bit < bitWidth && (c>>uint(bit)) != 0; bit++ {
		if (c>>uint(bit))&1 == 0 {
			continue
		}
		term := x
		if bit > 0 {
			term = b.Shl(d, x, bit)
		}
		if !have {
			acc, have = term, true
			continue
		}
		acc = b.Add(d, acc, term)
	}
	if !have {
		return b.Cons(d, 0, x.Width)
	}
	return acc
}

func (in *Interpreter) dispatchNot(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	h, err := in.lookup1(ins.In[0])
	if err != nil {
		return nil, err
	}
	h = in.conv.Convert(in.Builder, h, d)
	return []circuit.Handle{in.Builder.Inv(d, h)}, nil
}

func (in *Interpreter) dispatchShift(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	h, err := in.lookup1(ins.In[0])
	if err != nil {
		return nil, err
	}
	h = in.conv.Convert(in.Builder, h, d)
	n, err := strconv.Atoi(ins.In[1])
	if err != nil {
		return nil, fault(MalformedBytecode, "bad shift count %q", ins.In[1])
	}
	var result circuit.Handle
	if ins.Op == bytecode.OpShl {
		result = in.Builder.Shl(d, h, n)
	} else {
		result = in.Builder.Lshr(d, h, n)
	}
	return []circuit.Handle{result}, nil
}

func (in *Interpreter) dispatchCons(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	v, err := strconv.ParseInt(ins.In[0], 10, 64)
	if err != nil {
		return nil, fault(MalformedBytecode, "bad CONS value %q", ins.In[0])
	}
	w, err := strconv.Atoi(ins.In[1])
	if err != nil || (w != 1 && w != bitWidth) {
		return nil, fault(MalformedBytecode, "unsupported CONS width %q", ins.In[1])
	}
	// If target is Yao, coerce to Boolean: the builder produces all public
	// constants in Boolean and lets the conversion layer route them to Yao
	// on demand.
	target := d
	if d == circuit.Yao {
		target = circuit.Bool
	}
	h := in.Builder.Cons(target, v, w)
	if in.populatingConsts && len(ins.Out) > 0 {
		in.consts[ins.Out[0]] = v
	}
	return []circuit.Handle{h}, nil
}

// dispatchMux realises multi-way MUX (§4.3): k = (n_in-1)/2 independent
// 2-to-1 selections sharing one selector. A slot whose true/false operands
// are already the same handle is reused verbatim — no gate is emitted
// for it (§8 property 3).
func (in *Interpreter) dispatchMux(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	k := (len(ins.In) - 1) / 2
	selRaw, err := in.lookup1(ins.In[0])
	if err != nil {
		return nil, err
	}
	sel := in.conv.Convert(in.Builder, selRaw, d)

	results := make([]circuit.Handle, k)
	for idx := 0; idx < k; idx++ {
		tH, err := in.lookup1(ins.In[1+idx])
		if err != nil {
			return nil, err
		}
		fH, err := in.lookup1(ins.In[1+k+idx])
		if err != nil {
			return nil, err
		}
		if tH.ID == fH.ID {
			results[idx] = tH
			continue
		}
		t := in.conv.Convert(in.Builder, tH, d)
		f := in.conv.Convert(in.Builder, fH, d)
		results[idx] = in.Builder.Mux(d, sel, t, f)
	}
	return results, nil
}

func (in *Interpreter) dispatchIn(d circuit.Domain, ins bytecode.Instruction, inputs *HandleFifo) ([]circuit.Handle, error) {
	// Callee-side of a call: bind to the head of the input rewire FIFO,
	// raw, with no conversion (Open Questions: conversions are deferred to
	// the use-site, not inserted at the callee).
	if h, ok := inputs.Pop(); ok {
		return []circuit.Handle{h}, nil
	}

	name := ins.In[0]
	visTok := ins.In[1]
	vis, err := strconv.Atoi(visTok)
	if err != nil {
		return nil, fault(MalformedBytecode, "bad IN visibility %q", visTok)
	}

	// Inputs enter through Boolean and are converted on read.
	target := d
	if d == circuit.Yao {
		target = circuit.Bool
	}

	var h circuit.Handle
	switch {
	case vis == int(in.Role):
		val, ok := in.Params[name]
		if !ok {
			return nil, fault(MissingBinding, "no test value for input %q", name)
		}
		h = in.Builder.In(target, in.Role, val, bitWidth)
	case vis == int(circuit.Public):
		width := bitWidth
		if len(ins.In) > 2 {
			if w, err := strconv.Atoi(ins.In[2]); err == nil {
				width = w
			}
		}
		val, ok := in.Params[name]
		if !ok {
			return nil, fault(MissingBinding, "no test value for public input %q", name)
		}
		h = in.Builder.Cons(target, val, width)
	default:
		// The other party's value: simcircuit honors it as a hint since it
		// models the protocol's combined view rather than real secret
		// sharing (Non-goal i); a real backend ignores it.
		val := in.Params[name]
		h = in.Builder.DummyIn(target, bitWidth, val)
	}
	return []circuit.Handle{h}, nil
}

func (in *Interpreter) dispatchOut(ins bytecode.Instruction, outputs *NameFifo, results *[]circuit.Handle) ([]circuit.Handle, error) {
	hs, err := in.lookup(ins.In[0])
	if err != nil {
		return nil, err
	}
	// Callee returning into the caller: bind the FIFO's next name to each
	// handle bound to in0, in order.
	if !outputs.Empty() {
		for _, h := range hs {
			name, ok := outputs.Pop()
			if !ok {
				return nil, fault(RewireUnderflow, "OUT: output rewire FIFO underflow")
			}
			in.bind(name, []circuit.Handle{h})
		}
		return nil, nil
	}
	for _, h := range hs {
		out := in.Builder.Out(h)
		*results = append(*results, out)
	}
	return nil, nil
}
