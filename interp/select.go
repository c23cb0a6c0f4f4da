package interp

import (
	"github.com/aby-mpc/bytecode-interpreter/bytecode"
	"github.com/aby-mpc/bytecode-interpreter/circuit"
)

// selectBitWidth is the fixed bit-width of SELECT/STORE array elements
// (§4.3).
const selectBitWidth = 32

// dispatchSelect lowers indexed SELECT into a logarithmic-depth tournament
// of bitwise comparator gates (§4.3). Not supported in the Arithmetic
// domain.
//
// For each of the selectBitWidth bit positions, the length-n column of
// single-bit shares is reduced by build_tree-style pairwise combination:
// the comparator at tree level l is a XOR (idxBit[l] AND (a XOR b)) — i.e.
// bitwise multiplexing controlled by bit l of the secret index. The B
// resulting single-bit wires are reassembled into one boolean share via a
// shift-add tree, the same construction the constant-multiplication
// rewrite uses.
func (in *Interpreter) dispatchSelect(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	if d == circuit.Arith {
		return nil, fault(UnsupportedDomain, "SELECT not supported in arithmetic domain")
	}
	n := len(ins.In) - 1
	idxRaw, err := in.lookup1(ins.In[n])
	if err != nil {
		return nil, err
	}
	idx := in.conv.Convert(in.Builder, idxRaw, d)

	elems := make([]circuit.Handle, n)
	for i := 0; i < n; i++ {
		h, err := in.lookup1(ins.In[i])
		if err != nil {
			return nil, err
		}
		elems[i] = in.conv.Convert(in.Builder, h, d)
	}

	resultBits := make([]circuit.Handle, selectBitWidth)
	for w := 0; w < selectBitWidth; w++ {
		column := make([]circuit.Handle, n)
		for i, e := range elems {
			column[i] = in.Builder.BitAt(e, w)
		}
		resultBits[w] = reduceColumn(in.Builder, d, idx, column)
	}
	return []circuit.Handle{reassemble(in.Builder, d, resultBits)}, nil
}

// reduceColumn performs the power-of-two tournament described in §4.3 over
// a single bit column, consuming one index bit per tree level.
func reduceColumn(b circuit.Builder, d circuit.Domain, idx circuit.Handle, column []circuit.Handle) circuit.Handle {
	level := 0
	for len(column) > 1 {
		selBit := b.BitAt(idx, level)
		next := make([]circuit.Handle, 0, (len(column)+1)/2)
		i := 0
		for ; i+1 < len(column); i += 2 {
			a, c := column[i], column[i+1]
			xorAC := b.Xor(d, a, c)
			andSel := b.And(d, selBit, xorAC)
			next = append(next, b.Xor(d, a, andSel))
		}
		if i < len(column) {
			next = append(next, column[i])
		}
		column = next
		level++
	}
	return column[0]
}

// reassemble packs B single-bit wires back into one boolean share via a
// shift-add tree. Each bit (width 1, straight off BitAt/Xor/And) is first
// widened to the accumulator's width — Shl's result keeps its operand's
// width, so shifting a still-width-1 wire would mask every bit above 0
// straight back to zero.
func reassemble(b circuit.Builder, d circuit.Domain, bits []circuit.Handle) circuit.Handle {
	width := len(bits)
	acc := b.Cons(d, 0, width)
	for w, bit := range bits {
		term := widenBit(b, d, width, bit)
		if w > 0 {
			term = b.Shl(d, term, w)
		}
		acc = b.Add(d, acc, term)
	}
	return acc
}

// widenBit lifts a width-1 wire to width via a two-way Mux between
// full-width constants, since Builder has no dedicated zero-extend gate.
func widenBit(b circuit.Builder, d circuit.Domain, width int, bit circuit.Handle) circuit.Handle {
	return b.Mux(d, bit, b.Cons(d, 1, width), b.Cons(d, 0, width))
}

// dispatchStore lowers indexed STORE into one EQ/MUX pair per output cell
// (§4.3). Not supported in the Arithmetic domain.
func (in *Interpreter) dispatchStore(d circuit.Domain, ins bytecode.Instruction) ([]circuit.Handle, error) {
	if d == circuit.Arith {
		return nil, fault(UnsupportedDomain, "STORE not supported in arithmetic domain")
	}
	n := len(ins.In) - 2
	idxRaw, err := in.lookup1(ins.In[n])
	if err != nil {
		return nil, err
	}
	idx := in.conv.Convert(in.Builder, idxRaw, d)
	vRaw, err := in.lookup1(ins.In[n+1])
	if err != nil {
		return nil, err
	}
	v := in.conv.Convert(in.Builder, vRaw, d)

	results := make([]circuit.Handle, n)
	for i := 0; i < n; i++ {
		aRaw, err := in.lookup1(ins.In[i])
		if err != nil {
			return nil, err
		}
		a := in.conv.Convert(in.Builder, aRaw, d)
		ind := in.Builder.Cons(d, int64(i), selectBitWidth)
		sel := in.Builder.Eq(d, ind, idx)
		results[i] = in.Builder.Mux(d, sel, v, a)
	}
	return results, nil
}
