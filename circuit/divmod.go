package circuit

// SignedDivMod is the "fast signed long-division routine" that §4.3 defers
// to for DIV/REM in the Boolean/Yao domains. It is a restoring binary
// divider expressed purely in terms of Builder gates (Shl/Or/Gt/Inv/Sub/Mux
// and bit extraction), so it is itself gate-level and testable rather than
// a black box: operands are taken to their absolute value, divided bit by
// bit from the most significant bit down, and the quotient/remainder signs
// are fixed up at the end (standard sign-magnitude long division).
func SignedDivMod(b Builder, d Domain, width int, x, y Handle) (quotient, remainder Handle) {
	signX := b.BitAt(x, width-1)
	signY := b.BitAt(y, width-1)
	absX := condNegate(b, d, width, x, signX)
	absY := condNegate(b, d, width, y, signY)

	q := b.Cons(d, 0, width)
	r := b.Cons(d, 0, width)
	for i := width - 1; i >= 0; i-- {
		r = b.Shl(d, r, 1)
		bit := b.BitAt(absX, i)
		r = b.Or(d, r, bit)

		ge := b.Inv(d, b.Gt(d, absY, r)) // r >= absY  <=>  !(absY > r)
		subbed := b.Sub(d, r, absY)
		r = b.Mux(d, ge, subbed, r)

		q = b.Shl(d, q, 1)
		q = b.Or(d, q, ge)
	}

	qSign := b.Xor(d, signX, signY)
	quotient = condNegate(b, d, width, q, qSign)
	remainder = condNegate(b, d, width, r, signX)
	return quotient, remainder
}

func condNegate(b Builder, d Domain, width int, x, sign Handle) Handle {
	negated := b.Sub(d, b.Cons(d, 0, width), x)
	return b.Mux(d, sign, negated, x)
}
