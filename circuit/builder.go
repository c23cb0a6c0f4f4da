package circuit

// Role identifies which party a private input belongs to. It doubles as the
// visibility tag read straight off the bytecode (§6 Visibility tag
// convention): 0 = server, 1 = client, 2 = public.
type Role int

const (
	Server Role = 0
	Client Role = 1
	Public Role = 2
)

func (r Role) String() string {
	switch r {
	case Server:
		return "Server"
	case Client:
		return "Client"
	default:
		return "Public"
	}
}

// Builder is the abstract MPC circuit-construction collaborator (§6). One
// Builder instance owns all three domain circuits; PutXGate-style calls are
// exposed as short verbs in the teacher's naming convention (vm/run.go's
// Push/Pop/Rpush/Rpop single-verb helpers).
//
// Every Put* method returns a fresh Handle whose Domain is fixed by the
// method (e.g. Add always returns a handle in the domain of its operands;
// callers are responsible for converting operands into a common domain
// first via a Converter).
type Builder interface {
	// Binary gates. Operands must already share op's target domain.
	Add(d Domain, a, b Handle) Handle
	Sub(d Domain, a, b Handle) Handle
	Mul(d Domain, a, b Handle) Handle
	Gt(d Domain, a, b Handle) Handle
	Eq(d Domain, a, b Handle) Handle
	And(d Domain, a, b Handle) Handle
	Or(d Domain, a, b Handle) Handle
	Xor(d Domain, a, b Handle) Handle

	// Unary / structural gates.
	Inv(d Domain, a Handle) Handle
	Shl(d Domain, a Handle, n int) Handle
	Lshr(d Domain, a Handle, n int) Handle
	Mux(d Domain, sel, t, f Handle) Handle

	// Constants and I/O.
	Cons(d Domain, value int64, width int) Handle
	In(d Domain, role Role, value int64, width int) Handle
	// DummyIn emits a placeholder input gate standing in for the other
	// party's private value. Real protocol backends fill it in over the
	// network during Execute and ignore hint entirely. simcircuit has no
	// network to do that, so it honors hint as the value the other party
	// would have contributed — see DESIGN.md for why that's a faithful
	// enough stand-in given §1 Non-goal (i).
	DummyIn(d Domain, width int, hint int64) Handle
	Out(h Handle) Handle

	// Cross-domain conversions, one per ordered pair of distinct domains.
	A2B(h Handle) Handle
	A2Y(h Handle) Handle
	B2A(h Handle) Handle
	B2Y(h Handle) Handle
	Y2A(h Handle) Handle
	Y2B(h Handle) Handle

	// BitAt extracts a single-bit wire carrying bit `bit` (0 = LSB) of a
	// Boolean or Yao-domain handle; the result stays in h's domain. Used by the bit-serial
	// division routine and the log-tree SELECT lowering.
	BitAt(h Handle, bit int) Handle

	// Execute evaluates the DAG built so far and makes declassified OUT
	// gate results available through Result.
	Execute() error

	// Result returns the clear integer value of a handle previously passed
	// to Out, once Execute has run.
	Result(h Handle) (int64, error)
}
