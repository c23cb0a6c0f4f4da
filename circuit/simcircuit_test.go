package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
)

func TestSimArithmetic(t *testing.T) {
	s := circuit.NewSim()
	a := s.Cons(circuit.Arith, 7, 32)
	b := s.Cons(circuit.Arith, 5, 32)
	sum := s.Add(circuit.Arith, a, b)
	out := s.Out(sum)

	require.NoError(t, s.Execute())
	v, err := s.Result(out)
	require.NoError(t, err)
	require.EqualValues(t, 12, v)
}

func TestSimMux(t *testing.T) {
	s := circuit.NewSim()
	sel := s.Cons(circuit.Bool, 1, 1)
	tH := s.Cons(circuit.Bool, 42, 32)
	fH := s.Cons(circuit.Bool, 99, 32)
	m := s.Mux(circuit.Bool, sel, tH, fH)
	out := s.Out(m)

	require.NoError(t, s.Execute())
	v, err := s.Result(out)
	require.NoError(t, err)
	require.EqualValues(t, 42, v)
}

func TestSimBitAt(t *testing.T) {
	s := circuit.NewSim()
	x := s.Cons(circuit.Bool, 0b1010, 32)
	bit1 := s.BitAt(x, 1)
	bit0 := s.BitAt(x, 0)
	out1 := s.Out(bit1)
	out0 := s.Out(bit0)

	require.NoError(t, s.Execute())
	v1, err := s.Result(out1)
	require.NoError(t, err)
	require.EqualValues(t, 1, v1)
	v0, err := s.Result(out0)
	require.NoError(t, err)
	require.EqualValues(t, 0, v0)
}

func TestSimDummyInHint(t *testing.T) {
	s := circuit.NewSim()
	h := s.DummyIn(circuit.Bool, 32, 17)
	out := s.Out(h)

	require.NoError(t, s.Execute())
	v, err := s.Result(out)
	require.NoError(t, err)
	require.EqualValues(t, 17, v)
}

func TestSimResultBeforeExecuteErrors(t *testing.T) {
	s := circuit.NewSim()
	h := s.Cons(circuit.Arith, 1, 32)
	out := s.Out(h)
	_, err := s.Result(out)
	require.Error(t, err)
}
