package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
)

func TestSignedDivMod(t *testing.T) {
	cases := []struct {
		x, y    int64
		q, r    int64
	}{
		{17, 5, 3, 2},
		{-17, 5, -3, -2},
		{17, -5, -3, 2},
		{-17, -5, 3, -2},
		{0, 7, 0, 0},
	}
	for _, c := range cases {
		s := circuit.NewSim()
		x := s.Cons(circuit.Bool, c.x, 32)
		y := s.Cons(circuit.Bool, c.y, 32)
		q, r := circuit.SignedDivMod(s, circuit.Bool, 32, x, y)
		qOut := s.Out(q)
		rOut := s.Out(r)

		require.NoError(t, s.Execute())
		qv, err := s.Result(qOut)
		require.NoError(t, err)
		rv, err := s.Result(rOut)
		require.NoError(t, err)
		require.EqualValuesf(t, c.q, qv, "quotient for %d/%d", c.x, c.y)
		require.EqualValuesf(t, c.r, rv, "remainder for %d/%d", c.x, c.y)
	}
}
