package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aby-mpc/bytecode-interpreter/bytecode"
)

func TestLexBinary(t *testing.T) {
	ins, ok, err := bytecode.Lex("2 1 x y z ADD")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"x", "y"}, ins.In)
	require.Equal(t, []string{"z"}, ins.Out)
	require.Equal(t, bytecode.OpAdd, ins.Op)
}

func TestLexCall(t *testing.T) {
	ins, ok, err := bytecode.Lex("1 1 x y CALL(helper)")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, bytecode.OpCall, ins.Op)
	require.Equal(t, "helper", ins.Callee)
}

func TestLexBlankLineSkipped(t *testing.T) {
	_, ok, err := bytecode.Lex("   ")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLexBadCount(t *testing.T) {
	_, _, err := bytecode.Lex("x 1 a b ADD")
	require.Error(t, err)
}

func TestLexUnknownOpcode(t *testing.T) {
	_, _, err := bytecode.Lex("2 1 x y z FROB")
	require.Error(t, err)
}

func TestIsBinary(t *testing.T) {
	require.True(t, bytecode.IsBinary(bytecode.OpAdd))
	require.False(t, bytecode.IsBinary(bytecode.OpMux))
	require.False(t, bytecode.IsBinary(bytecode.OpCall))
}
