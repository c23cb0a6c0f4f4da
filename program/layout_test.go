package program_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
	"github.com/aby-mpc/bytecode-interpreter/program"
)

func writeProgramDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Base(dir)
	files := map[string]string{
		base + "_main_bytecode.txt": "2 1 x 0 x IN\n1 0 x OUT\n",
		base + "_helper_bytecode.txt": "1 0 a 0 a IN\n",
		base + "_share_map.txt":       "x b\ny a\nz y\n",
		base + "_const.txt":           "2 1 5 32 c CONS\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFileSourceReadsAndCachesBytecode(t *testing.T) {
	dir := writeProgramDir(t)
	layout := program.NewLayout(dir)
	src := program.NewFileSource(layout)

	lines, err := src.Lines("main")
	require.NoError(t, err)
	require.Equal(t, []string{"2 1 x 0 x IN", "1 0 x OUT", ""}, lines)

	// A second read is served from the cache, not the file.
	require.NoError(t, os.Remove(layout.BytecodePath("main")))
	cached, err := src.Lines("main")
	require.NoError(t, err)
	require.Equal(t, lines, cached)

	_, err = src.Lines("nonexistent")
	require.Error(t, err)
}

func TestFileSourceConstLinesAbsentIsNotError(t *testing.T) {
	dir := t.TempDir()
	layout := program.NewLayout(dir)
	src := program.NewFileSource(layout)
	lines, err := src.ConstLines()
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestFileSourceConstLinesPresent(t *testing.T) {
	dir := writeProgramDir(t)
	layout := program.NewLayout(dir)
	src := program.NewFileSource(layout)
	lines, err := src.ConstLines()
	require.NoError(t, err)
	require.Equal(t, []string{"2 1 5 32 c CONS", ""}, lines)
}

func TestParseShareMap(t *testing.T) {
	dir := writeProgramDir(t)
	layout := program.NewLayout(dir)
	m, err := program.ParseShareMap(layout.ShareMapPath())
	require.NoError(t, err)
	require.Equal(t, circuit.Bool, m["x"])
	require.Equal(t, circuit.Arith, m["y"])
	require.Equal(t, circuit.Yao, m["z"])
}

func TestParseShareMapUnknownDomain(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Base(dir)
	path := filepath.Join(dir, base+"_share_map.txt")
	require.NoError(t, os.WriteFile(path, []byte("x q\n"), 0o644))
	_, err := program.ParseShareMap(path)
	require.Error(t, err)
}

func TestFunctionsListsBytecodeFiles(t *testing.T) {
	dir := writeProgramDir(t)
	fns, err := program.Functions(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main", "helper"}, fns)
}
