package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
	"github.com/aby-mpc/bytecode-interpreter/driver"
)

func writeAddProgram(t *testing.T) (dir, testPath string) {
	t.Helper()
	dir = t.TempDir()
	base := filepath.Base(dir)
	main := "2 1 sx 0 sx IN\n2 1 cx 1 cx IN\n2 1 sx cx z ADD\n1 0 z OUT\n"
	shareMap := "sx b\ncx b\nz b\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+"_main_bytecode.txt"), []byte(main), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+"_share_map.txt"), []byte(shareMap), 0o644))

	testPath = filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(testPath, []byte("sx 3\ncx 4\n"), 0o644))
	return dir, testPath
}

func TestRunSingleParty(t *testing.T) {
	dir, testPath := writeAddProgram(t)
	var out bytes.Buffer
	err := driver.Run(driver.Config{Dir: dir, TestPath: testPath, Role: circuit.Server}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "7\n")
	require.Contains(t, out.String(), "LOG: Server load time")
	require.Contains(t, out.String(), "LOG: Server exec time")
}

func TestRunLoopbackBothPartiesAgree(t *testing.T) {
	dir, testPath := writeAddProgram(t)
	serverOut, clientOut, err := driver.RunLoopback(dir, testPath)
	require.NoError(t, err)
	require.Equal(t, []int64{7}, serverOut)
	require.Equal(t, []int64{7}, clientOut)
}
