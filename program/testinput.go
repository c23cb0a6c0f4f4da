package program

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseTestInput reads a test-input file of "<name> <value...>" lines (§6,
// §9 Open Questions). A scalar line binds <name> directly; an array line
// ("<name> <v0> ... <v_{k-1}>") is flattened into <name>_0 .. <name>_{k-1}.
// Lines whose name begins with "res" are expected results, not inputs, and
// are skipped (§9).
func ParseTestInput(path string) (map[string]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "test-input file")
	}
	m := make(map[string]int64)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		if strings.HasPrefix(name, "res") {
			continue
		}
		if len(fields) == 2 {
			v, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "test-input: parsing value for %q", name)
			}
			m[name] = v
			continue
		}
		for i, raw := range fields[1:] {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "test-input: parsing element %d of %q", i, name)
			}
			m[name+"_"+strconv.Itoa(i)] = v
		}
	}
	return m, nil
}
