// Package program implements the program-directory conventions of spec.md
// §6: discovering a program's bytecode files, share-map, and optional
// constants preamble from a single directory path. Grounded on the
// teacher's vm/image.go (file-format loading) and lang/retro's file
// conventions layered on top of the VM core.
package program

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
)

// Layout names the files that make up a program directory P whose basename
// is B: P/B_<fn>_bytecode.txt, P/B_share_map.txt, P/B_const.txt (§6).
type Layout struct {
	Dir  string
	Base string
}

// NewLayout derives a Layout from a program directory path.
func NewLayout(dir string) Layout {
	return Layout{Dir: dir, Base: filepath.Base(filepath.Clean(dir))}
}

func (l Layout) prefix() string {
	return filepath.Join(l.Dir, l.Base)
}

// BytecodePath returns the path to the bytecode file for function fn.
func (l Layout) BytecodePath(fn string) string {
	return l.prefix() + "_" + fn + "_bytecode.txt"
}

// ShareMapPath returns the path to the program's share-map file.
func (l Layout) ShareMapPath() string {
	return l.prefix() + "_share_map.txt"
}

// ConstPath returns the path to the program's optional constants preamble.
func (l Layout) ConstPath() string {
	return l.prefix() + "_const.txt"
}

// FileSource implements interp.Source by reading Layout's bytecode files,
// discovering the file for a callee lazily on first CALL and caching it for
// the remainder of the run (SPEC_FULL "program-directory auto-discovery").
type FileSource struct {
	Layout Layout
	cache  map[string][]string
}

// NewFileSource creates a FileSource over the given Layout.
func NewFileSource(l Layout) *FileSource {
	return &FileSource{Layout: l, cache: make(map[string][]string)}
}

// Lines returns the bytecode lines for function fn, reading and caching the
// file on first use. A missing bytecode file for `main` is fatal (§7
// Missing file); for any other function, it is fatal as soon as a CALL
// reaches it.
func (s *FileSource) Lines(fn string) ([]string, error) {
	if lines, ok := s.cache[fn]; ok {
		return lines, nil
	}
	path := s.Layout.BytecodePath(fn)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bytecode file for function %q", fn)
	}
	lines := strings.Split(string(data), "\n")
	s.cache[fn] = lines
	return lines, nil
}

// ConstLines returns the lines of the optional constants preamble, or nil
// (with no error) if the file is absent — absence is not an error (§4.5).
func (s *FileSource) ConstLines() ([]string, error) {
	data, err := os.ReadFile(s.Layout.ConstPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading constants preamble")
	}
	return strings.Split(string(data), "\n"), nil
}

// Functions lists the function names discoverable in a program directory by
// matching every "<base>_<fn>_bytecode.txt" file against the directory's
// own Layout (SPEC_FULL "disassembly/dump mode").
func Functions(dir string) ([]string, error) {
	l := NewLayout(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing program directory")
	}
	prefix := l.Base + "_"
	const suffix = "_bytecode.txt"
	var fns []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		fn := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if fn != "" {
			fns = append(fns, fn)
		}
	}
	return fns, nil
}

// ParseShareMap reads a share-map file: lines of the form
// "<wire-name> <domain>" where domain is one of a, b, y (§6).
func ParseShareMap(path string) (map[string]circuit.Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "share-map file")
	}
	m := make(map[string]circuit.Domain)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		d, ok := circuit.ParseDomain(fields[1])
		if !ok {
			return nil, errors.Errorf("share-map: unknown domain %q for wire %q", fields[1], fields[0])
		}
		m[fields[0]] = d
	}
	return m, nil
}
