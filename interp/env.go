// Package interp implements the bytecode-to-circuit compiler core: the
// instruction dispatcher, the wire environment, the domain-conversion
// cache, and the call/return rewiring protocol (spec.md §3, §4).
//
// Grounded on the teacher's vm/core.go (a single big opcode switch over a
// *vm.Instance) — here the "instance" being mutated is a circuit.Builder
// plus a process-wide Interpreter environment instead of a data/address
// stack.
package interp

import "github.com/aby-mpc/bytecode-interpreter/circuit"

// Source resolves a function name to the lines of its bytecode file,
// abstracting over program-directory discovery (program package) so that
// CALL(fname) can recursively re-enter the dispatcher without interp
// knowing about file layout.
type Source interface {
	Lines(fn string) ([]string, error)
}

// Interpreter holds the process-wide state of a single interpreter run:
// the wire environment, domain-conversion cache, and constant map of §3.
// There is no nested scope — DESIGN NOTES: "a neutral implementation
// threads a single InterpreterState value through the dispatcher;
// recursive CALL shares that value rather than stacking scopes."
type Interpreter struct {
	Builder  circuit.Builder
	Role     circuit.Role
	ShareMap map[string]circuit.Domain
	Params   map[string]int64
	Source   Source

	env    map[string][]circuit.Handle
	consts map[string]int64
	conv   *Converter

	// populatingConsts is set while processing the constants-file preamble
	// (§4.5); only then does a CONS instruction also populate the constant
	// map consulted by the MUL rewrite (§4.3).
	populatingConsts bool
}

// New creates a fresh Interpreter environment. Resources (env, caches) are
// acquired here and released implicitly when the Interpreter is dropped at
// driver exit (§5).
func New(builder circuit.Builder, role circuit.Role, shareMap map[string]circuit.Domain, params map[string]int64, src Source) *Interpreter {
	return &Interpreter{
		Builder:  builder,
		Role:     role,
		ShareMap: shareMap,
		Params:   params,
		Source:   src,
		env:      make(map[string][]circuit.Handle),
		consts:   make(map[string]int64),
		conv:     NewConverter(),
	}
}

func (in *Interpreter) bind(name string, hs []circuit.Handle) {
	in.env[name] = hs
}

func (in *Interpreter) lookup(name string) ([]circuit.Handle, error) {
	hs, ok := in.env[name]
	if !ok {
		return nil, fault(MissingBinding, "wire %q was never bound", name)
	}
	return hs, nil
}

func (in *Interpreter) lookup1(name string) (circuit.Handle, error) {
	hs, err := in.lookup(name)
	if err != nil {
		return circuit.Handle{}, err
	}
	return hs[0], nil
}

// RunConstants processes a constants-file preamble (§4.5): every line is
// dispatched with empty rewire FIFOs, populating both the environment and
// the constant map.
func (in *Interpreter) RunConstants(lines []string) error {
	in.populatingConsts = true
	defer func() { in.populatingConsts = false }()
	_, err := in.run(lines, "<const>", &HandleFifo{}, &NameFifo{})
	return err
}

// Process recursively interprets the bytecode file for function fn (§4.6).
// inputs/outputs are the rewire FIFOs for this invocation; for the
// top-level `main` entry point both are empty.
func (in *Interpreter) Process(fn string, inputs *HandleFifo, outputs *NameFifo) ([]circuit.Handle, error) {
	lines, err := in.Source.Lines(fn)
	if err != nil {
		return nil, fault(MissingFile, "function %q: %v", fn, err)
	}
	return in.run(lines, fn, inputs, outputs)
}
