// Package driver wires program discovery, interpretation, and circuit
// execution into a single run: load the constants preamble, interpret
// `main`, execute the resulting circuit, and report declassified results
// and timings. Grounded on the teacher's cmd/retro/main.go, which performs
// the analogous "load image, run VM, report LOG timing lines" sequence
// around an Option-constructed *vm.Instance.
package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
	"github.com/aby-mpc/bytecode-interpreter/interp"
	"github.com/aby-mpc/bytecode-interpreter/program"
)

// Config gathers everything a single-party run needs (§6 CLI flags).
type Config struct {
	Dir      string
	TestPath string
	Role     circuit.Role
}

// Run interprets and executes a program directory for one party, writing
// declassified results and LOG timing lines to out, in the teacher's
// cmd/retro/main.go "LOG: ... time" style.
func Run(cfg Config, out io.Writer) error {
	layout := program.NewLayout(cfg.Dir)

	loadStart := time.Now()
	shareMap, err := program.ParseShareMap(layout.ShareMapPath())
	if err != nil {
		return errors.Wrap(err, "driver: loading share map")
	}
	params, err := program.ParseTestInput(cfg.TestPath)
	if err != nil {
		return errors.Wrap(err, "driver: loading test input")
	}

	src := program.NewFileSource(layout)
	builder := circuit.NewSim()
	it := interp.New(builder, cfg.Role, shareMap, params, src)

	constLines, err := src.ConstLines()
	if err != nil {
		return errors.Wrap(err, "driver: loading constants preamble")
	}
	if constLines != nil {
		if err := it.RunConstants(constLines); err != nil {
			return errors.Wrap(err, "driver: running constants preamble")
		}
	}
	loadTime := time.Since(loadStart)

	execStart := time.Now()
	outs, err := it.Process("main", &interp.HandleFifo{}, &interp.NameFifo{})
	if err != nil {
		return errors.Wrap(err, "driver: interpreting main")
	}
	if err := builder.Execute(); err != nil {
		return errors.Wrap(err, "driver: executing circuit")
	}
	execTime := time.Since(execStart)

	fmt.Fprintf(out, "LOG: %s load time: %s\n", cfg.Role, loadTime)
	fmt.Fprintf(out, "LOG: %s exec time: %s\n", cfg.Role, execTime)
	fmt.Fprintf(out, "LOG: %s total time: %s\n", cfg.Role, loadTime+execTime)

	for _, h := range outs {
		v, err := builder.Result(h)
		if err != nil {
			return errors.Wrap(err, "driver: reading declassified result")
		}
		fmt.Fprintln(out, v)
	}
	return nil
}

// RunLoopback interprets `main` once per role against a single shared
// circuit.Sim builder (SPEC_FULL "two-party loopback harness"), so that
// tests can assert both parties' declassified outputs agree without any
// real networking. Each role's own subgraph is self-consistent because
// program.ParseTestInput supplies every party's value regardless of which
// role is currently interpreting (own wires go through In, the other
// party's through DummyIn with that value as the hint — see
// circuit.Builder.DummyIn and DESIGN.md).
func RunLoopback(dir, testPath string) (serverOut, clientOut []int64, err error) {
	layout := program.NewLayout(dir)
	shareMap, err := program.ParseShareMap(layout.ShareMapPath())
	if err != nil {
		return nil, nil, errors.Wrap(err, "loopback: loading share map")
	}
	params, err := program.ParseTestInput(testPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loopback: loading test input")
	}

	builder := circuit.NewSim()
	serverSrc := program.NewFileSource(layout)
	clientSrc := program.NewFileSource(layout)

	serverIT := interp.New(builder, circuit.Server, shareMap, params, serverSrc)
	clientIT := interp.New(builder, circuit.Client, shareMap, params, clientSrc)

	if constLines, cErr := serverSrc.ConstLines(); cErr == nil && constLines != nil {
		if err := serverIT.RunConstants(constLines); err != nil {
			return nil, nil, errors.Wrap(err, "loopback: server constants")
		}
	} else if cErr != nil {
		return nil, nil, errors.Wrap(cErr, "loopback: server constants")
	}
	if constLines, cErr := clientSrc.ConstLines(); cErr == nil && constLines != nil {
		if err := clientIT.RunConstants(constLines); err != nil {
			return nil, nil, errors.Wrap(err, "loopback: client constants")
		}
	} else if cErr != nil {
		return nil, nil, errors.Wrap(cErr, "loopback: client constants")
	}

	serverHandles, err := serverIT.Process("main", &interp.HandleFifo{}, &interp.NameFifo{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "loopback: server interpretation")
	}
	clientHandles, err := clientIT.Process("main", &interp.HandleFifo{}, &interp.NameFifo{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "loopback: client interpretation")
	}

	if err := builder.Execute(); err != nil {
		return nil, nil, errors.Wrap(err, "loopback: executing circuit")
	}

	for _, h := range serverHandles {
		v, err := builder.Result(h)
		if err != nil {
			return nil, nil, errors.Wrap(err, "loopback: server result")
		}
		serverOut = append(serverOut, v)
	}
	for _, h := range clientHandles {
		v, err := builder.Result(h)
		if err != nil {
			return nil, nil, errors.Wrap(err, "loopback: client result")
		}
		clientOut = append(clientOut, v)
	}
	return serverOut, clientOut, nil
}
