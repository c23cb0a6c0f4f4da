// Command abyc runs one party's side of an MPC bytecode program (or, in
// loopback mode, both parties against one shared circuit): it loads
// a program directory, interprets its bytecode into a circuit, executes
// that circuit, and prints declassified results. Grounded on the
// teacher's cmd/retro/main.go CLI shape, rebuilt on Cobra/pflag the way
// the pack's CLI examples (oisee-z80-optimizer, go-dws) structure a
// flag-driven root command instead of the teacher's stdlib flag package.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aby-mpc/bytecode-interpreter/circuit"
	"github.com/aby-mpc/bytecode-interpreter/driver"
	"github.com/aby-mpc/bytecode-interpreter/program"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "abyc:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		mode     string
		roleFlag string
		dir      string
		testPath string
		address  string
		port     uint16
		dump     bool
	)

	cmd := &cobra.Command{
		Use:   "abyc",
		Short: "interpret MPC bytecode into a circuit and execute it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dump {
				return runDump(dir)
			}

			role, err := parseRole(roleFlag)
			if err != nil {
				return err
			}

			switch mode {
			case "single":
				return driver.Run(driver.Config{Dir: dir, TestPath: testPath, Role: role}, cmd.OutOrStdout())
			case "loopback":
				serverOut, clientOut, err := driver.RunLoopback(dir, testPath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "server:", serverOut)
				fmt.Fprintln(cmd.OutOrStdout(), "client:", clientOut)
				return nil
			default:
				return errors.Errorf("unknown mode %q (want single or loopback)", mode)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&mode, "mode", "m", "single", "run mode: single or loopback")
	flags.StringVarP(&roleFlag, "role", "r", "server", "party role: server, client, or public")
	flags.StringVarP(&dir, "file", "f", ".", "program directory")
	flags.StringVarP(&testPath, "test", "t", "", "test-input file")
	flags.StringVarP(&address, "address", "a", "127.0.0.1", "peer address (accepted but not used by either mode)")
	flags.Uint16VarP(&port, "port", "p", 7766, "peer port (accepted but not used by either mode)")
	flags.BoolVar(&dump, "dump", false, "disassemble the program's bytecode files instead of running them")

	return cmd
}

func parseRole(s string) (circuit.Role, error) {
	switch s {
	case "server":
		return circuit.Server, nil
	case "client":
		return circuit.Client, nil
	case "public":
		return circuit.Public, nil
	default:
		return 0, errors.Errorf("unknown role %q (want server, client, or public)", s)
	}
}

func runDump(dir string) error {
	layout := program.NewLayout(dir)
	fns, err := program.Functions(dir)
	if err != nil {
		return err
	}
	for _, fn := range fns {
		lines, err := os.ReadFile(layout.BytecodePath(fn))
		if err != nil {
			return errors.Wrapf(err, "dump: reading %s", fn)
		}
		fmt.Printf("; function %s\n", fn)
		fmt.Print(string(lines))
		fmt.Println()
	}
	return nil
}
