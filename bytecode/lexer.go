// Package bytecode tokenises a single line of the textual MPC bytecode (§4.1)
// and classifies its opcode (§4.2), grounded on the teacher's asm/parser.go
// (text/scanner-based tokenizer) and vm/opcodes.go (opcode name table plus
// reverse index).
package bytecode

import "strings"

// Instruction is one decoded bytecode line: n_in n_out (in)* (out)* OP.
type Instruction struct {
	In  []string
	Out []string
	Op  Opcode
	// Callee is the function name captured from CALL(<name>) when Op ==
	// OpCall; empty otherwise.
	Callee string
	// Raw is the original opcode token, kept for error messages.
	Raw string
}

// Lex tokenises one bytecode line. Blank lines and lines with fewer than
// four tokens are skipped (ok == false, err == nil), per §4.1.
func Lex(line string) (ins Instruction, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Instruction{}, false, nil
	}
	nIn, err := parseCount(fields[0])
	if err != nil {
		return Instruction{}, false, err
	}
	nOut, err := parseCount(fields[1])
	if err != nil {
		return Instruction{}, false, err
	}
	need := 2 + nIn + nOut + 1
	if len(fields) < need {
		return Instruction{}, false, nil
	}
	in := fields[2 : 2+nIn]
	out := fields[2+nIn : 2+nIn+nOut]
	opTok := fields[2+nIn+nOut]

	op, callee, err := ParseOpcode(opTok)
	if err != nil {
		return Instruction{}, false, err
	}
	return Instruction{In: in, Out: out, Op: op, Callee: callee, Raw: opTok}, true, nil
}

func parseCount(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, &LexError{Token: s, Msg: "expected a non-negative integer count"}
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// LexError reports a malformed bytecode token (§7 Malformed bytecode).
type LexError struct {
	Token string
	Msg   string
}

func (e *LexError) Error() string {
	return "bytecode: " + e.Msg + ": " + e.Token
}
