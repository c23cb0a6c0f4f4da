package interp

import (
	"fmt"

	"github.com/pkg/errors"
)

// FaultKind is the single closed fault kind surfaced by the interpreter
// (§7 Error taxonomy). Every condition below aborts the run immediately;
// none are retried or logged-and-continued.
type FaultKind int

const (
	MalformedBytecode FaultKind = iota
	MissingFile
	MissingBinding
	UnsupportedDomain
	RewireUnderflow
)

func (k FaultKind) String() string {
	switch k {
	case MalformedBytecode:
		return "malformed bytecode"
	case MissingFile:
		return "missing file"
	case MissingBinding:
		return "missing binding"
	case UnsupportedDomain:
		return "unsupported domain"
	case RewireUnderflow:
		return "rewire underflow"
	default:
		return "fault"
	}
}

// Fault is the single fault kind the interpreter ever surfaces (DESIGN
// NOTES: "error conditions are surfaced as a single fault kind, not
// exceptions-as-control-flow").
type Fault struct {
	Kind FaultKind
	Msg  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func fault(kind FaultKind, format string, args ...interface{}) error {
	return errors.WithStack(&Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}
