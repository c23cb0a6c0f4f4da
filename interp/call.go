package interp

import (
	"github.com/pkg/errors"

	"github.com/aby-mpc/bytecode-interpreter/bytecode"
)

// dispatchCall implements §4.6: two fresh FIFOs are built — inputs, the
// concatenation of all handles bound to the caller's input names, and
// outputs, the caller's output wire names — and the callee's bytecode is
// recursively interpreted against the shared environment. At the end of
// processing, both FIFOs must be empty (§8 property 4); a mismatch is a
// fatal rewire underflow (§7).
func (in *Interpreter) dispatchCall(ins bytecode.Instruction) error {
	inputs := &HandleFifo{}
	for _, name := range ins.In {
		hs, err := in.lookup(name)
		if err != nil {
			return err
		}
		inputs.PushAll(hs)
	}
	outputs := &NameFifo{items: append([]string(nil), ins.Out...)}

	if _, err := in.Process(ins.Callee, inputs, outputs); err != nil {
		return errors.Wrapf(err, "CALL(%s)", ins.Callee)
	}

	if !inputs.Empty() || !outputs.Empty() {
		return fault(RewireUnderflow, "CALL(%s): %d input(s) and %d output(s) left unconsumed", ins.Callee, inputs.Len(), outputs.Len())
	}
	return nil
}
