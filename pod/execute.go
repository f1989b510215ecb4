package pod

import (
	"fmt"
	"slices"
	"strings"
)

// DummyOutputPrefix labels the None operations that pad an op list.
const DummyOutputPrefix = "_DUMMYOUT"

// Execution is the outcome of running an op list over a GPG input.
type Execution struct {
	// Ops is the op list padded to NS.
	Ops []OpCmd
	// Outputs holds the statement emitted by each op, in op order, under
	// its payload label.
	Outputs []LabeledStatement
	// Payload is Outputs sorted by label.
	Payload Payload
}

// PadOps pads ops to ns entries with None operations.
func PadOps(ops []OpCmd, ns int) ([]OpCmd, error) {
	if len(ops) > ns {
		return nil, fmt.Errorf("%w: %d operations, max %d", ErrInputShape, len(ops), ns)
	}
	out := slices.Clone(ops)
	for i := len(ops); i < ns; i++ {
		out = append(out, NewOpCmd(NoOp(), fmt.Sprintf("%s%d", DummyOutputPrefix, i)))
	}
	return out, nil
}

// ExecuteOps runs the op list over the remapped namespace of gpg. Emitted
// statements become visible to later ops under _SELF.
func ExecuteOps(params Params, gpg *GPGInput, ops []OpCmd, gadget GadgetID) (*Execution, error) {
	padded, err := PadOps(ops, params.NS)
	if err != nil {
		return nil, err
	}
	ns, err := gpg.RemapOriginIDsByName()
	if err != nil {
		return nil, err
	}
	self := make(map[string]Statement, params.NS)
	ns[SelfName] = self

	exec := &Execution{Ops: padded, Outputs: make([]LabeledStatement, 0, len(padded))}
	for i, cmd := range padded {
		op := cmd.Op
		if op.Entry != nil {
			value, err := op.Entry.Value.Resize(params.VL)
			if err != nil {
				return nil, fmt.Errorf("op %d (%s): %w", i, cmd.Label, err)
			}
			op.Entry = &Entry{Key: op.Entry.Key, Value: value}
		}
		st, err := op.Execute(gadget, ns)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, cmd.Label, err)
		}
		label := Label(st.Predicate, cmd.Label)
		if _, ok := self[label]; ok {
			return nil, fmt.Errorf("%w: duplicated output label %q", ErrInputShape, label)
		}
		self[label] = st
		exec.Outputs = append(exec.Outputs, LabeledStatement{Label: label, Statement: st})
	}
	exec.Payload = NewPayload(self)
	return exec, nil
}

// Slots returns, for each op, the payload position of its output.
func (e *Execution) Slots() []int {
	slots := make([]int, len(e.Outputs))
	for i, out := range e.Outputs {
		slots[i], _ = slices.BinarySearchFunc(e.Payload, out.Label, func(ls LabeledStatement, label string) int {
			return strings.Compare(ls.Label, label)
		})
	}
	return slots
}
