package pod

import (
	"fmt"
	"math/bits"
)

// OpCode identifies a derivation rule.
type OpCode uint8

const (
	OpNone OpCode = iota
	OpNewEntry
	OpCopyStatement
	OpEqualityFromEntries
	OpNonequalityFromEntries
	OpGtFromEntries
	OpTransitiveEquality
	OpGtToNonequality
	OpContainsFromEntries
	OpRenameContainedBy
	OpSumOf
	OpProductOf
	OpMaxOf
	OpLtFromEntries
	OpLtToNonequality

	// NumOpCodes is the number of rules.
	NumOpCodes = int(OpLtToNonequality) + 1
)

var opNames = [...]string{
	OpNone:                   "None",
	OpNewEntry:               "NewEntry",
	OpCopyStatement:          "CopyStatement",
	OpEqualityFromEntries:    "EqualityFromEntries",
	OpNonequalityFromEntries: "NonequalityFromEntries",
	OpGtFromEntries:          "GtFromEntries",
	OpTransitiveEquality:     "TransitiveEqualityFromStatements",
	OpGtToNonequality:        "GtToNonequality",
	OpContainsFromEntries:    "ContainsFromEntries",
	OpRenameContainedBy:      "RenameContainedBy",
	OpSumOf:                  "SumOf",
	OpProductOf:              "ProductOf",
	OpMaxOf:                  "MaxOf",
	OpLtFromEntries:          "LtFromEntries",
	OpLtToNonequality:        "LtToNonequality",
}

func (c OpCode) String() string {
	if int(c) < len(opNames) {
		return opNames[c]
	}
	return fmt.Sprintf("Op(%d)", uint8(c))
}

// OpCodeFromString parses the output of OpCode.String.
func OpCodeFromString(s string) (OpCode, error) {
	for c, name := range opNames {
		if name == s {
			return OpCode(c), nil
		}
	}
	return OpNone, fmt.Errorf("%w: unknown operation %q", ErrLookupMissing, s)
}

// Arity is the number of statement operands the rule consumes.
func (c OpCode) Arity() int {
	switch c {
	case OpNone, OpNewEntry:
		return 0
	case OpCopyStatement, OpGtToNonequality, OpLtToNonequality:
		return 1
	case OpSumOf, OpProductOf, OpMaxOf:
		return 3
	default:
		return 2
	}
}

// Namespace maps a POD name to its statements by label. The POD under
// construction lives under SelfName.
type Namespace map[string]map[string]Statement

// Contains reports whether st is stored in ns under any pod and label.
func (ns Namespace) Contains(st Statement) bool {
	for _, statements := range ns {
		for _, other := range statements {
			if other.Equal(st) {
				return true
			}
		}
	}
	return false
}

// StatementOrRef is an operand: a literal statement or a reference into a
// namespace.
type StatementOrRef interface {
	Resolve(ns Namespace) (Statement, error)
}

// Resolve returns the statement itself.
func (s Statement) Resolve(Namespace) (Statement, error) {
	return s, nil
}

// StatementRef points at the statement stored under Label in POD PodName.
type StatementRef struct {
	PodName string `json:"pod"`
	Label   string `json:"label"`
}

func NewStatementRef(podName, label string) StatementRef {
	return StatementRef{PodName: podName, Label: label}
}

func (r StatementRef) Resolve(ns Namespace) (Statement, error) {
	statements, ok := ns[r.PodName]
	if !ok {
		return Statement{}, fmt.Errorf("%w: pod %q", ErrLookupMissing, r.PodName)
	}
	st, ok := statements[r.Label]
	if !ok {
		return Statement{}, fmt.Errorf("%w: statement %q in pod %q", ErrLookupMissing, r.Label, r.PodName)
	}
	return st, nil
}

func (r StatementRef) String() string {
	return r.PodName + "." + r.Label
}

// Operation is a rule invocation. NewEntry carries an entry, every other
// rule carries Code.Arity() operands.
type Operation struct {
	Code     OpCode
	Operands []StatementOrRef
	Entry    *Entry
}

func NoOp() Operation {
	return Operation{Code: OpNone}
}

func NewEntryOp(e Entry) Operation {
	return Operation{Code: OpNewEntry, Entry: &e}
}

func CopyStatementOp(s StatementOrRef) Operation {
	return Operation{Code: OpCopyStatement, Operands: []StatementOrRef{s}}
}

func EqualityFromEntriesOp(a, b StatementOrRef) Operation {
	return Operation{Code: OpEqualityFromEntries, Operands: []StatementOrRef{a, b}}
}

func NonequalityFromEntriesOp(a, b StatementOrRef) Operation {
	return Operation{Code: OpNonequalityFromEntries, Operands: []StatementOrRef{a, b}}
}

func GtFromEntriesOp(a, b StatementOrRef) Operation {
	return Operation{Code: OpGtFromEntries, Operands: []StatementOrRef{a, b}}
}

func LtFromEntriesOp(a, b StatementOrRef) Operation {
	return Operation{Code: OpLtFromEntries, Operands: []StatementOrRef{a, b}}
}

func TransitiveEqualityOp(ab, cd StatementOrRef) Operation {
	return Operation{Code: OpTransitiveEquality, Operands: []StatementOrRef{ab, cd}}
}

func GtToNonequalityOp(gt StatementOrRef) Operation {
	return Operation{Code: OpGtToNonequality, Operands: []StatementOrRef{gt}}
}

func LtToNonequalityOp(lt StatementOrRef) Operation {
	return Operation{Code: OpLtToNonequality, Operands: []StatementOrRef{lt}}
}

func ContainsFromEntriesOp(set, elem StatementOrRef) Operation {
	return Operation{Code: OpContainsFromEntries, Operands: []StatementOrRef{set, elem}}
}

func RenameContainedByOp(contains, eq StatementOrRef) Operation {
	return Operation{Code: OpRenameContainedBy, Operands: []StatementOrRef{contains, eq}}
}

func SumOfOp(result, lhs, rhs StatementOrRef) Operation {
	return Operation{Code: OpSumOf, Operands: []StatementOrRef{result, lhs, rhs}}
}

func ProductOfOp(result, lhs, rhs StatementOrRef) Operation {
	return Operation{Code: OpProductOf, Operands: []StatementOrRef{result, lhs, rhs}}
}

func MaxOfOp(result, lhs, rhs StatementOrRef) Operation {
	return Operation{Code: OpMaxOf, Operands: []StatementOrRef{result, lhs, rhs}}
}

// OpCmd is an operation and the name its output is stored under.
type OpCmd struct {
	Op    Operation
	Label string
}

func NewOpCmd(op Operation, label string) OpCmd {
	return OpCmd{Op: op, Label: label}
}

// Execute resolves the operands in ns and applies the rule. Entries
// introduced by NewEntry are anchored to the SELF origin of gadget.
func (op Operation) Execute(gadget GadgetID, ns Namespace) (Statement, error) {
	if len(op.Operands) != op.Code.Arity() {
		return Statement{}, fmt.Errorf("%w: %s takes %d operands, got %d",
			ErrInputShape, op.Code, op.Code.Arity(), len(op.Operands))
	}
	operands := make([]Statement, len(op.Operands))
	for i, o := range op.Operands {
		st, err := o.Resolve(ns)
		if err != nil {
			return Statement{}, fmt.Errorf("%s operand %d: %w", op.Code, i, err)
		}
		// literal operands must already be known: an input statement or an
		// earlier output
		if _, isRef := o.(StatementRef); !isRef && !ns.Contains(st) {
			return Statement{}, fmt.Errorf("%w: %s operand %d %s is neither an input nor an earlier output",
				ErrLookupMissing, op.Code, i, st)
		}
		operands[i] = st
	}
	return op.Code.Apply(gadget, op.Entry, operands...)
}

// Apply runs the rule on literal operands. It never returns a statement
// whose precondition does not hold.
func (c OpCode) Apply(gadget GadgetID, entry *Entry, operands ...Statement) (Statement, error) {
	if len(operands) != c.Arity() {
		return Statement{}, fmt.Errorf("%w: %s takes %d operands, got %d",
			ErrInputShape, c, c.Arity(), len(operands))
	}
	switch c {
	case OpNone:
		return NoneStatement(), nil
	case OpNewEntry:
		if entry == nil {
			return Statement{}, fmt.Errorf("%w: NewEntry without entry", ErrInputShape)
		}
		return StatementFromEntry(*entry, gadget), nil
	case OpCopyStatement:
		return operands[0], nil
	case OpGtToNonequality, OpLtToNonequality:
		want := PredGt
		if c == OpLtToNonequality {
			want = PredLt
		}
		if err := expectPredicate(c, want, operands...); err != nil {
			return Statement{}, err
		}
		return NotEqual(operands[0].Keys[0], operands[0].Keys[1]), nil
	case OpTransitiveEquality:
		if err := expectPredicate(c, PredEqual, operands...); err != nil {
			return Statement{}, err
		}
		if !operands[0].Keys[1].Equal(operands[1].Keys[0]) {
			return Statement{}, fmt.Errorf("%w: %s does not chain %s and %s",
				ErrInvalidClaim, c, operands[0].Keys[1], operands[1].Keys[0])
		}
		return Equal(operands[0].Keys[0], operands[1].Keys[1]), nil
	case OpRenameContainedBy:
		if operands[0].Predicate != PredContains || operands[1].Predicate != PredEqual {
			return Statement{}, fmt.Errorf("%w: %s expects CONTAINS and EQUAL, got %s and %s",
				ErrInvalidClaim, c, operands[0].Predicate, operands[1].Predicate)
		}
		if !operands[0].Keys[0].Equal(operands[1].Keys[0]) {
			return Statement{}, fmt.Errorf("%w: %s and %s are different keys",
				ErrInvalidClaim, operands[0].Keys[0], operands[1].Keys[0])
		}
		return Contains(operands[1].Keys[1], operands[0].Keys[1]), nil
	}

	// every remaining rule consumes ValueOf statements
	if err := expectPredicate(c, PredValueOf, operands...); err != nil {
		return Statement{}, err
	}
	keys := make([]AnchoredKey, len(operands))
	values := make([]Value, len(operands))
	for i, o := range operands {
		keys[i], values[i] = o.Keys[0], o.Value
	}
	switch c {
	case OpEqualityFromEntries:
		if !values[0].Equal(values[1]) {
			return Statement{}, fmt.Errorf("%w: %s != %s", ErrInvalidClaim, values[0], values[1])
		}
		return Equal(keys[0], keys[1]), nil
	case OpNonequalityFromEntries:
		if values[0].Equal(values[1]) {
			return Statement{}, fmt.Errorf("%w: %s == %s", ErrInvalidClaim, values[0], values[1])
		}
		return NotEqual(keys[0], keys[1]), nil
	case OpContainsFromEntries:
		if values[0].Kind() != KindVector {
			return Statement{}, fmt.Errorf("%w: %s expects a vector, got %s", ErrTypeMismatch, c, values[0].Kind())
		}
		if !values[1].IsNumeric() {
			return Statement{}, fmt.Errorf("%w: %s expects a scalar, got %s", ErrTypeMismatch, c, values[1].Kind())
		}
		if !values[0].Contains(values[1].Field()) {
			return Statement{}, fmt.Errorf("%w: %s not in %s", ErrInvalidClaim, values[1], values[0])
		}
		return Contains(keys[0], keys[1]), nil
	}

	ints := make([]uint64, len(values))
	for i, v := range values {
		n, err := v.Uint64()
		if err != nil {
			return Statement{}, fmt.Errorf("%s operand %d: %w", c, i, err)
		}
		ints[i] = n
	}
	switch c {
	case OpGtFromEntries:
		if ints[0] <= ints[1] {
			return Statement{}, fmt.Errorf("%w: %d > %d", ErrInvalidClaim, ints[0], ints[1])
		}
		return Gt(keys[0], keys[1]), nil
	case OpLtFromEntries:
		if ints[0] >= ints[1] {
			return Statement{}, fmt.Errorf("%w: %d < %d", ErrInvalidClaim, ints[0], ints[1])
		}
		return Lt(keys[0], keys[1]), nil
	case OpSumOf:
		sum, carry := bits.Add64(ints[1], ints[2], 0)
		if carry != 0 || sum != ints[0] {
			return Statement{}, fmt.Errorf("%w: %d != %d + %d", ErrInvalidClaim, ints[0], ints[1], ints[2])
		}
		return SumOf(keys[0], keys[1], keys[2]), nil
	case OpProductOf:
		hi, lo := bits.Mul64(ints[1], ints[2])
		if hi != 0 || lo != ints[0] {
			return Statement{}, fmt.Errorf("%w: %d != %d * %d", ErrInvalidClaim, ints[0], ints[1], ints[2])
		}
		return ProductOf(keys[0], keys[1], keys[2]), nil
	case OpMaxOf:
		if ints[0] != max(ints[1], ints[2]) {
			return Statement{}, fmt.Errorf("%w: %d != max(%d, %d)", ErrInvalidClaim, ints[0], ints[1], ints[2])
		}
		return MaxOf(keys[0], keys[1], keys[2]), nil
	}
	return Statement{}, fmt.Errorf("%w: unknown operation %s", ErrInputShape, c)
}

func expectPredicate(c OpCode, want Predicate, operands ...Statement) error {
	for i, o := range operands {
		if o.Predicate != want {
			return fmt.Errorf("%w: %s operand %d must be %s, got %s", ErrInvalidClaim, c, i, want, o.Predicate)
		}
	}
	return nil
}
