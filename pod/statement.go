package pod

import (
	"fmt"
	"strings"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
)

// Predicate is the code of a statement.
type Predicate uint8

const (
	PredNone Predicate = iota
	PredValueOf
	PredEqual
	PredNotEqual
	PredGt
	PredContains
	PredSumOf
	PredProductOf
	PredMaxOf
	PredLt
)

var predicateNames = map[Predicate]string{
	PredNone:      "NONE",
	PredValueOf:   "VALUEOF",
	PredEqual:     "EQUAL",
	PredNotEqual:  "NOTEQUAL",
	PredGt:        "GT",
	PredLt:        "LT",
	PredContains:  "CONTAINS",
	PredSumOf:     "SUMOF",
	PredProductOf: "PRODUCTOF",
	PredMaxOf:     "MAXOF",
}

func (p Predicate) String() string {
	if name, ok := predicateNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PREDICATE(%d)", uint8(p))
}

// PredicateFromString parses a predicate name.
func PredicateFromString(s string) (Predicate, error) {
	for p, name := range predicateNames {
		if name == s {
			return p, nil
		}
	}
	return PredNone, fmt.Errorf("%w: unknown predicate %q", ErrLookupMissing, s)
}

// Arity is the number of anchored keys of the predicate.
func (p Predicate) Arity() int {
	switch p {
	case PredNone:
		return 0
	case PredValueOf:
		return 1
	case PredSumOf, PredProductOf, PredMaxOf:
		return 3
	default:
		return 2
	}
}

// Statement field layout.
const (
	StatementFields = 1 + 3*(OriginFields+1) + 1
	StatementBytes  = StatementFields * field.Bytes

	codeIndex  = 0
	valueIndex = StatementFields - 1
)

// KeyIndex returns the position of the i-th key hash in the encoding. The
// origin of that key occupies the OriginFields positions before it.
func KeyIndex(i int) int {
	return 1 + i*(OriginFields+1) + OriginFields
}

// Statement is a typed assertion over up to three anchored keys. Only
// ValueOf carries a value.
type Statement struct {
	Predicate Predicate
	Keys      []AnchoredKey
	Value     Value
}

// Label is the payload label of a statement emitted under name.
func Label(p Predicate, name string) string {
	return p.String() + ":" + name
}

func NoneStatement() Statement {
	return Statement{Predicate: PredNone}
}

func ValueOf(ak AnchoredKey, v Value) Statement {
	return Statement{Predicate: PredValueOf, Keys: []AnchoredKey{ak}, Value: v}
}

func Equal(a, b AnchoredKey) Statement {
	return Statement{Predicate: PredEqual, Keys: []AnchoredKey{a, b}}
}

func NotEqual(a, b AnchoredKey) Statement {
	return Statement{Predicate: PredNotEqual, Keys: []AnchoredKey{a, b}}
}

func Gt(a, b AnchoredKey) Statement {
	return Statement{Predicate: PredGt, Keys: []AnchoredKey{a, b}}
}

func Lt(a, b AnchoredKey) Statement {
	return Statement{Predicate: PredLt, Keys: []AnchoredKey{a, b}}
}

// Contains states that the vector at set contains the scalar at elem.
func Contains(set, elem AnchoredKey) Statement {
	return Statement{Predicate: PredContains, Keys: []AnchoredKey{set, elem}}
}

func SumOf(result, lhs, rhs AnchoredKey) Statement {
	return Statement{Predicate: PredSumOf, Keys: []AnchoredKey{result, lhs, rhs}}
}

func ProductOf(result, lhs, rhs AnchoredKey) Statement {
	return Statement{Predicate: PredProductOf, Keys: []AnchoredKey{result, lhs, rhs}}
}

func MaxOf(result, lhs, rhs AnchoredKey) Statement {
	return Statement{Predicate: PredMaxOf, Keys: []AnchoredKey{result, lhs, rhs}}
}

// StatementFromEntry is ValueOf((SELF, key), value) for the given gadget.
func StatementFromEntry(e Entry, gadget GadgetID) Statement {
	return ValueOf(NewAnchoredKey(SelfOrigin(gadget), e.Key), e.Value)
}

// Key returns the i-th anchored key.
func (s Statement) Key(i int) (AnchoredKey, error) {
	if i >= len(s.Keys) {
		return AnchoredKey{}, fmt.Errorf("%w: %s has no key %d", ErrTypeMismatch, s.Predicate, i)
	}
	return s.Keys[i], nil
}

// Fields encodes the statement as
// [code, origin1, key1, origin2, key2, origin3, key3, value].
func (s Statement) Fields() [StatementFields]field.Element {
	var out [StatementFields]field.Element
	out[codeIndex] = field.New(uint64(s.Predicate))
	for i, ak := range s.Keys {
		origin := ak.Origin.Fields()
		copy(out[KeyIndex(i)-OriginFields:], origin[:])
		out[KeyIndex(i)] = ak.KeyHash()
	}
	if s.Predicate == PredValueOf {
		out[valueIndex] = s.Value.Field()
	}
	return out
}

// ToBytes serializes the encoding as big-endian elements.
func (s Statement) ToBytes() []byte {
	fields := s.Fields()
	b := make([]byte, 0, StatementBytes)
	for _, f := range fields {
		fb := field.ToBytes(f)
		b = append(b, fb[:]...)
	}
	return b
}

// Equal compares predicates, anchored keys by origin id and key, and values
// by their encoding.
func (s Statement) Equal(other Statement) bool {
	if s.Predicate != other.Predicate || len(s.Keys) != len(other.Keys) {
		return false
	}
	for i := range s.Keys {
		if !s.Keys[i].Equal(other.Keys[i]) {
			return false
		}
	}
	return s.Predicate != PredValueOf || s.Value.Equal(other.Value)
}

// RemapOrigins rewrites the origin of every anchored key with fn.
func (s Statement) RemapOrigins(fn func(Origin) (Origin, error)) (Statement, error) {
	out := Statement{Predicate: s.Predicate, Value: s.Value}
	for _, ak := range s.Keys {
		origin, err := fn(ak.Origin)
		if err != nil {
			return Statement{}, err
		}
		out.Keys = append(out.Keys, NewAnchoredKey(origin, ak.Key))
	}
	return out, nil
}

func (s Statement) String() string {
	keys := make([]string, len(s.Keys))
	for i, ak := range s.Keys {
		keys[i] = ak.String()
	}
	switch s.Predicate {
	case PredNone:
		return "None"
	case PredValueOf:
		return fmt.Sprintf("ValueOf(%s = %s)", keys[0], s.Value)
	case PredEqual:
		return fmt.Sprintf("Equal(%s = %s)", keys[0], keys[1])
	case PredNotEqual:
		return fmt.Sprintf("NotEqual(%s ≠ %s)", keys[0], keys[1])
	case PredGt:
		return fmt.Sprintf("Gt(%s > %s)", keys[0], keys[1])
	case PredLt:
		return fmt.Sprintf("Lt(%s < %s)", keys[0], keys[1])
	case PredContains:
		return fmt.Sprintf("Contains(%s ∋ %s)", keys[0], keys[1])
	case PredSumOf:
		return fmt.Sprintf("SumOf(%s = %s + %s)", keys[0], keys[1], keys[2])
	case PredProductOf:
		return fmt.Sprintf("ProductOf(%s = %s × %s)", keys[0], keys[1], keys[2])
	case PredMaxOf:
		return fmt.Sprintf("MaxOf(%s = max(%s, %s))", keys[0], keys[1], keys[2])
	}
	return s.Predicate.String() + "(" + strings.Join(keys, ", ") + ")"
}
