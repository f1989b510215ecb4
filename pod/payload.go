package pod

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

// LabeledStatement is a payload slot.
type LabeledStatement struct {
	Label     string
	Statement Statement
}

// Payload is the list of statements of a POD ordered by label.
type Payload []LabeledStatement

// NewPayload sorts the statements by label. Labels must be unique.
func NewPayload(statements map[string]Statement) Payload {
	p := make(Payload, 0, len(statements))
	for label, st := range statements {
		p = append(p, LabeledStatement{Label: label, Statement: st})
	}
	slices.SortFunc(p, func(a, b LabeledStatement) int {
		return strings.Compare(a.Label, b.Label)
	})
	return p
}

// Pad appends None statements labeled prefix+i up to size.
func (p Payload) Pad(size int, prefix string) (Payload, error) {
	if len(p) > size {
		return nil, fmt.Errorf("%w: %d statements, max %d", ErrInputShape, len(p), size)
	}
	out := slices.Clone(p)
	for i := len(p); i < size; i++ {
		out = append(out, LabeledStatement{Label: fmt.Sprintf("%s%d", prefix, i), Statement: NoneStatement()})
	}
	return out, nil
}

// Lookup returns the statement stored under label.
func (p Payload) Lookup(label string) (Statement, bool) {
	for _, ls := range p {
		if ls.Label == label {
			return ls.Statement, true
		}
	}
	return Statement{}, false
}

// Map returns the payload indexed by label.
func (p Payload) Map() map[string]Statement {
	m := make(map[string]Statement, len(p))
	for _, ls := range p {
		m[ls.Label] = ls.Statement
	}
	return m
}

func (p Payload) Statements() []Statement {
	out := make([]Statement, len(p))
	for i, ls := range p {
		out[i] = ls.Statement
	}
	return out
}

// Fields concatenates the statement encodings in payload order.
func (p Payload) Fields() []field.Element {
	out := make([]field.Element, 0, len(p)*StatementFields)
	for _, ls := range p {
		fields := ls.Statement.Fields()
		out = append(out, fields[:]...)
	}
	return out
}

// ContentID is the Poseidon hash of Fields.
func (p Payload) ContentID() field.Element {
	return poseidon.Hash(p.Fields()...)
}

// ToBytes concatenates the statement wire encodings.
func (p Payload) ToBytes() []byte {
	b := make([]byte, 0, len(p)*StatementBytes)
	for _, ls := range p {
		b = append(b, ls.Statement.ToBytes()...)
	}
	return b
}
