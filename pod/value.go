package pod

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindScalar ValueKind = iota
	KindVector
	KindBool
	KindBytes
	KindString
	KindDate
	KindPoint
	KindNull
)

var kindNames = [...]string{
	KindScalar: "scalar",
	KindVector: "vector",
	KindBool:   "bool",
	KindBytes:  "bytes",
	KindString: "string",
	KindDate:   "date",
	KindPoint:  "point",
	KindNull:   "null",
}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindFromString parses the output of ValueKind.String.
func KindFromString(s string) (ValueKind, error) {
	for k, name := range kindNames {
		if name == s {
			return ValueKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown value kind %q", ErrTypeMismatch, s)
}

// NullHash is the hash of the Null value.
var NullHash = field.New(0x1d1d1d1d1d1d1d1d)

// Value is the tagged union of entry values. The zero Value is Scalar(0).
type Value struct {
	kind   ValueKind
	scalar field.Element
	vector []field.Element
	data   []byte
	date   int64
	x, y   field.Element
}

// Scalar returns a scalar value.
func Scalar(v field.Element) Value {
	return Value{kind: KindScalar, scalar: v}
}

// ScalarUint64 returns a scalar value, reducing v into the field.
func ScalarUint64(v uint64) Value {
	return Scalar(field.New(v))
}

// Bool returns true as 1 and false as 0.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.scalar = field.One()
	}
	return v
}

// Vector returns a vector value padded to vl limbs by repeating the last
// element. Vectors must have between one and vl elements.
func Vector(vl int, limbs ...field.Element) (Value, error) {
	if len(limbs) == 0 {
		return Value{}, fmt.Errorf("%w: empty vector", ErrInputShape)
	}
	if len(limbs) > vl {
		return Value{}, fmt.Errorf("%w: %d elements, max %d", ErrVectorTooLong, len(limbs), vl)
	}
	padded := make([]field.Element, vl)
	copy(padded, limbs)
	for i := len(limbs); i < vl; i++ {
		padded[i] = limbs[len(limbs)-1]
	}
	return Value{kind: KindVector, vector: padded}, nil
}

// Resize pads a vector to vl limbs by repeating its last element. Other
// kinds are returned unchanged.
func (v Value) Resize(vl int) (Value, error) {
	if v.kind != KindVector || len(v.vector) == vl {
		return v, nil
	}
	return Vector(vl, v.vector...)
}

// VectorUint64 is Vector over uint64 limbs.
func VectorUint64(vl int, limbs ...uint64) (Value, error) {
	elems := make([]field.Element, len(limbs))
	for i, l := range limbs {
		elems[i] = field.New(l)
	}
	return Vector(vl, elems...)
}

func Bytes(b []byte) Value {
	return Value{kind: KindBytes, data: bytes.Clone(b)}
}

func String(s string) Value {
	return Value{kind: KindString, data: []byte(s)}
}

// Date stores t with millisecond precision.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t.UnixMilli()}
}

// DateMillis returns a date from unix milliseconds.
func DateMillis(ms int64) Value {
	return Value{kind: KindDate, date: ms}
}

// Point is a compressed curve point given by its coordinates.
func Point(x, y field.Element) Value {
	return Value{kind: KindPoint, x: x, y: y}
}

func Null() Value {
	return Value{kind: KindNull}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNumeric reports whether v can be an operand of ordering and arithmetic
// rules.
func (v Value) IsNumeric() bool {
	return v.kind == KindScalar || v.kind == KindBool
}

// Uint64 returns the canonical integer of a scalar or bool.
func (v Value) Uint64() (uint64, error) {
	if !v.IsNumeric() {
		return 0, fmt.Errorf("%w: %s is not numeric", ErrTypeMismatch, v.kind)
	}
	return v.scalar.Uint64(), nil
}

// Limbs returns the vector limbs. Scalars lift to [v, 0, v, v, ...] and any
// other kind lifts its Field representation the same way.
func (v Value) Limbs(vl int) []field.Element {
	if v.kind == KindVector {
		return append([]field.Element(nil), v.vector...)
	}
	return LiftScalar(v.Field(), vl)
}

// LiftScalar returns [s, 0, s, s, ...] of length vl.
func LiftScalar(s field.Element, vl int) []field.Element {
	limbs := make([]field.Element, vl)
	for i := range limbs {
		if i != 1 {
			limbs[i] = s
		}
	}
	return limbs
}

// Contains reports whether x is one of the vector limbs.
func (v Value) Contains(x field.Element) bool {
	for _, l := range v.vector {
		if l.Equal(&x) {
			return true
		}
	}
	return false
}

// Hash returns the hash of the value.
func (v Value) Hash() field.Element {
	switch v.kind {
	case KindScalar, KindBool:
		return poseidon.Hash(v.scalar)
	case KindVector:
		root, err := poseidon.LeanIMT(v.vector)
		if err != nil {
			// vectors are never empty once constructed
			panic(err)
		}
		return root
	case KindBytes, KindString:
		return poseidon.HashBytes(v.data)
	case KindDate:
		return poseidon.Hash(field.FromInt64(v.date))
	case KindPoint:
		return poseidon.Hash(v.x, v.y)
	default:
		return NullHash
	}
}

// Field is the value slot of a ValueOf statement: the raw element for
// scalars and bools, the hash for every other kind.
func (v Value) Field() field.Element {
	if v.IsNumeric() {
		return v.scalar
	}
	return v.Hash()
}

// Equal compares the statement encodings of both values, so Bool(true)
// equals ScalarUint64(1).
func (v Value) Equal(other Value) bool {
	a, b := v.Field(), other.Field()
	return a.Equal(&b)
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return v.scalar.String()
	case KindBool:
		return fmt.Sprintf("%t", v.scalar.IsOne())
	case KindVector:
		limbs := make([]string, len(v.vector))
		for i := range v.vector {
			limbs[i] = v.vector[i].String()
		}
		return "[" + strings.Join(limbs, ", ") + "]"
	case KindBytes:
		return fmt.Sprintf("0x%x", v.data)
	case KindString:
		return fmt.Sprintf("%q", v.data)
	case KindDate:
		return time.UnixMilli(v.date).UTC().Format(time.RFC3339Nano)
	case KindPoint:
		return fmt.Sprintf("(%s, %s)", v.x.String(), v.y.String())
	default:
		return "null"
	}
}

// Entry is a key and its value.
type Entry struct {
	Key   string
	Value Value
}

func NewEntry(key string, value Value) Entry {
	return Entry{Key: key, Value: value}
}

// Fields returns [hash_string(key), hash(value)].
func (e Entry) Fields() [2]field.Element {
	return [2]field.Element{poseidon.HashString(e.Key), e.Value.Hash()}
}
