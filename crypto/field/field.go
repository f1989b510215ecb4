// Package field exposes the Goldilocks prime field (p = 2^64 - 2^32 + 1) in
// which every POD key, origin id, predicate code and scalar value lives. The
// arithmetic is provided by gnark-crypto; this package adds the canonical
// conversions and the checked operations used across the repository.
package field

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// Element is a Goldilocks field element.
type Element = goldilocks.Element

const (
	// Modulus is the Goldilocks prime.
	Modulus uint64 = 0xFFFFFFFF00000001
	// Bytes is the size of a serialized element.
	Bytes = 8
)

var (
	// ErrDivisionByZero is returned when inverting the zero element.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNonCanonical is returned when decoding a value outside [0, p).
	ErrNonCanonical = errors.New("non canonical field element")
)

// New returns the element v mod p.
func New(v uint64) Element {
	if v >= Modulus {
		v -= Modulus
	}
	var e Element
	e.SetUint64(v)
	return e
}

// FromInt64 returns the element v mod p, mapping negative values to p - |v|.
func FromInt64(v int64) Element {
	var e Element
	e.SetInt64(v)
	return e
}

// FromBigInt returns the element b mod p.
func FromBigInt(b *big.Int) Element {
	var e Element
	e.SetBigInt(b)
	return e
}

func Zero() Element {
	return Element{}
}

func One() Element {
	return New(1)
}

// Uint64 returns the canonical representative of e.
func Uint64(e Element) uint64 {
	return e.Uint64()
}

// BigInt returns the canonical representative of e as a big.Int.
func BigInt(e Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// Add returns a + b.
func Add(a, b Element) Element {
	var r Element
	r.Add(&a, &b)
	return r
}

// Sub returns a - b.
func Sub(a, b Element) Element {
	var r Element
	r.Sub(&a, &b)
	return r
}

// Mul returns a * b.
func Mul(a, b Element) Element {
	var r Element
	r.Mul(&a, &b)
	return r
}

// Exp returns x^k.
func Exp(x Element, k uint64) Element {
	var r Element
	r.Exp(x, new(big.Int).SetUint64(k))
	return r
}

// Inverse returns 1/x or ErrDivisionByZero if x is zero.
func Inverse(x Element) (Element, error) {
	if x.IsZero() {
		return Element{}, ErrDivisionByZero
	}
	var r Element
	r.Inverse(&x)
	return r, nil
}

// Div returns a / b or ErrDivisionByZero if b is zero.
func Div(a, b Element) (Element, error) {
	inv, err := Inverse(b)
	if err != nil {
		return Element{}, err
	}
	return Mul(a, inv), nil
}

// ToBytes returns the big-endian encoding of the canonical form of e.
func ToBytes(e Element) [Bytes]byte {
	var b [Bytes]byte
	binary.BigEndian.PutUint64(b[:], e.Uint64())
	return b
}

// FromBytes decodes a big-endian canonical element.
func FromBytes(b []byte) (Element, error) {
	if len(b) != Bytes {
		return Element{}, fmt.Errorf("invalid field element length %d", len(b))
	}
	v := binary.BigEndian.Uint64(b)
	if v >= Modulus {
		return Element{}, fmt.Errorf("%w: %d", ErrNonCanonical, v)
	}
	return New(v), nil
}

// FromCanonical returns the element for v, failing if v is not in [0, p).
func FromCanonical(v uint64) (Element, error) {
	if v >= Modulus {
		return Element{}, fmt.Errorf("%w: %d", ErrNonCanonical, v)
	}
	return New(v), nil
}

// Uint64s returns the canonical representatives of a slice of elements.
func Uint64s(v []Element) []uint64 {
	res := make([]uint64, len(v))
	for i := range v {
		res[i] = v[i].Uint64()
	}
	return res
}

// FromUint64s is the inverse of Uint64s, failing on non canonical values.
func FromUint64s(v []uint64) ([]Element, error) {
	res := make([]Element, len(v))
	for i := range v {
		e, err := FromCanonical(v[i])
		if err != nil {
			return nil, err
		}
		res[i] = e
	}
	return res, nil
}
