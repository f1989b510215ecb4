// Package schnorr implements a deliberately weak Schnorr signature over the
// multiplicative subgroup of order q = 65537 of the Goldilocks field. It is
// a stand in for a real signature scheme: the recursion circuit knows how to
// verify it cheaply, but its security level is about 8 bits.
package schnorr

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

const (
	// GroupOrder is the prime order q of the signing subgroup.
	GroupOrder uint64 = 65537
	// BigGroupGen generates the whole multiplicative group of the field.
	BigGroupGen uint64 = 14293326489335486720
	// CofactorExp is (p-1)/q, the exponent that maps BigGroupGen to g.
	CofactorExp uint64 = (1 << 48) - (1 << 32)
	// MaxQuotient is the largest quotient of a canonical element by q.
	MaxQuotient = CofactorExp
	// SignatureSize is the serialized size of a signature.
	SignatureSize = 16
)

var (
	// Generator is g = BigGroupGen^((p-1)/q), of order q.
	Generator = field.Exp(field.New(BigGroupGen), CofactorExp)

	ErrInvalidSecretKey = errors.New("secret key out of range")
)

// SecretKey is an exponent in [0, q).
type SecretKey struct {
	Sk uint64
}

// PublicKey is g^-sk.
type PublicKey struct {
	Pk field.Element
}

// Signature is the pair (s, e), both in [0, q).
type Signature struct {
	S uint64 `json:"s"`
	E uint64 `json:"e"`
}

// NewSecretKey returns the secret key sk, failing if it is not in [0, q).
func NewSecretKey(sk uint64) (SecretKey, error) {
	if sk >= GroupOrder {
		return SecretKey{}, fmt.Errorf("%w: %d", ErrInvalidSecretKey, sk)
	}
	return SecretKey{Sk: sk}, nil
}

// GenerateSecretKey draws a uniform secret key from rng.
func GenerateSecretKey(rng io.Reader) (SecretKey, error) {
	k, err := randomExponent(rng)
	if err != nil {
		return SecretKey{}, err
	}
	return SecretKey{Sk: k}, nil
}

// PublicKey returns the public key of sk.
func (sk SecretKey) PublicKey() PublicKey {
	inv, err := field.Inverse(field.Exp(Generator, sk.Sk))
	if err != nil {
		// g^k is never zero
		panic(err)
	}
	return PublicKey{Pk: inv}
}

// Mod65537 returns the canonical representative of x reduced modulo q.
func Mod65537(x field.Element) uint64 {
	return x.Uint64() % GroupOrder
}

// HashInsecure is Poseidon(r || msg) reduced modulo q.
func HashInsecure(r field.Element, msg []field.Element) uint64 {
	inputs := make([]field.Element, 0, len(msg)+1)
	inputs = append(inputs, r)
	inputs = append(inputs, msg...)
	return Mod65537(poseidon.Hash(inputs...))
}

// Sign signs msg with sk using randomness from rng, or crypto/rand when rng
// is nil.
func Sign(msg []field.Element, sk SecretKey, rng io.Reader) (Signature, error) {
	if sk.Sk >= GroupOrder {
		return Signature{}, ErrInvalidSecretKey
	}
	if rng == nil {
		rng = rand.Reader
	}
	k, err := randomExponent(rng)
	if err != nil {
		return Signature{}, err
	}
	r := field.Exp(Generator, k)
	e := HashInsecure(r, msg)
	s := (k + sk.Sk*e) % GroupOrder
	return Signature{S: s, E: e}, nil
}

// Verify reports whether sig is a valid signature of msg under pk.
func Verify(sig Signature, msg []field.Element, pk PublicKey) bool {
	if sig.S >= GroupOrder || sig.E >= GroupOrder {
		return false
	}
	r := field.Mul(field.Exp(Generator, sig.S), field.Exp(pk.Pk, sig.E))
	return HashInsecure(r, msg) == sig.E
}

// Bytes returns s and e as big-endian u64s.
func (sig Signature) Bytes() []byte {
	b := make([]byte, SignatureSize)
	binary.BigEndian.PutUint64(b[:8], sig.S)
	binary.BigEndian.PutUint64(b[8:], sig.E)
	return b
}

// SignatureFromBytes decodes the output of Signature.Bytes.
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureSize {
		return Signature{}, fmt.Errorf("invalid signature length %d", len(b))
	}
	return Signature{
		S: binary.BigEndian.Uint64(b[:8]),
		E: binary.BigEndian.Uint64(b[8:]),
	}, nil
}

func randomExponent(rng io.Reader) (uint64, error) {
	k, err := rand.Int(rng, new(big.Int).SetUint64(GroupOrder))
	if err != nil {
		return 0, fmt.Errorf("random exponent: %w", err)
	}
	return k.Uint64(), nil
}
