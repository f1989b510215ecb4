// Package poseidon implements the Poseidon permutation over the Goldilocks
// field (width 12, rate 8, x^7 S-box, 8 full and 22 partial rounds) and the
// hashes built on top of it: the sponge hash, the domain separated string
// hash, the bytes-to-field hash and the Lean-IMT over field elements. It also
// keeps the BN254 Poseidon helpers used by the POD1 format.
//
// The MDS matrix is the circulant matrix used by plonky2 for this width. The
// round constants are derived from a SHA-256 counter stream over a fixed
// domain tag, so they are reproducible without shipping a table. The
// in-circuit gadget reads the same exported constants.
package poseidon

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/leanimt"
)

const (
	Width          = 12
	Rate           = 8
	HalfFullRounds = 4
	PartialRounds  = 22
	Rounds         = 2*HalfFullRounds + PartialRounds
	SboxDegree     = 7

	roundConstantsTag = "pod2-sandbox/poseidon/goldilocks/w12"
)

var (
	// MDSCirc is the first row of the circulant part of the MDS matrix.
	MDSCirc = [Width]uint64{17, 15, 41, 16, 2, 28, 13, 13, 39, 18, 34, 20}
	// MDSDiag is added to the diagonal of the circulant matrix.
	MDSDiag = [Width]uint64{8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	// RoundConstants holds Width constants per round, round by round.
	RoundConstants = deriveRoundConstants()

	mdsCirc, mdsDiag [Width]field.Element
	roundConstants   [Rounds * Width]field.Element
)

func init() {
	for i := 0; i < Width; i++ {
		mdsCirc[i] = field.New(MDSCirc[i])
		mdsDiag[i] = field.New(MDSDiag[i])
	}
	for i, rc := range RoundConstants {
		roundConstants[i] = field.New(rc)
	}
}

// deriveRoundConstants expands the domain tag with SHA-256 in counter mode
// and keeps the 64-bit big-endian words that are canonical field elements.
func deriveRoundConstants() [Rounds * Width]uint64 {
	var rcs [Rounds * Width]uint64
	var counter [4]byte
	for i, n := uint32(0), 0; n < len(rcs); i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		digest := sha256.Sum256(append([]byte(roundConstantsTag), counter[:]...))
		for j := 0; j+8 <= len(digest) && n < len(rcs); j += 8 {
			v := binary.BigEndian.Uint64(digest[j : j+8])
			if v >= field.Modulus {
				continue
			}
			rcs[n] = v
			n++
		}
	}
	return rcs
}

func sbox(x field.Element) field.Element {
	var x2, x4, x6, x7 field.Element
	x2.Square(&x)
	x4.Square(&x2)
	x6.Mul(&x4, &x2)
	x7.Mul(&x6, &x)
	return x7
}

func mds(state *[Width]field.Element) {
	var out [Width]field.Element
	for r := 0; r < Width; r++ {
		var acc, t field.Element
		for i := 0; i < Width; i++ {
			t.Mul(&state[(i+r)%Width], &mdsCirc[i])
			acc.Add(&acc, &t)
		}
		t.Mul(&state[r], &mdsDiag[r])
		acc.Add(&acc, &t)
		out[r] = acc
	}
	*state = out
}

func addRoundConstants(state *[Width]field.Element, round int) {
	for i := 0; i < Width; i++ {
		state[i].Add(&state[i], &roundConstants[round*Width+i])
	}
}

// Permute applies the Poseidon permutation to the state in place.
func Permute(state *[Width]field.Element) {
	round := 0
	for r := 0; r < HalfFullRounds; r++ {
		addRoundConstants(state, round)
		for i := 0; i < Width; i++ {
			state[i] = sbox(state[i])
		}
		mds(state)
		round++
	}
	for r := 0; r < PartialRounds; r++ {
		addRoundConstants(state, round)
		state[0] = sbox(state[0])
		mds(state)
		round++
	}
	for r := 0; r < HalfFullRounds; r++ {
		addRoundConstants(state, round)
		for i := 0; i < Width; i++ {
			state[i] = sbox(state[i])
		}
		mds(state)
		round++
	}
}

// Hash absorbs the inputs without padding, overwriting the first lanes of
// the state with each chunk of Rate elements before permuting, and returns
// the first element of the final state. Hash of no inputs is zero.
func Hash(inputs ...field.Element) field.Element {
	var state [Width]field.Element
	for start := 0; start < len(inputs); start += Rate {
		end := min(start+Rate, len(inputs))
		copy(state[:end-start], inputs[start:end])
		Permute(&state)
	}
	return state[0]
}

// StringToFields splits s into big-endian 32-bit words. The bytes are
// padded with 0x01 and zeros up to a multiple of four, and 0x80 is set on
// the last byte.
func StringToFields(s string) []field.Element {
	b := append([]byte(s), 0x01)
	for len(b)%4 != 0 {
		b = append(b, 0x00)
	}
	b[len(b)-1] |= 0x80
	res := make([]field.Element, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		res = append(res, field.New(uint64(binary.BigEndian.Uint32(b[i:i+4]))))
	}
	return res
}

// HashString maps a string into the field.
func HashString(s string) field.Element {
	return Hash(StringToFields(s)...)
}

// HashBytes hashes b with SHA-256 and reduces the first 248 bits of the
// digest into the field.
func HashBytes(b []byte) field.Element {
	digest := sha256.Sum256(b)
	return field.FromBigInt(new(big.Int).SetBytes(digest[:31]))
}

// Pair hashes two elements, the node function of the Lean-IMT.
func Pair(left, right field.Element) (field.Element, error) {
	return Hash(left, right), nil
}

// LeanIMT returns the Lean-IMT root of the leaves.
func LeanIMT(leaves []field.Element) (field.Element, error) {
	return leanimt.Root(leaves, Pair)
}
