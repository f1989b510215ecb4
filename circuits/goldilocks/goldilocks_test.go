package goldilocks

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
)

type arithCircuit struct {
	A, B       frontend.Variable
	Sum, Diff  frontend.Variable `gnark:",public"`
	Prod       frontend.Variable `gnark:",public"`
	AGtB, BGtA frontend.Variable `gnark:",public"`
	AMod, BMod frontend.Variable `gnark:",public"`
}

func (c *arithCircuit) Define(api frontend.API) error {
	gl := New(api)
	gl.AssertCanonical(c.A)
	gl.AssertCanonical(c.B)
	api.AssertIsEqual(gl.Add(c.A, c.B), c.Sum)
	api.AssertIsEqual(gl.Sub(c.A, c.B), c.Diff)
	api.AssertIsEqual(gl.Mul(c.A, c.B), c.Prod)
	api.AssertIsEqual(gl.Gt(c.A, c.B), c.AGtB)
	api.AssertIsEqual(gl.Gt(c.B, c.A), c.BGtA)
	api.AssertIsEqual(gl.Mod65537(c.A), c.AMod)
	api.AssertIsEqual(gl.Mod65537(c.B), c.BMod)
	return nil
}

func arithAssignment(a, b uint64) *arithCircuit {
	ea, eb := field.New(a), field.New(b)
	gt := func(x, y uint64) int {
		if x > y {
			return 1
		}
		return 0
	}
	return &arithCircuit{
		A: a, B: b,
		Sum:  field.Uint64(field.Add(ea, eb)),
		Diff: field.Uint64(field.Sub(ea, eb)),
		Prod: field.Uint64(field.Mul(ea, eb)),
		AGtB: gt(a, b), BGtA: gt(b, a),
		AMod: schnorr.Mod65537(ea), BMod: schnorr.Mod65537(eb),
	}
}

func TestArithmetic(t *testing.T) {
	c := qt.New(t)
	for _, tc := range [][2]uint64{
		{0, 0},
		{1, 2},
		{field.Modulus - 1, field.Modulus - 1},
		{field.Modulus - 1, 3},
		{1 << 63, 1 << 32},
		{65537 * 12345, 65536},
		// largest quotient: (p-1)/65537 with remainder 0
		{field.Modulus - 1, field.Modulus - 2},
	} {
		err := test.IsSolved(&arithCircuit{}, arithAssignment(tc[0], tc[1]), ecc.BN254.ScalarField())
		c.Assert(err, qt.IsNil, qt.Commentf("a=%d b=%d", tc[0], tc[1]))
	}

	// a non canonical input must not satisfy the circuit
	bad := arithAssignment(5, 7)
	bad.A = field.Modulus + 5
	c.Assert(test.IsSolved(&arithCircuit{}, bad, ecc.BN254.ScalarField()), qt.IsNotNil)

	// neither does a wrong comparison
	bad = arithAssignment(5, 7)
	bad.BGtA = 0
	c.Assert(test.IsSolved(&arithCircuit{}, bad, ecc.BN254.ScalarField()), qt.IsNotNil)
}

type hashCircuit struct {
	Inputs [10]frontend.Variable
	Hash   frontend.Variable `gnark:",public"`
	Pair   frontend.Variable `gnark:",public"`
	Root   frontend.Variable `gnark:",public"`
}

func (c *hashCircuit) Define(api frontend.API) error {
	gl := New(api)
	api.AssertIsEqual(gl.Hash(c.Inputs[:]...), c.Hash)
	api.AssertIsEqual(gl.Hash(c.Inputs[0], c.Inputs[1]), c.Pair)
	root, err := gl.LeanIMT(c.Inputs[:3])
	if err != nil {
		return err
	}
	api.AssertIsEqual(root, c.Root)
	return nil
}

func TestPoseidon(t *testing.T) {
	c := qt.New(t)

	inputs := make([]field.Element, 10)
	assignment := &hashCircuit{}
	for i := range inputs {
		inputs[i] = field.New(uint64(i) * 0x1234567)
		assignment.Inputs[i] = field.Uint64(inputs[i])
	}
	root, err := poseidon.LeanIMT(inputs[:3])
	c.Assert(err, qt.IsNil)
	assignment.Hash = field.Uint64(poseidon.Hash(inputs...))
	assignment.Pair = field.Uint64(poseidon.Hash(inputs[0], inputs[1]))
	assignment.Root = field.Uint64(root)

	c.Assert(test.IsSolved(&hashCircuit{}, assignment, ecc.BN254.ScalarField()), qt.IsNil)

	assignment.Hash = field.Uint64(poseidon.Hash(inputs[:9]...))
	c.Assert(test.IsSolved(&hashCircuit{}, assignment, ecc.BN254.ScalarField()), qt.IsNotNil)
}

type schnorrCircuit struct {
	Sig   Signature
	Msg   [2]frontend.Variable
	Pk    frontend.Variable
	Valid frontend.Variable `gnark:",public"`
}

func (c *schnorrCircuit) Define(api frontend.API) error {
	gl := New(api)
	api.AssertIsEqual(gl.VerifySchnorr(c.Sig, c.Msg[:], c.Pk), c.Valid)
	return nil
}

func TestVerifySchnorr(t *testing.T) {
	c := qt.New(t)

	sk, err := schnorr.NewSecretKey(1422)
	c.Assert(err, qt.IsNil)
	msg := []field.Element{field.New(42), field.New(7)}
	sig, err := schnorr.Sign(msg, sk, bytes.NewReader([]byte{0x00, 0x12, 0x34}))
	c.Assert(err, qt.IsNil)

	assignment := &schnorrCircuit{
		Sig:   SignatureValue(sig),
		Msg:   [2]frontend.Variable{42, 7},
		Pk:    field.Uint64(sk.PublicKey().Pk),
		Valid: 1,
	}
	c.Assert(test.IsSolved(&schnorrCircuit{}, assignment, ecc.BN254.ScalarField()), qt.IsNil)

	// a different message flips the result without breaking the circuit
	assignment.Msg[1] = 8
	assignment.Valid = 0
	c.Assert(test.IsSolved(&schnorrCircuit{}, assignment, ecc.BN254.ScalarField()), qt.IsNil)

	// exponents outside the subgroup order are rejected
	assignment.Sig.S = schnorr.GroupOrder
	c.Assert(test.IsSolved(&schnorrCircuit{}, assignment, ecc.BN254.ScalarField()), qt.IsNotNil)
}
