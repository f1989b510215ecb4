package node

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/selector"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/circuits/goldilocks"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
	"github.com/vocdoni/pod2-sandbox/pod"
)

var signerKeyHash = poseidon.HashString(pod.SignerKey)

// packScalar returns the native variable equal to the emulated scalar e.
// Both fields are the BN254 scalar field, so the canonical bits of e fit.
func packScalar(api frontend.API, scalars *emulated.Field[circuits.ScalarField],
	e *emulated.Element[circuits.ScalarField],
) frontend.Variable {
	return api.FromBinary(scalars.ToBitsCanonical(e)...)
}

func flatten(sts [][]frontend.Variable) []frontend.Variable {
	flat := make([]frontend.Variable, 0, len(sts)*pod.StatementFields)
	for _, st := range sts {
		flat = append(flat, st...)
	}
	return flat
}

// assertSlotFields constrains every field to be canonical, and to be zero
// when the slot is disabled.
func assertSlotFields(gl *goldilocks.Chip, sel frontend.Variable, fields []frontend.Variable) {
	api := gl.API()
	api.AssertIsBoolean(sel)
	disabled := api.Sub(1, sel)
	for _, f := range fields {
		gl.AssertCanonical(f)
		api.AssertIsEqual(api.Mul(disabled, f), 0)
	}
}

// assertWhen constrains v to zero when cond is one.
func assertWhen(api frontend.API, cond, v frontend.Variable) {
	api.AssertIsEqual(api.Mul(cond, v), 0)
}

// remap replaces the SELF origin ids of the statements with cid.
func remap(gl *goldilocks.Chip, sts [][]frontend.Variable, cid frontend.Variable) [][]frontend.Variable {
	api := gl.API()
	out := make([][]frontend.Variable, len(sts))
	for i, st := range sts {
		out[i] = append([]frontend.Variable(nil), st...)
		for k := 0; k < 3; k++ {
			pos := pod.KeyIndex(k) - pod.OriginFields
			out[i][pos] = api.Select(gl.IsEqual(st[pos], 1), cid, st[pos])
		}
	}
	return out
}

// muxStatement returns the statement of sts at idx.
func muxStatement(api frontend.API, sts [][]frontend.Variable, idx frontend.Variable) []frontend.Variable {
	ind := selector.Decoder(api, len(sts), idx)
	out := make([]frontend.Variable, pod.StatementFields)
	for f := range out {
		acc := frontend.Variable(0)
		for j, st := range sts {
			acc = api.Add(acc, api.Mul(ind[j], st[f]))
		}
		out[f] = acc
	}
	return out
}

// verify checks the signature of an enabled slot over the content id of its
// statements, using the value of its _signer entry as public key, and
// returns the remapped statements.
func (s *SchnorrSlot) verify(gl *goldilocks.Chip) ([][]frontend.Variable, error) {
	api := gl.API()
	flat := flatten(s.Statements)
	assertSlotFields(gl, s.Selector, flat)
	cid := gl.Hash(flat...)

	signer := muxStatement(api, s.Statements, s.SignerIndex)
	assertWhen(api, s.Selector, api.Sub(signer[0], uint64(pod.PredValueOf)))
	assertWhen(api, s.Selector, api.Sub(signer[pod.KeyIndex(0)-pod.OriginFields], pod.OriginIDSelf.Uint64()))
	assertWhen(api, s.Selector, api.Sub(signer[pod.KeyIndex(0)], signerKeyHash.Uint64()))

	valid := gl.VerifySchnorr(s.Signature, []frontend.Variable{cid}, signer[pod.StatementFields-1])
	assertWhen(api, s.Selector, api.Sub(1, valid))
	return remap(gl, s.Statements, cid), nil
}

// verify checks the proof of the slot with the node key, or with the dummy
// key when the slot is disabled, and returns the remapped statements. The
// public inputs of the proof must be the slot statements and, for node
// proofs, the digest of the keys of this circuit.
func (s *PlonkySlot) verify(gl *goldilocks.Chip, verifier *circuits.Verifier, baseVk circuits.BaseVerifyingKey,
	vks []circuits.CircuitVerifyingKey, digest frontend.Variable,
) ([][]frontend.Variable, error) {
	api := gl.API()
	flat := flatten(s.Statements)
	if len(s.Witness.Public) != len(flat)+1 {
		return nil, fmt.Errorf("witness has %d public inputs, expected %d", len(s.Witness.Public), len(flat)+1)
	}
	assertSlotFields(gl, s.Selector, flat)
	scalars, err := emulated.NewField[circuits.ScalarField](api)
	if err != nil {
		return nil, err
	}
	for i, f := range flat {
		api.AssertIsEqual(packScalar(api, scalars, &s.Witness.Public[i]), f)
	}
	innerDigest := packScalar(api, scalars, &s.Witness.Public[len(flat)])
	assertWhen(api, s.Selector, api.Sub(innerDigest, digest))

	vk, err := verifier.SwitchVerificationKey(baseVk, s.Selector, vks)
	if err != nil {
		return nil, err
	}
	if err := verifier.AssertProof(vk, s.Proof, s.Witness); err != nil {
		return nil, err
	}
	return remap(gl, s.Statements, gl.Hash(flat...)), nil
}
