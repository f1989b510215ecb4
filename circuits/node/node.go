// Package node implements the recursive POD circuit. A node proof states
// that its public output statements were derived, by a list of NS
// operations, from up to M Schnorr PODs and N earlier node proofs.
package node

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	stdplonk "github.com/consensys/gnark/std/recursion/plonk"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/circuits/goldilocks"
	"github.com/vocdoni/pod2-sandbox/pod"
)

// Circuit is the node circuit for a parameters tuple. Its public inputs are
// the flattened output statements followed by VkDigest.
type Circuit struct {
	Out      [][]frontend.Variable `gnark:",public"`
	VkDigest frontend.Variable     `gnark:",public"`

	Schnorr []SchnorrSlot
	Plonky  []PlonkySlot
	Ops     []Op
	// Slots[i] is the payload position of the output of Ops[i].
	Slots []frontend.Variable

	// Vks holds the dummy and the node circuit keys, in that order. They are
	// bound to the proof by VkDigest.
	Vks    [2]circuits.CircuitVerifyingKey
	BaseVk circuits.BaseVerifyingKey `gnark:"-"`
}

// SchnorrSlot is a Schnorr POD input. SignerIndex points at the _signer
// statement.
type SchnorrSlot struct {
	Selector    frontend.Variable
	Statements  [][]frontend.Variable
	Signature   goldilocks.Signature
	SignerIndex frontend.Variable
}

// PlonkySlot is an earlier node proof input, or a dummy proof when the
// selector is zero.
type PlonkySlot struct {
	Selector   frontend.Variable
	Statements [][]frontend.Variable
	Proof      circuits.RecursiveProof
	Witness    circuits.RecursiveWitness
}

// Op is one operation of the derivation. Operands index the candidate
// statements: the remapped input statements followed by the outputs of the
// previous operations. Key and Value describe a NewEntry, Aux holds the
// vector limbs of a ContainsFromEntries.
type Op struct {
	Code     frontend.Variable
	Operands [3]frontend.Variable
	Key      frontend.Variable
	Value    frontend.Variable
	Aux      []frontend.Variable
}

func statementsPlaceholder(ns int) [][]frontend.Variable {
	sts := make([][]frontend.Variable, ns)
	for i := range sts {
		sts[i] = make([]frontend.Variable, pod.StatementFields)
	}
	return sts
}

// Placeholder returns the circuit placeholder for params. The recursive
// proof, witness and key shapes are taken from the compiled dummy circuit,
// which matches the node circuit in public inputs and commitments. baseVk
// is the base verifying key of the dummy circuit.
func Placeholder(params pod.Params, dummyCCS constraint.ConstraintSystem, baseVk circuits.BaseVerifyingKey) *Circuit {
	c := &Circuit{
		Out:    statementsPlaceholder(params.NS),
		Slots:  make([]frontend.Variable, params.NS),
		BaseVk: baseVk,
	}
	for i := range c.Vks {
		c.Vks[i] = stdplonk.PlaceholderCircuitVerifyingKey[circuits.ScalarField, circuits.G1Affine](dummyCCS)
	}
	c.Schnorr = make([]SchnorrSlot, params.M)
	for i := range c.Schnorr {
		c.Schnorr[i].Statements = statementsPlaceholder(params.NS)
	}
	c.Plonky = make([]PlonkySlot, params.N)
	for i := range c.Plonky {
		c.Plonky[i] = PlonkySlot{
			Statements: statementsPlaceholder(params.NS),
			Proof:      stdplonk.PlaceholderProof[circuits.ScalarField, circuits.G1Affine, circuits.G2Affine](dummyCCS),
			Witness:    stdplonk.PlaceholderWitness[circuits.ScalarField](dummyCCS),
		}
	}
	c.Ops = make([]Op, params.NS)
	for i := range c.Ops {
		c.Ops[i].Aux = make([]frontend.Variable, params.VL)
	}
	return c
}

func (c *Circuit) Define(api frontend.API) error {
	gl := goldilocks.New(api)

	digest, err := vkDigest(api, c.Vks[:])
	if err != nil {
		return fmt.Errorf("vk digest: %w", err)
	}
	api.AssertIsEqual(digest, c.VkDigest)

	var candidates [][]frontend.Variable
	for i := range c.Schnorr {
		sts, err := c.Schnorr[i].verify(gl)
		if err != nil {
			return fmt.Errorf("schnorr slot %d: %w", i, err)
		}
		candidates = append(candidates, sts...)
	}
	if len(c.Plonky) > 0 {
		verifier, err := circuits.NewVerifier(api)
		if err != nil {
			return err
		}
		for i := range c.Plonky {
			sts, err := c.Plonky[i].verify(gl, verifier, c.BaseVk, c.Vks[:], c.VkDigest)
			if err != nil {
				return fmt.Errorf("plonky slot %d: %w", i, err)
			}
			candidates = append(candidates, sts...)
		}
	}

	outputs, err := execute(gl, c.Ops, candidates)
	if err != nil {
		return err
	}
	return permute(api, outputs, c.Slots, c.Out)
}
