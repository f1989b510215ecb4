package circuits

import (
	"github.com/consensys/gnark/std/algebra/emulated/sw_bn254"
	stdplonk "github.com/consensys/gnark/std/recursion/plonk"
)

type (
	ScalarField = sw_bn254.ScalarField
	G1Affine    = sw_bn254.G1Affine
	G2Affine    = sw_bn254.G2Affine
	GTEl        = sw_bn254.GTEl

	// Verifier is the emulated PLONK verifier over NodeCurve.
	Verifier = stdplonk.Verifier[ScalarField, G1Affine, G2Affine, GTEl]
	// RecursiveProof is a node or dummy proof as circuit variables.
	RecursiveProof = stdplonk.Proof[ScalarField, G1Affine, G2Affine]
	// RecursiveWitness is the public witness of a recursive proof.
	RecursiveWitness = stdplonk.Witness[ScalarField]
	// BaseVerifyingKey is the part of a verifying key shared by the node and
	// the dummy circuit: the KZG key, the coset shift and the number of
	// public inputs.
	BaseVerifyingKey = stdplonk.BaseVerifyingKey[ScalarField, G1Affine, G2Affine]
	// CircuitVerifyingKey is the circuit specific part of a verifying key.
	CircuitVerifyingKey = stdplonk.CircuitVerifyingKey[ScalarField, G1Affine]
)
