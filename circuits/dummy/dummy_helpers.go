package dummy

import (
	"fmt"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/pod"
)

// Keys are the compiled dummy circuit and its PLONK keys.
type Keys struct {
	CCS constraint.ConstraintSystem
	PK  plonk.ProvingKey
	VK  plonk.VerifyingKey
}

// Setup compiles the dummy circuit for params and runs the setup with the
// SRS derived from seed.
func Setup(params pod.Params, seed []byte) (*Keys, error) {
	ccs, pk, vk, err := circuits.CompileAndSetup(Placeholder(params), seed)
	if err != nil {
		return nil, fmt.Errorf("dummy circuit: %w", err)
	}
	return &Keys{CCS: ccs, PK: pk, VK: vk}, nil
}

// Prove generates the dummy proof for params, ready to be verified in a node
// circuit, and checks it against the verifying key.
func (k *Keys) Prove(params pod.Params) (plonk.Proof, witness.Witness, error) {
	fullWitness, err := frontend.NewWitness(Assignment(params), circuits.NodeCurve.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("full witness error: %w", err)
	}
	proof, err := plonk.Prove(k.CCS, k.PK, fullWitness, circuits.ProverOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("proof error: %w", err)
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("pub witness error: %w", err)
	}
	if err := plonk.Verify(proof, k.VK, publicWitness, circuits.VerifierOptions()); err != nil {
		return nil, nil, fmt.Errorf("verify error: %w", err)
	}
	return proof, publicWitness, nil
}
