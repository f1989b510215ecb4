package prover

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	stdplonk "github.com/consensys/gnark/std/recursion/plonk"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/circuits/node"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
)

// ExecutePlonkyGadget runs ops over gpg and proves the execution with the
// node circuit. Input PODs are verified first; plonky inputs must have been
// proven with the same parameters.
func ExecutePlonkyGadget(pp *ProverParams, gpg *pod.GPGInput, ops []pod.OpCmd) (*pod.POD, error) {
	for _, np := range gpg.PODs {
		if err := np.POD.Verify(pod.WithParams(pp.Params), pod.WithProofVerifier(pp)); err != nil {
			return nil, fmt.Errorf("input pod %q: %w", np.Name, err)
		}
	}
	exec, err := pod.ExecuteOps(pp.Params, gpg, ops, pod.GadgetPlonky)
	if err != nil {
		return nil, err
	}
	assignment, err := node.Assign(pp.Params, gpg, exec, pp.recursion)
	if err != nil {
		return nil, err
	}
	fullWitness, err := frontend.NewWitness(assignment, circuits.NodeCurve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("full witness error: %w", err)
	}
	startTime := time.Now()
	proof, err := plonk.Prove(pp.Node.CCS, pp.Node.PK, fullWitness, circuits.ProverOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: proof error: %v", pod.ErrProofInvalid, err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing proof: %w", err)
	}
	p := pod.NewPOD(exec.Payload, pod.Proof{Plonky: buf.Bytes()}, pod.GadgetPlonky)
	log.Debugw("plonky pod proven",
		"contentId", p.ID().String(),
		"inputs", len(gpg.PODs),
		"took", time.Since(startTime).String())
	return p, nil
}

// VerifyPlonkyPOD checks the proof of p against the node verifying key.
// The public inputs are rebuilt from the payload of p and the digest in vd.
func VerifyPlonkyPOD(vd *VerifierData, p *pod.POD) error {
	if p.ProofType != pod.GadgetPlonky {
		return fmt.Errorf("%w: %s pod is not a plonky pod", pod.ErrProofInvalid, p.ProofType)
	}
	if len(p.Payload) != vd.Params.NS {
		return fmt.Errorf("%w: %d statements, expected %d", pod.ErrInputShape, len(p.Payload), vd.Params.NS)
	}
	proof := plonk.NewProof(circuits.NodeCurve)
	if _, err := proof.ReadFrom(bytes.NewReader(p.Proof.Plonky)); err != nil {
		return fmt.Errorf("%w: error decoding proof: %v", pod.ErrProofInvalid, err)
	}
	publicWitness, err := vd.PublicWitness(p.Payload)
	if err != nil {
		return err
	}
	if err := plonk.Verify(proof, vd.VK, publicWitness, circuits.VerifierOptions()); err != nil {
		return fmt.Errorf("%w: %v", pod.ErrProofInvalid, err)
	}
	return nil
}

// VerifyPlonkyPOD implements pod.ProofVerifier.
func (vd *VerifierData) VerifyPlonkyPOD(p *pod.POD) error {
	return VerifyPlonkyPOD(vd, p)
}

// VKDigest returns the verifying key digest exposed by node proofs.
func (vd *VerifierData) VKDigest() *big.Int {
	return new(big.Int).Set(vd.Digest)
}

// VerifyPlonkyPOD implements pod.ProofVerifier.
func (pp *ProverParams) VerifyPlonkyPOD(p *pod.POD) error {
	return VerifyPlonkyPOD(pp.Verifier, p)
}

// PublicWitness returns the public inputs of the node proof of payload: the
// flattened statements followed by the verifying key digest.
func (vd *VerifierData) PublicWitness(payload pod.Payload) (witness.Witness, error) {
	if len(payload) != vd.Params.NS {
		return nil, fmt.Errorf("%w: %d statements, expected %d", pod.ErrInputShape, len(payload), vd.Params.NS)
	}
	w, err := witness.New(circuits.NodeCurve.ScalarField())
	if err != nil {
		return nil, err
	}
	n := circuits.PublicInputs(vd.Params)
	values := make(chan any, n)
	for _, f := range payload.Fields() {
		values <- f.Uint64()
	}
	values <- vd.Digest
	close(values)
	if err := w.Fill(n, 0, values); err != nil {
		return nil, fmt.Errorf("%w: public witness: %v", pod.ErrInputShape, err)
	}
	return w, nil
}

// decodeProof returns the proof of a plonky pod as a recursive proof.
func decodeProof(p *pod.POD) (circuits.RecursiveProof, error) {
	proof := plonk.NewProof(circuits.NodeCurve)
	if _, err := proof.ReadFrom(bytes.NewReader(p.Proof.Plonky)); err != nil {
		return circuits.RecursiveProof{}, fmt.Errorf("%w: error decoding proof: %v", pod.ErrProofInvalid, err)
	}
	return stdplonk.ValueOfProof[circuits.ScalarField, circuits.G1Affine, circuits.G2Affine](proof)
}
