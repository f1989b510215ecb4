package circuits

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	stdplonk "github.com/consensys/gnark/std/recursion/plonk"
)

// NodeCurve is the curve of the node and dummy circuits. Node proofs are
// verified inside the node circuit itself, so the inner and the outer curve
// are the same and the inner field is emulated.
var NodeCurve = ecc.BN254

// NewVerifier returns the in-circuit verifier of node and dummy proofs.
func NewVerifier(api frontend.API) (*Verifier, error) {
	return stdplonk.NewVerifier[ScalarField, G1Affine, G2Affine, GTEl](api)
}

// ProverOptions are the options every proof that is later verified in a
// node circuit must be generated with.
func ProverOptions() backend.ProverOption {
	return stdplonk.GetNativeProverOptions(NodeCurve.ScalarField(), NodeCurve.ScalarField())
}

// VerifierOptions match ProverOptions on the host verifier side.
func VerifierOptions() backend.VerifierOption {
	return stdplonk.GetNativeVerifierOptions(NodeCurve.ScalarField(), NodeCurve.ScalarField())
}
