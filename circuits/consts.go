package circuits

import "github.com/vocdoni/pod2-sandbox/pod"

const (
	// SerializedFieldSize is the byte length of a BN254 scalar.
	SerializedFieldSize = 32
	// DefaultToxicSeed seeds the KZG SRS shared by the node and the dummy
	// circuits. Keys derived from it are only suitable for testing and
	// sandbox deployments.
	DefaultToxicSeed = "pod2-sandbox/kzg"
)

// PublicInputs is the number of public inputs of node and dummy proofs for
// params: the NS output statements followed by the verifying key digest.
func PublicInputs(params pod.Params) int {
	return params.NS*pod.StatementFields + 1
}
