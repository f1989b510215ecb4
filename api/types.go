package api

import (
	"math/big"

	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/pod1"
	"github.com/vocdoni/pod2-sandbox/storage"
	"github.com/vocdoni/pod2-sandbox/types"
)

// SchnorrPODRequest is the request to sign a set of entries into a Schnorr
// POD. The secret key is an exponent below 65537.
type SchnorrPODRequest struct {
	SecretKey uint64            `json:"secretKey"`
	Entries   []pod.EntryRecord `json:"entries"`
}

// POD1Request is the request to introduce a POD1: it is verified and its
// entries are re-signed with the secret key into a Schnorr POD.
type POD1Request struct {
	SecretKey uint64    `json:"secretKey"`
	POD       *pod1.POD `json:"pod"`
}

// OpsRequest is the request to run ops over stored PODs, either directly
// into an oracle POD or as a plonky proving job.
type OpsRequest = storage.PlonkyRequest

// JobResponse is the response to a plonky POD request.
type JobResponse struct {
	JobID string `json:"jobId"`
}

// VerifyResponse is the result of verifying a stored POD.
type VerifyResponse struct {
	ContentID types.ContentID `json:"contentId"`
	Valid     bool            `json:"valid"`
	Error     string          `json:"error,omitempty"`
}

// RegistryRoot is the response to a registry root request.
type RegistryRoot struct {
	Root types.HexBytes `json:"root"`
}

// DigestVerifier is a plonky POD verifier that also exposes the verifying
// key digest its proofs are bound to.
type DigestVerifier interface {
	pod.ProofVerifier
	VKDigest() *big.Int
}

// NodeInfo describes the node parameters. VKDigest is only set once the
// plonky verifier is available.
type NodeInfo struct {
	Params      pod.Params    `json:"params"`
	ProverReady bool          `json:"proverReady"`
	VKDigest    *types.BigInt `json:"vkDigest,omitempty"`
}
