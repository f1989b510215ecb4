// Package prover builds the recursion parameters of a node circuit and
// proves and verifies plonky PODs with them.
package prover

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	stdplonk "github.com/consensys/gnark/std/recursion/plonk"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/circuits/dummy"
	"github.com/vocdoni/pod2-sandbox/circuits/node"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
)

// Keys are a compiled node circuit and its PLONK keys.
type Keys struct {
	CCS constraint.ConstraintSystem
	PK  plonk.ProvingKey
	VK  plonk.VerifyingKey
}

// VerifierData is all a verifier needs to check plonky PODs of a
// parameters tuple.
type VerifierData struct {
	Params pod.Params
	VK     plonk.VerifyingKey
	// Digest is the verifying key digest every node proof exposes as its
	// last public input.
	Digest *big.Int
}

// ProverParams holds the circuit, the keys and the dummy proof shared by
// every plonky POD proven for a tuple. It is read only once built and can
// be shared between goroutines.
type ProverParams struct {
	Params   pod.Params
	Node     *Keys
	Dummy    *dummy.Keys
	Verifier *VerifierData

	recursion *node.Recursion
}

type options struct {
	seed      []byte
	artifacts bool
}

// Option configures CircuitData and BuildProverParams.
type Option func(*options)

// WithSeed sets the toxic seed of the KZG SRS. Defaults to
// circuits.DefaultToxicSeed.
func WithSeed(seed []byte) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithArtifacts enables the on-disk cache of compiled circuits and keys
// under circuits.BaseDir.
func WithArtifacts(enabled bool) Option {
	return func(o *options) {
		o.artifacts = enabled
	}
}

func newOptions(opts []Option) *options {
	o := &options{seed: []byte(circuits.DefaultToxicSeed)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

const (
	nodeCCSArtifact  = "node.ccs"
	nodePKArtifact   = "node.pk"
	nodeVKArtifact   = "node.vk"
	dummyCCSArtifact = "dummy.ccs"
	dummyPKArtifact  = "dummy.pk"
	dummyVKArtifact  = "dummy.vk"
)

// CircuitData compiles the dummy and the node circuits of params and runs
// their setup, or loads them from the artifacts cache when enabled.
func CircuitData(params pod.Params, opts ...Option) (*Keys, *dummy.Keys, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	o := newOptions(opts)
	artifacts := circuits.NewCircuitArtifacts(fmt.Sprintf("node-%s-%x", params, o.seed))
	if o.artifacts {
		found, err := artifacts.LoadAll()
		if err != nil {
			return nil, nil, err
		}
		if found {
			nodeKeys, dummyKeys, err := decodeArtifacts(artifacts)
			if err != nil {
				return nil, nil, err
			}
			log.Infow("circuit data loaded from cache", "params", params.String())
			return nodeKeys, dummyKeys, nil
		}
	}

	dummyKeys, err := dummy.Setup(params, o.seed)
	if err != nil {
		return nil, nil, err
	}
	baseVk, err := stdplonk.ValueOfBaseVerifyingKey[circuits.ScalarField, circuits.G1Affine, circuits.G2Affine](dummyKeys.VK)
	if err != nil {
		return nil, nil, fmt.Errorf("base verifying key: %w", err)
	}
	ccs, pk, vk, err := circuits.CompileAndSetup(node.Placeholder(params, dummyKeys.CCS, baseVk), o.seed)
	if err != nil {
		return nil, nil, fmt.Errorf("node circuit: %w", err)
	}
	nodeKeys := &Keys{CCS: ccs, PK: pk, VK: vk}
	log.Infow("node circuit ready", "params", params.String(), "constraints", ccs.GetNbConstraints())

	if o.artifacts {
		for name, obj := range map[string]io.WriterTo{
			nodeCCSArtifact:  nodeKeys.CCS,
			nodePKArtifact:   nodeKeys.PK,
			nodeVKArtifact:   nodeKeys.VK,
			dummyCCSArtifact: dummyKeys.CCS,
			dummyPKArtifact:  dummyKeys.PK,
			dummyVKArtifact:  dummyKeys.VK,
		} {
			if err := artifacts.Add(name, obj); err != nil {
				return nil, nil, err
			}
		}
		if err := artifacts.Store(); err != nil {
			return nil, nil, err
		}
	}
	return nodeKeys, dummyKeys, nil
}

func decodeArtifacts(artifacts *circuits.CircuitArtifacts) (*Keys, *dummy.Keys, error) {
	read := func(name string, obj io.ReaderFrom) error {
		a, ok := artifacts.Get(name)
		if !ok {
			return fmt.Errorf("artifact %s missing from cache", name)
		}
		if _, err := obj.ReadFrom(bytes.NewReader(a.Content)); err != nil {
			return fmt.Errorf("error decoding %s: %w", name, err)
		}
		return nil
	}
	nodeKeys := &Keys{
		CCS: plonk.NewCS(circuits.NodeCurve),
		PK:  plonk.NewProvingKey(circuits.NodeCurve),
		VK:  plonk.NewVerifyingKey(circuits.NodeCurve),
	}
	dummyKeys := &dummy.Keys{
		CCS: plonk.NewCS(circuits.NodeCurve),
		PK:  plonk.NewProvingKey(circuits.NodeCurve),
		VK:  plonk.NewVerifyingKey(circuits.NodeCurve),
	}
	for name, obj := range map[string]io.ReaderFrom{
		nodeCCSArtifact:  nodeKeys.CCS,
		nodePKArtifact:   nodeKeys.PK,
		nodeVKArtifact:   nodeKeys.VK,
		dummyCCSArtifact: dummyKeys.CCS,
		dummyPKArtifact:  dummyKeys.PK,
		dummyVKArtifact:  dummyKeys.VK,
	} {
		if err := read(name, obj); err != nil {
			return nil, nil, err
		}
	}
	return nodeKeys, dummyKeys, nil
}

// BuildProverParams prepares everything needed to prove plonky PODs for
// params: the circuit data, the verifying key digest and one dummy proof
// reused by every disabled recursive slot.
func BuildProverParams(params pod.Params, opts ...Option) (*ProverParams, error) {
	nodeKeys, dummyKeys, err := CircuitData(params, opts...)
	if err != nil {
		return nil, err
	}
	dummyVk, err := node.VerifyingKeyValue(dummyKeys.VK)
	if err != nil {
		return nil, fmt.Errorf("dummy verifying key: %w", err)
	}
	nodeVk, err := node.VerifyingKeyValue(nodeKeys.VK)
	if err != nil {
		return nil, fmt.Errorf("node verifying key: %w", err)
	}
	digest, err := node.VkDigest(dummyVk, nodeVk)
	if err != nil {
		return nil, fmt.Errorf("verifying key digest: %w", err)
	}
	proof, _, err := dummyKeys.Prove(params)
	if err != nil {
		return nil, fmt.Errorf("dummy proof: %w", err)
	}
	dummyProof, err := stdplonk.ValueOfProof[circuits.ScalarField, circuits.G1Affine, circuits.G2Affine](proof)
	if err != nil {
		return nil, fmt.Errorf("dummy proof: %w", err)
	}
	log.Debugw("prover params built", "params", params.String(), "digest", digest.String())
	return &ProverParams{
		Params:   params,
		Node:     nodeKeys,
		Dummy:    dummyKeys,
		Verifier: &VerifierData{Params: params, VK: nodeKeys.VK, Digest: digest},
		recursion: &node.Recursion{
			Keys:   [2]circuits.CircuitVerifyingKey{dummyVk, nodeVk},
			Digest: digest,
			Dummy:  dummyProof,
			Proof:  decodeProof,
		},
	}, nil
}
