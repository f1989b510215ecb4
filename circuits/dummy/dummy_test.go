package dummy

import (
	"testing"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	stdplonk "github.com/consensys/gnark/std/recursion/plonk"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/pod"
)

var testParams = pod.Params{M: 1, N: 1, NS: 2, VL: 1}

func TestDummyCircuit(t *testing.T) {
	c := qt.New(t)
	c.Assert(test.IsSolved(Placeholder(testParams), Assignment(testParams), circuits.NodeCurve.ScalarField()), qt.IsNil)

	ccs, err := frontend.Compile(circuits.NodeCurve.ScalarField(), scs.NewBuilder, Placeholder(testParams))
	c.Assert(err, qt.IsNil)
	c.Assert(ccs.GetNbPublicVariables(), qt.Equals, circuits.PublicInputs(testParams))
	vk := stdplonk.PlaceholderCircuitVerifyingKey[circuits.ScalarField, circuits.G1Affine](ccs)
	c.Assert(vk.Qcp, qt.HasLen, 1)
	c.Assert(vk.CommitmentConstraintIndexes, qt.HasLen, 1)
}

func TestDummyProof(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping proving test in short mode")
	}
	c := qt.New(t)
	keys, err := Setup(testParams, []byte(circuits.DefaultToxicSeed))
	c.Assert(err, qt.IsNil)
	_, publicWitness, err := keys.Prove(testParams)
	c.Assert(err, qt.IsNil)
	w, err := stdplonk.ValueOfWitness[circuits.ScalarField](publicWitness)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Public, qt.HasLen, circuits.PublicInputs(testParams))
}
