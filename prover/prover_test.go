package prover

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/storage"
	"github.com/vocdoni/pod2-sandbox/types"
	"go.vocdoni.io/dvote/db/metadb"
)

var testParams = pod.Params{M: 2, N: 1, NS: 4, VL: 2}

func skipIfNoCircuitTests(t *testing.T) {
	if os.Getenv("RUN_CIRCUIT_TESTS") == "" || os.Getenv("RUN_CIRCUIT_TESTS") == "false" {
		t.Skip("skipping circuit tests...")
	}
}

func schnorrPOD(c *qt.C, sk uint64, entries ...pod.Entry) *pod.POD {
	key, err := schnorr.NewSecretKey(sk)
	c.Assert(err, qt.IsNil)
	p, err := pod.ExecuteSchnorrGadget(testParams, entries, key)
	c.Assert(err, qt.IsNil)
	return p
}

func valueOf(name, key string) pod.StatementRef {
	return pod.NewStatementRef(name, pod.Label(pod.PredValueOf, key))
}

func TestPublicWitness(t *testing.T) {
	c := qt.New(t)
	p := schnorrPOD(c, 25, pod.NewEntry("a", pod.ScalarUint64(5)))
	vd := &VerifierData{Params: testParams, Digest: big.NewInt(7)}

	w, err := vd.PublicWitness(p.Payload)
	c.Assert(err, qt.IsNil)
	vector, ok := w.Vector().(fr.Vector)
	c.Assert(ok, qt.IsTrue)
	c.Assert(vector, qt.HasLen, testParams.NS*pod.StatementFields+1)

	fields := p.Payload.Fields()
	for i, f := range fields {
		c.Assert(vector[i].Uint64(), qt.Equals, f.Uint64())
	}
	c.Assert(vector[len(vector)-1].Uint64(), qt.Equals, uint64(7))

	_, err = vd.PublicWitness(p.Payload[:2])
	c.Assert(err, qt.ErrorIs, pod.ErrInputShape)
}

func TestVerifyPlonkyPODRejects(t *testing.T) {
	c := qt.New(t)
	vd := &VerifierData{Params: testParams, Digest: big.NewInt(7)}

	p := schnorrPOD(c, 25, pod.NewEntry("a", pod.ScalarUint64(5)))
	c.Assert(VerifyPlonkyPOD(vd, p), qt.ErrorIs, pod.ErrProofInvalid)

	forged := pod.NewPOD(p.Payload, pod.Proof{Plonky: []byte{1, 2, 3}}, pod.GadgetPlonky)
	c.Assert(VerifyPlonkyPOD(vd, forged), qt.ErrorIs, pod.ErrProofInvalid)
	c.Assert(forged.Verify(pod.WithProofVerifier(vd)), qt.ErrorIs, pod.ErrProofInvalid)

	short := pod.NewPOD(p.Payload[:2], pod.Proof{Plonky: []byte{1}}, pod.GadgetPlonky)
	c.Assert(VerifyPlonkyPOD(vd, short), qt.ErrorIs, pod.ErrInputShape)
}

func TestResolveRequest(t *testing.T) {
	c := qt.New(t)
	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	p := schnorrPOD(c, 25, pod.NewEntry("a", pod.ScalarUint64(5)))
	c.Assert(stg.SetPOD(p), qt.IsNil)
	cid := p.ID()

	req := storage.PlonkyRequest{
		Inputs: map[string]types.ContentID{"p1": cid},
		Ops: []pod.OpCmdRecord{{
			Op:       pod.OpCopyStatement.String(),
			Label:    "copy",
			Operands: []pod.StatementRef{valueOf("p1", "a")},
		}},
	}
	gpg, ops, err := ResolveRequest(stg, req)
	c.Assert(err, qt.IsNil)
	c.Assert(gpg.PODs, qt.HasLen, 1)
	c.Assert(ops, qt.HasLen, 1)
	c.Assert(ops[0].Op.Code, qt.Equals, pod.OpCopyStatement)

	req.Inputs["p2"] = types.ContentID(1)
	_, _, err = ResolveRequest(stg, req)
	c.Assert(err, qt.ErrorIs, pod.ErrLookupMissing)

	delete(req.Inputs, "p2")
	req.Ops[0].Op = "NOT_AN_OP"
	_, _, err = ResolveRequest(stg, req)
	c.Assert(err, qt.IsNotNil)
}

func TestPlonkyPOD(t *testing.T) {
	skipIfNoCircuitTests(t)
	c := qt.New(t)

	pp, err := BuildProverParams(testParams)
	c.Assert(err, qt.IsNil)

	set, err := pod.VectorUint64(testParams.VL, 36, 55)
	c.Assert(err, qt.IsNil)
	p1 := schnorrPOD(c, 11, pod.NewEntry("s1", pod.ScalarUint64(55)), pod.NewEntry("s2", pod.ScalarUint64(56)))
	p2 := schnorrPOD(c, 12, pod.NewEntry("s4", pod.ScalarUint64(55)), pod.NewEntry("set", set))
	gpg, err := pod.NewGPGInput(map[string]*pod.POD{"p1": p1, "p2": p2}, nil)
	c.Assert(err, qt.IsNil)

	p3, err := ExecutePlonkyGadget(pp, gpg, []pod.OpCmd{
		pod.NewOpCmd(pod.EqualityFromEntriesOp(valueOf("p1", "s1"), valueOf("p2", "s4")), "eq"),
		pod.NewOpCmd(pod.ContainsFromEntriesOp(valueOf("p2", "set"), valueOf("p1", "s1")), "in"),
		pod.NewOpCmd(pod.NewEntryOp(pod.NewEntry("total", pod.ScalarUint64(111))), "total"),
		pod.NewOpCmd(pod.SumOfOp(valueOf(pod.SelfName, "total"), valueOf("p1", "s1"), valueOf("p1", "s2")), "sum"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(p3.Verify(pod.WithParams(testParams), pod.WithProofVerifier(pp.Verifier)), qt.IsNil)

	// the proof is bound to the payload
	tampered := pod.NewPOD(p1.Payload, p3.Proof, pod.GadgetPlonky)
	c.Assert(tampered.Verify(pod.WithProofVerifier(pp.Verifier)), qt.ErrorIs, pod.ErrProofInvalid)

	// a plonky pod is itself an input of the next proof
	gpg, err = pod.NewGPGInput(map[string]*pod.POD{"p3": p3, "p1": p1}, nil)
	c.Assert(err, qt.IsNil)
	p4, err := ExecutePlonkyGadget(pp, gpg, []pod.OpCmd{
		pod.NewOpCmd(pod.CopyStatementOp(valueOf("p3", "total")), "total"),
		pod.NewOpCmd(pod.GtFromEntriesOp(valueOf("p3", "total"), valueOf("p1", "s2")), "gt"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(p4.Verify(pod.WithParams(testParams), pod.WithProofVerifier(pp)), qt.IsNil)
}

func TestWorker(t *testing.T) {
	skipIfNoCircuitTests(t)
	c := qt.New(t)

	pp, err := BuildProverParams(testParams, WithArtifacts(true))
	c.Assert(err, qt.IsNil)
	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	p1 := schnorrPOD(c, 11, pod.NewEntry("s1", pod.ScalarUint64(55)))
	c.Assert(stg.SetPOD(p1), qt.IsNil)
	job := &storage.Job{ID: "job", Request: storage.PlonkyRequest{
		Inputs: map[string]types.ContentID{"p1": p1.ID()},
		Ops: []pod.OpCmdRecord{{
			Op:       pod.OpCopyStatement.String(),
			Label:    "copy",
			Operands: []pod.StatementRef{valueOf("p1", "s1")},
		}},
	}}
	c.Assert(stg.PushJob(job), qt.IsNil)

	w, err := NewWorker(stg, pp)
	c.Assert(err, qt.IsNil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Assert(w.Start(ctx), qt.IsNil)
	defer func() { _ = w.Stop() }()

	var done *storage.Job
	for range 600 {
		done, err = stg.Job(job.ID)
		c.Assert(err, qt.IsNil)
		if done.Status == storage.JobDone || done.Status == storage.JobFailed {
			break
		}
		time.Sleep(time.Second)
	}
	c.Assert(done.Status, qt.Equals, storage.JobDone, qt.Commentf("error: %s", done.Error))
	p, err := stg.POD(*done.Result)
	c.Assert(err, qt.IsNil)
	c.Assert(p.Verify(pod.WithProofVerifier(pp)), qt.IsNil)
}
