package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/api"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/storage"
	"github.com/vocdoni/pod2-sandbox/types"
	"go.vocdoni.io/dvote/db/metadb"
)

var testParams = pod.Params{M: 2, N: 1, NS: 4, VL: 2}

func newTestClient(c *qt.C) (*HTTPclient, *storage.Storage) {
	stg, err := storage.New(metadb.NewTest(c.TB))
	c.Assert(err, qt.IsNil)
	a, err := api.NewRouter(&api.APIConfig{Params: testParams, Storage: stg})
	c.Assert(err, qt.IsNil)
	srv := httptest.NewServer(a.Router())
	c.Cleanup(srv.Close)
	cli, err := New(srv.URL)
	c.Assert(err, qt.IsNil)
	return cli, stg
}

func TestClientErrors(t *testing.T) {
	c := qt.New(t)
	cli, stg := newTestClient(c)

	_, err := cli.POD(types.ContentID(42))
	c.Assert(errors.Is(err, api.ErrPODNotFound), qt.IsTrue)
	var apiErr api.Error
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.HTTPstatus, qt.Equals, http.StatusNotFound)
	c.Assert(errors.Is(err, api.ErrJobNotFound), qt.IsFalse)

	// an oracle pod that copies a plain statement shares its content id with
	// a plonky pod over the same payload
	p, err := cli.SchnorrPOD(1234, []pod.Entry{pod.NewEntry("a", pod.ScalarUint64(5))})
	c.Assert(err, qt.IsNil)
	req := &api.OpsRequest{
		Inputs: map[string]types.ContentID{"p": p.ID()},
		Ops: []pod.OpCmdRecord{{
			Op:       pod.OpCopyStatement.String(),
			Label:    "a",
			Operands: []pod.StatementRef{pod.NewStatementRef("p", pod.Label(pod.PredValueOf, "a"))},
		}},
	}
	oracle, err := cli.OraclePOD(req)
	c.Assert(err, qt.IsNil)
	plonky := pod.NewPOD(oracle.Payload, pod.Proof{Plonky: []byte{0x01}}, pod.GadgetPlonky)
	c.Assert(stg.SetPOD(plonky), qt.ErrorIs, storage.ErrPODConflict)

	// the same request again returns the stored oracle pod
	again, err := cli.OraclePOD(req)
	c.Assert(err, qt.IsNil)
	c.Assert(again.ID(), qt.Equals, oracle.ID())
}

func TestClientNoServer(t *testing.T) {
	c := qt.New(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := New(url)
	c.Assert(err, qt.IsNotNil)
}
