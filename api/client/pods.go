package client

import (
	"net/http"
	"strings"

	"github.com/vocdoni/pod2-sandbox/api"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/pod1"
	"github.com/vocdoni/pod2-sandbox/storage"
	"github.com/vocdoni/pod2-sandbox/types"
)

// SchnorrPOD asks the node to sign entries with sk into a Schnorr POD.
func (c *HTTPclient) SchnorrPOD(sk uint64, entries []pod.Entry) (*pod.POD, error) {
	req := &api.SchnorrPODRequest{SecretKey: sk}
	for _, e := range entries {
		req.Entries = append(req.Entries, e.Record())
	}
	p := &pod.POD{}
	if err := c.call(http.MethodPost, req, p, api.SchnorrPODEndpoint); err != nil {
		return nil, err
	}
	return p, nil
}

// IntroducePOD1 asks the node to verify a POD1 and re-sign it with sk into
// a Schnorr POD.
func (c *HTTPclient) IntroducePOD1(sk uint64, p1 *pod1.POD) (*pod.POD, error) {
	p := &pod.POD{}
	if err := c.call(http.MethodPost, &api.POD1Request{SecretKey: sk, POD: p1}, p, api.POD1PODEndpoint); err != nil {
		return nil, err
	}
	return p, nil
}

// OraclePOD asks the node to run req into an oracle POD.
func (c *HTTPclient) OraclePOD(req *api.OpsRequest) (*pod.POD, error) {
	p := &pod.POD{}
	if err := c.call(http.MethodPost, req, p, api.OraclePODEndpoint); err != nil {
		return nil, err
	}
	return p, nil
}

// PlonkyJob queues a plonky proving job and returns its id.
func (c *HTTPclient) PlonkyJob(req *api.OpsRequest) (string, error) {
	res := &api.JobResponse{}
	if err := c.call(http.MethodPost, req, res, api.PlonkyPODEndpoint); err != nil {
		return "", err
	}
	return res.JobID, nil
}

// Info returns the parameters tuple and the prover status of the node.
func (c *HTTPclient) Info() (*api.NodeInfo, error) {
	info := &api.NodeInfo{}
	if err := c.call(http.MethodGet, nil, info, api.InfoEndpoint); err != nil {
		return nil, err
	}
	return info, nil
}

// Job returns the status of a proving job.
func (c *HTTPclient) Job(id string) (*storage.Job, error) {
	job := &storage.Job{}
	if err := c.call(http.MethodGet, nil, job, endpoint(api.JobEndpoint, api.JobURLParam, id)); err != nil {
		return nil, err
	}
	return job, nil
}

// POD returns a stored POD.
func (c *HTTPclient) POD(cid types.ContentID) (*pod.POD, error) {
	p := &pod.POD{}
	if err := c.call(http.MethodGet, nil, p, endpoint(api.PODEndpoint, api.ContentIDURLParam, cid.String())); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyPOD asks the node to verify a stored POD.
func (c *HTTPclient) VerifyPOD(cid types.ContentID) (*api.VerifyResponse, error) {
	res := &api.VerifyResponse{}
	if err := c.call(http.MethodGet, nil, res, endpoint(api.VerifyPODEndpoint, api.ContentIDURLParam, cid.String())); err != nil {
		return nil, err
	}
	return res, nil
}

// RegistryProof returns the registry proof of a content id.
func (c *HTTPclient) RegistryProof(cid types.ContentID) (*storage.RegistryProof, error) {
	proof := &storage.RegistryProof{}
	if err := c.call(http.MethodGet, nil, proof, endpoint(api.RegistryProofEndpoint, api.ContentIDURLParam, cid.String())); err != nil {
		return nil, err
	}
	return proof, nil
}

// endpoint replaces the URL parameter of a route pattern.
func endpoint(pattern, param, value string) string {
	return strings.Replace(pattern, "{"+param+"}", value, 1)
}
