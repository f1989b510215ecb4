package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/pod1"
	"github.com/vocdoni/pod2-sandbox/prover"
	"github.com/vocdoni/pod2-sandbox/storage"
)

// newSchnorrPOD signs the entries of the request into a Schnorr POD and
// stores it.
// POST /pods/schnorr
func (a *API) newSchnorrPOD(w http.ResponseWriter, r *http.Request) {
	req := &SchnorrPODRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	sk, err := schnorr.NewSecretKey(req.SecretKey)
	if err != nil {
		ErrInvalidSecretKey.WithErr(err).Write(w)
		return
	}
	entries := make([]pod.Entry, 0, len(req.Entries))
	for _, er := range req.Entries {
		e, err := pod.EntryFromRecord(er)
		if err != nil {
			ErrMalformedBody.WithErr(err).Write(w)
			return
		}
		entries = append(entries, e)
	}
	p, err := pod.ExecuteSchnorrGadget(a.params, entries, sk)
	if err != nil {
		errorFromPOD(err).Write(w)
		return
	}
	if err := a.storage.SetPOD(p); err != nil {
		errorFromPOD(fmt.Errorf("could not store pod: %w", err)).Write(w)
		return
	}
	log.Infow("new schnorr pod", "contentId", p.ID().String(), "entries", len(entries))
	httpWriteJSON(w, p)
}

// introducePOD1 verifies a POD1 and re-signs its entries into a Schnorr
// POD, which is stored.
// POST /pods/pod1
func (a *API) introducePOD1(w http.ResponseWriter, r *http.Request) {
	req := &POD1Request{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.POD == nil {
		ErrMalformedBody.With("missing pod").Write(w)
		return
	}
	sk, err := schnorr.NewSecretKey(req.SecretKey)
	if err != nil {
		ErrInvalidSecretKey.WithErr(err).Write(w)
		return
	}
	p, err := pod1.Introduce(a.params, req.POD, sk)
	if err != nil {
		errorFromPOD(err).Write(w)
		return
	}
	if err := a.storage.SetPOD(p); err != nil {
		errorFromPOD(fmt.Errorf("could not store pod: %w", err)).Write(w)
		return
	}
	log.Infow("pod1 introduced", "contentId", p.ID().String(), "entries", len(req.POD.Entries))
	httpWriteJSON(w, p)
}

// newOraclePOD runs the ops of the request over the stored input PODs and
// stores the resulting oracle POD. Every input is verified first.
// POST /pods/oracle
func (a *API) newOraclePOD(w http.ResponseWriter, r *http.Request) {
	req := &OpsRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	gpg, ops, err := prover.ResolveRequest(a.storage, *req)
	if err != nil {
		errorFromPOD(err).Write(w)
		return
	}
	for _, np := range gpg.PODs {
		if err := a.verify(np.POD); err != nil {
			if errors.Is(err, errNoVerifier) {
				ErrProverNotReady.Write(w)
				return
			}
			errorFromPOD(fmt.Errorf("input pod %q: %w", np.Name, err)).Write(w)
			return
		}
	}
	p, err := pod.ExecuteOracleGadget(a.params, gpg, ops)
	if err != nil {
		errorFromPOD(err).Write(w)
		return
	}
	if err := a.storage.SetPOD(p); err != nil {
		errorFromPOD(fmt.Errorf("could not store pod: %w", err)).Write(w)
		return
	}
	log.Infow("new oracle pod", "contentId", p.ID().String(), "inputs", len(gpg.PODs), "ops", len(ops))
	httpWriteJSON(w, p)
}

// newPlonkyJob checks that the inputs of the request exist and queues the
// plonky proving job.
// POST /pods/plonky
func (a *API) newPlonkyJob(w http.ResponseWriter, r *http.Request) {
	req := &OpsRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if _, _, err := prover.ResolveRequest(a.storage, *req); err != nil {
		errorFromPOD(err).Write(w)
		return
	}
	if len(req.Ops) > a.params.NS {
		ErrInvalidInputShape.Withf("%d ops for %d statements", len(req.Ops), a.params.NS).Write(w)
		return
	}
	job := &storage.Job{ID: uuid.New().String(), Request: *req}
	if err := a.storage.PushJob(job); err != nil {
		ErrGenericInternalServerError.Withf("could not queue job: %v", err).Write(w)
		return
	}
	log.Infow("new plonky job", "id", job.ID, "inputs", len(req.Inputs), "ops", len(req.Ops))
	httpWriteJSON(w, &JobResponse{JobID: job.ID})
}

// pod returns a stored POD.
// GET /pods/{contentId}
func (a *API) pod(w http.ResponseWriter, r *http.Request) {
	p, ok := a.storedPOD(w, r)
	if !ok {
		return
	}
	httpWriteJSON(w, p)
}

// verifyPOD verifies a stored POD.
// GET /pods/{contentId}/verify
func (a *API) verifyPOD(w http.ResponseWriter, r *http.Request) {
	p, ok := a.storedPOD(w, r)
	if !ok {
		return
	}
	res := &VerifyResponse{ContentID: p.ID(), Valid: true}
	if err := a.verify(p); err != nil {
		if errors.Is(err, errNoVerifier) {
			ErrProverNotReady.Write(w)
			return
		}
		res.Valid = false
		res.Error = err.Error()
	}
	httpWriteJSON(w, res)
}

var errNoVerifier = errors.New("no verifier")

// verify checks p under the API parameters. Plonky PODs need the verifier.
func (a *API) verify(p *pod.POD) error {
	opts := []pod.VerifyOption{pod.WithParams(a.params)}
	if p.ProofType == pod.GadgetPlonky {
		v := a.proofVerifier()
		if v == nil {
			return errNoVerifier
		}
		opts = append(opts, pod.WithProofVerifier(v))
	}
	return p.Verify(opts...)
}

// storedPOD loads the POD named by the content id URL parameter, writing
// the error response when it cannot.
func (a *API) storedPOD(w http.ResponseWriter, r *http.Request) (*pod.POD, bool) {
	cid, err := contentIDParam(r)
	if err != nil {
		ErrMalformedContentID.WithErr(err).Write(w)
		return nil, false
	}
	p, err := a.storage.POD(cid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrPODNotFound.With(cid.String()).Write(w)
			return nil, false
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return nil, false
	}
	return p, true
}
