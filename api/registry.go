package api

import (
	"net/http"
)

// registryRoot returns the root of the POD registry tree.
// GET /registry/root
func (a *API) registryRoot(w http.ResponseWriter, r *http.Request) {
	root, err := a.storage.RegistryRoot()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &RegistryRoot{Root: root})
}

// registryProof returns the registry proof of a content id.
// GET /registry/{contentId}
func (a *API) registryProof(w http.ResponseWriter, r *http.Request) {
	cid, err := contentIDParam(r)
	if err != nil {
		ErrMalformedContentID.WithErr(err).Write(w)
		return
	}
	proof, err := a.storage.RegistryProof(cid)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, proof)
}
