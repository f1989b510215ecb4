package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/pod2-sandbox/storage"
)

// job returns the status of a plonky proving job.
// GET /jobs/{jobId}
func (a *API) job(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, JobURLParam)
	job, err := a.storage.Job(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrJobNotFound.With(id).Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, job)
}
