//nolint:lll
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/pod1"
	"github.com/vocdoni/pod2-sandbox/storage"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404 (or even 204), whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX
// If you notice there's a gap (say, error code 4010, 4011 and 4013 exist, 4012 is missing) DON'T fill in the gap,
// that code was used in the past for some error (not anymore) and shouldn't be reused.
// There's no correlation between Code and HTTP Status,
// for example the fact that Code 4045 returns HTTP Status 404 Not Found is just a coincidence
var (
	ErrResourceNotFound   = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody      = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature   = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid signature")}
	ErrMalformedContentID = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed content id")}
	ErrPODNotFound        = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("pod not found")}
	ErrJobNotFound        = Error{Code: 40008, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("job not found")}
	ErrInvalidInputShape  = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid input shape")}
	ErrLookupMissing      = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("lookup missing")}
	ErrInvalidClaim       = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid claim")}
	ErrTypeMismatch       = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("type mismatch")}
	ErrInvalidProof       = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid proof")}
	ErrInvalidSecretKey   = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid secret key")}
	ErrFieldArithmetic    = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("field arithmetic error")}
	ErrInvalidPOD1        = Error{Code: 40016, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid pod1")}
	ErrPODConflict        = Error{Code: 40017, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("content id already stored with another proof type")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrProverNotReady             = Error{Code: 50003, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("prover parameters not ready")}
)

// errorFromPOD classifies an error of the POD engine into an API error.
// Unknown errors are internal server errors.
func errorFromPOD(err error) Error {
	switch {
	case errors.Is(err, pod.ErrInputShape), errors.Is(err, pod.ErrVectorTooLong):
		return ErrInvalidInputShape.WithErr(err)
	case errors.Is(err, pod.ErrLookupMissing):
		return ErrLookupMissing.WithErr(err)
	case errors.Is(err, pod.ErrInvalidClaim):
		return ErrInvalidClaim.WithErr(err)
	case errors.Is(err, pod.ErrTypeMismatch):
		return ErrTypeMismatch.WithErr(err)
	case errors.Is(err, pod.ErrSignatureInvalid), errors.Is(err, pod1.ErrInvalidSignature):
		return ErrInvalidSignature.WithErr(err)
	case errors.Is(err, pod.ErrProofInvalid):
		return ErrInvalidProof.WithErr(err)
	case errors.Is(err, pod1.ErrInvalidName), errors.Is(err, pod1.ErrInvalidValue):
		return ErrInvalidPOD1.WithErr(err)
	case errors.Is(err, storage.ErrPODConflict):
		return ErrPODConflict.WithErr(err)
	case errors.Is(err, field.ErrDivisionByZero):
		return ErrFieldArithmetic.WithErr(err)
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
