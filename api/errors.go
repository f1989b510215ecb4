package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vocdoni/pod2-sandbox/log"
)

// Error is returned by handlers to report a failure with a stable error
// code and the HTTP status of the response. Clients decode the same type
// from error responses.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// errorBody is the wire form of an Error: {"error":"pod not found","code":40007}
type errorBody struct {
	Err  string `json:"error"`
	Code int    `json:"code"`
}

// MarshalJSON encodes the message and the code. HTTPstatus travels as the
// response status.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Err: e.Err.Error(), Code: e.Code})
}

// UnmarshalJSON decodes an error response body. HTTPstatus is left to the
// caller.
func (e *Error) UnmarshalJSON(data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	e.Err = errors.New(body.Err)
	e.Code = body.Code
	return nil
}

func (e Error) Error() string {
	return e.Err.Error()
}

// Is matches errors carrying the same code, so an Error decoded by a client
// matches the definition it was built from.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Write sends e as a JSON body with its HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	log.Debugw("api error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(e.HTTPstatus)
	if _, err := w.Write(msg); err != nil {
		log.Warnw("failed to write error response", "error", err.Error())
	}
}

// Withf returns a copy of e with the formatted string appended.
func (e Error) Withf(format string, args ...any) Error {
	return e.With(fmt.Sprintf(format, args...))
}

// With returns a copy of e with s appended.
func (e Error) With(s string) Error {
	return Error{Err: fmt.Errorf("%w: %s", e.Err, s), Code: e.Code, HTTPstatus: e.HTTPstatus}
}

// WithErr returns a copy of e with the message of err appended.
func (e Error) WithErr(err error) Error {
	return e.With(err.Error())
}
