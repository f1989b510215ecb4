package storage

import (
	"time"

	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/types"
)

// JobStatus is the state of a proving job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Rename overrides the name an origin of an input POD is rewritten to.
type Rename struct {
	Pod    string `json:"pod"    cbor:"0,keyasint"`
	Origin string `json:"origin" cbor:"1,keyasint"`
	Name   string `json:"name"   cbor:"2,keyasint"`
}

// PlonkyRequest is the input of a plonky proving job: stored PODs bound to
// local names and the ops to prove over them.
type PlonkyRequest struct {
	Inputs  map[string]types.ContentID `json:"inputs"            cbor:"0,keyasint"`
	Renames []Rename                   `json:"renames,omitempty" cbor:"1,keyasint,omitempty"`
	Ops     []pod.OpCmdRecord          `json:"ops"               cbor:"2,keyasint"`
}

// Job is a plonky proving job.
type Job struct {
	ID      string           `json:"id"                cbor:"0,keyasint"`
	Status  JobStatus        `json:"status"            cbor:"1,keyasint"`
	Request PlonkyRequest    `json:"request"           cbor:"2,keyasint"`
	Result  *types.ContentID `json:"result,omitempty"  cbor:"3,keyasint,omitempty"`
	Error   string           `json:"error,omitempty"   cbor:"4,keyasint,omitempty"`
	Created time.Time        `json:"created"           cbor:"5,keyasint"`
	Updated time.Time        `json:"updated"           cbor:"6,keyasint"`
}
