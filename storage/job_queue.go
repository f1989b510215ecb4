package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/pod2-sandbox/log"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// PushJob stores a new job and places it into the pending jobs queue.
func (s *Storage) PushJob(job *Job) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if job.ID == "" {
		return fmt.Errorf("job without id")
	}
	job.Status = JobPending
	job.Created = time.Now()
	job.Updated = job.Created
	if err := s.setArtifact(jobPrefix, []byte(job.ID), job); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return s.setArtifact(pendingJobPrefix, []byte(job.ID), job.Request)
}

// Job returns the job identified by id. Returns ErrNotFound if it does not
// exist.
func (s *Storage) Job(id string) (*Job, error) {
	job := &Job{}
	if err := s.getArtifact(jobPrefix, []byte(id), job); err != nil {
		return nil, err
	}
	return job, nil
}

// NextJob returns the next non-reserved pending job, creates a reservation
// and marks the job as running. If no jobs are available, returns
// ErrNoMoreElements.
func (s *Storage) NextJob() (*Job, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	pr := prefixeddb.NewPrefixedReader(s.db, pendingJobPrefix)
	var chosenKey []byte
	if err := pr.Iterate(nil, func(k, _ []byte) bool {
		// check if reserved
		if s.isReserved(jobReservPrefix, k) {
			return true
		}
		chosenKey = append([]byte(nil), k...)
		return false
	}); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	if chosenKey == nil {
		return nil, ErrNoMoreElements
	}

	job := &Job{}
	if err := s.getArtifact(jobPrefix, chosenKey, job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}

	// set reservation
	if err := s.setReservation(jobReservPrefix, chosenKey); err != nil {
		return nil, ErrNoMoreElements
	}
	job.Status = JobRunning
	job.Updated = time.Now()
	if err := s.setArtifact(jobPrefix, chosenKey, job); err != nil {
		log.Warnw("failed to update job status", "id", job.ID, "error", err.Error())
	}
	return job, nil
}

// MarkJobDone is called after the prover has processed the job, which must
// carry its final status. The job leaves the pending queue.
func (s *Storage) MarkJobDone(job *Job) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	key := []byte(job.ID)
	// remove reservation
	if err := s.deleteArtifact(jobReservPrefix, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete reservation: %w", err)
	}
	// remove from pending queue
	if err := s.deleteArtifact(pendingJobPrefix, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete pending job: %w", err)
	}
	job.Updated = time.Now()
	return s.setArtifact(jobPrefix, key, job)
}

// CountPendingJobs returns the number of jobs waiting in the queue,
// reserved or not.
func (s *Storage) CountPendingJobs() int {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	count := 0
	if err := prefixeddb.NewPrefixedReader(s.db, pendingJobPrefix).Iterate(nil, func(_, _ []byte) bool {
		count++
		return true
	}); err != nil {
		log.Warnw("failed to count pending jobs", "error", err.Error())
	}
	return count
}
