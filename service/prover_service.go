package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/prover"
	"github.com/vocdoni/pod2-sandbox/storage"
)

// VerifierSetter receives the plonky POD verifier once the prover
// parameters are built.
type VerifierSetter interface {
	SetVerifier(v pod.ProofVerifier)
}

// ProverService builds the prover parameters of a tuple in the background
// and then runs the worker that proves the queued plonky jobs.
type ProverService struct {
	storage  *storage.Storage
	params   pod.Params
	opts     []prover.Option
	verifier VerifierSetter

	mu     sync.Mutex
	cancel context.CancelFunc
	worker *prover.Worker
	ready  chan struct{}
	err    error
}

// NewProver creates a ProverService. The verifier, when not nil, is set as
// soon as the parameters are available.
func NewProver(stg *storage.Storage, params pod.Params, verifier VerifierSetter, opts ...prover.Option) *ProverService {
	return &ProverService{
		storage:  stg,
		params:   params,
		opts:     opts,
		verifier: verifier,
	}
}

// Start builds the prover parameters and starts the worker, both in a
// background goroutine. It returns an error if the service is already
// running.
func (ps *ProverService) Start(ctx context.Context) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.cancel != nil {
		return fmt.Errorf("service already running")
	}
	if err := ps.params.Validate(); err != nil {
		return err
	}
	ctx, ps.cancel = context.WithCancel(ctx)
	ps.ready = make(chan struct{})
	ps.err = nil

	go func() {
		defer close(ps.ready)
		startTime := time.Now()
		log.Infow("building prover parameters", "params", ps.params.String())
		pp, err := prover.BuildProverParams(ps.params, ps.opts...)
		if err != nil {
			ps.fail(fmt.Errorf("failed to build prover parameters: %w", err))
			return
		}
		if ctx.Err() != nil {
			ps.fail(ctx.Err())
			return
		}
		log.Infow("prover parameters ready", "params", ps.params.String(), "took", time.Since(startTime).String())
		if ps.verifier != nil {
			ps.verifier.SetVerifier(pp.Verifier)
		}
		w, err := prover.NewWorker(ps.storage, pp)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			ps.fail(err)
			return
		}
		ps.mu.Lock()
		ps.worker = w
		ps.mu.Unlock()
	}()
	return nil
}

func (ps *ProverService) fail(err error) {
	log.Errorw(err, "prover service")
	ps.mu.Lock()
	ps.err = err
	ps.mu.Unlock()
}

// Wait blocks until the prover parameters are built, or failed to build,
// and returns the error if any.
func (ps *ProverService) Wait(ctx context.Context) error {
	ps.mu.Lock()
	ready := ps.ready
	ps.mu.Unlock()
	if ready == nil {
		return fmt.Errorf("service not started")
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.err
}

// Stop halts the worker.
func (ps *ProverService) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.cancel != nil {
		ps.cancel()
		ps.cancel = nil
	}
	if ps.worker != nil {
		if err := ps.worker.Stop(); err != nil {
			log.Warnw("prover worker stopped", "error", err)
		}
		ps.worker = nil
	}
}
