package prover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/storage"
)

// Worker takes pending plonky jobs from the storage queue, proves them and
// stores the resulting PODs.
type Worker struct {
	stg    *storage.Storage
	pp     *ProverParams
	ctx    context.Context
	cancel context.CancelFunc

	// tickInterval is how long the worker waits when the queue is empty.
	tickInterval time.Duration
}

// NewWorker creates a worker proving with pp the jobs queued in stg.
func NewWorker(stg *storage.Storage, pp *ProverParams) (*Worker, error) {
	if stg == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if pp == nil {
		return nil, fmt.Errorf("prover params cannot be nil")
	}
	return &Worker{stg: stg, pp: pp, tickInterval: time.Second}, nil
}

// Start begins processing jobs in a background goroutine until ctx is
// canceled or Stop is called.
func (w *Worker) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	ticker := time.NewTicker(w.tickInterval)

	go func() {
		defer ticker.Stop()
		log.Infow("plonky prover started", "params", w.pp.Params.String())

		for {
			select {
			case <-w.ctx.Done():
				log.Infow("plonky prover stopped")
				return
			default:
			}

			job, err := w.stg.NextJob()
			if err != nil {
				if !errors.Is(err, storage.ErrNoMoreElements) {
					log.Errorw(err, "failed to get next job")
				}
				select {
				case <-ticker.C:
				case <-w.ctx.Done():
					log.Infow("plonky prover stopped")
					return
				}
				continue
			}
			w.process(job)
		}
	}()
	return nil
}

// Stop cancels the worker context. It's safe to call Stop multiple times.
func (w *Worker) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

// process runs a job and records its outcome.
func (w *Worker) process(job *storage.Job) {
	log.Debugw("processing job", "id", job.ID)
	startTime := time.Now()

	p, err := w.prove(job.Request)
	if err != nil {
		log.Warnw("plonky job failed", "id", job.ID, "error", err.Error())
		job.Status = storage.JobFailed
		job.Error = err.Error()
		jobsCounter.WithLabelValues(string(storage.JobFailed)).Inc()
	} else {
		cid := p.ID()
		job.Status = storage.JobDone
		job.Result = &cid
		jobsCounter.WithLabelValues(string(storage.JobDone)).Inc()
		provingDuration.Observe(time.Since(startTime).Seconds())
		log.Infow("plonky job done",
			"id", job.ID,
			"contentId", cid.String(),
			"duration", time.Since(startTime).String())
	}
	if err := w.stg.MarkJobDone(job); err != nil {
		log.Warnw("failed to mark job as done", "id", job.ID, "error", err.Error())
	}
}

// prove resolves the inputs of req from storage and proves the ops.
func (w *Worker) prove(req storage.PlonkyRequest) (*pod.POD, error) {
	gpg, ops, err := ResolveRequest(w.stg, req)
	if err != nil {
		return nil, err
	}
	p, err := ExecutePlonkyGadget(w.pp, gpg, ops)
	if err != nil {
		return nil, err
	}
	if err := w.stg.SetPOD(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolveRequest loads the input PODs of req and decodes its ops.
func ResolveRequest(stg *storage.Storage, req storage.PlonkyRequest) (*pod.GPGInput, []pod.OpCmd, error) {
	named := make(map[string]*pod.POD, len(req.Inputs))
	for name, cid := range req.Inputs {
		p, err := stg.POD(cid)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: input pod %s", pod.ErrLookupMissing, cid)
			}
			return nil, nil, err
		}
		named[name] = p
	}
	var renames map[pod.OriginRef]string
	if len(req.Renames) > 0 {
		renames = make(map[pod.OriginRef]string, len(req.Renames))
		for _, r := range req.Renames {
			renames[pod.OriginRef{PodName: r.Pod, OriginName: r.Origin}] = r.Name
		}
	}
	gpg, err := pod.NewGPGInput(named, renames)
	if err != nil {
		return nil, nil, err
	}
	ops := make([]pod.OpCmd, 0, len(req.Ops))
	for i, r := range req.Ops {
		op, err := pod.OpCmdFromRecord(r)
		if err != nil {
			return nil, nil, fmt.Errorf("op %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return gpg, ops, nil
}
