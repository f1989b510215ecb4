package service

import (
	"context"
	"time"

	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/prover"
	"golang.org/x/sync/errgroup"
)

// PrepareArtifacts compiles and sets up the circuits of every tuple
// concurrently, storing them in the artifacts cache so later starts load
// them from disk.
func PrepareArtifacts(timeout time.Duration, seed []byte, params ...pod.Params) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range params {
		g.Go(func() error {
			done := make(chan error, 1)
			go func() {
				_, _, err := prover.CircuitData(p, prover.WithSeed(seed), prover.WithArtifacts(true))
				done <- err
			}()
			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}
