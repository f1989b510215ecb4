package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/vocdoni/pod2-sandbox/api"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/storage"
)

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage *storage.Storage
	params  pod.Params
	api     *api.API
	mu      sync.Mutex
	cancel  context.CancelFunc
	host    string
	port    int
}

// NewAPI creates a new APIService instance serving the PODs of params.
func NewAPI(storage *storage.Storage, params pod.Params, host string, port int) *APIService {
	return &APIService{
		storage: storage,
		params:  params,
		host:    host,
		port:    port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	_, as.cancel = context.WithCancel(ctx)

	// Create API instance with existing storage
	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:    as.host,
		Port:    as.port,
		Params:  as.params,
		Storage: as.storage,
	})
	if err != nil {
		as.cancel()
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}

// Stop halts the API service. The storage is owned by the caller.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
}

// SetVerifier forwards the plonky POD verifier to the running API.
func (as *APIService) SetVerifier(v pod.ProofVerifier) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api != nil {
		as.api.SetVerifier(v)
	}
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
