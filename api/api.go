package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
	stg "github.com/vocdoni/pod2-sandbox/storage"
	"github.com/vocdoni/pod2-sandbox/types"
)

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port, the parameters tuple and an existing storage
// instance.
type APIConfig struct {
	Host    string
	Port    int
	Params  pod.Params
	Storage *stg.Storage
	// Verifier checks plonky PODs. It can be set later with SetVerifier,
	// once the prover parameters are built.
	Verifier pod.ProofVerifier
}

// API type represents the API HTTP server.
type API struct {
	router  *chi.Mux
	storage *stg.Storage
	params  pod.Params

	verifierLock sync.RWMutex
	verifier     pod.ProofVerifier
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	a, err := NewRouter(conf)
	if err != nil {
		return nil, err
	}
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// NewRouter creates the API without starting the HTTP server.
func NewRouter(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if err := conf.Params.Validate(); err != nil {
		return nil, err
	}
	a := &API{
		storage:  conf.Storage,
		params:   conf.Params,
		verifier: conf.Verifier,
	}
	a.initRouter()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// SetVerifier sets the verifier of plonky PODs.
func (a *API) SetVerifier(v pod.ProofVerifier) {
	a.verifierLock.Lock()
	defer a.verifierLock.Unlock()
	a.verifier = v
}

func (a *API) proofVerifier() pod.ProofVerifier {
	a.verifierLock.RLock()
	defer a.verifierLock.RUnlock()
	return a.verifier
}

// info returns the parameters tuple of the node and the digest of the
// verifying keys of its plonky PODs.
// GET /info
func (a *API) info(w http.ResponseWriter, r *http.Request) {
	res := &NodeInfo{Params: a.params}
	if v := a.proofVerifier(); v != nil {
		res.ProverReady = true
		if dv, ok := v.(DigestVerifier); ok {
			res.VKDigest = (*types.BigInt)(dv.VKDigest())
		}
	}
	httpWriteJSON(w, res)
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", MetricsEndpoint, "method", "GET")
	a.router.Handle(MetricsEndpoint, promhttp.Handler())
	log.Infow("register handler", "endpoint", InfoEndpoint, "method", "GET")
	a.router.Get(InfoEndpoint, a.info)
	// pods
	log.Infow("register handler", "endpoint", SchnorrPODEndpoint, "method", "POST")
	a.router.Post(SchnorrPODEndpoint, a.newSchnorrPOD)
	log.Infow("register handler", "endpoint", OraclePODEndpoint, "method", "POST")
	a.router.Post(OraclePODEndpoint, a.newOraclePOD)
	log.Infow("register handler", "endpoint", POD1PODEndpoint, "method", "POST")
	a.router.Post(POD1PODEndpoint, a.introducePOD1)
	log.Infow("register handler", "endpoint", PlonkyPODEndpoint, "method", "POST")
	a.router.Post(PlonkyPODEndpoint, a.newPlonkyJob)
	log.Infow("register handler", "endpoint", PODEndpoint, "method", "GET")
	a.router.Get(PODEndpoint, a.pod)
	log.Infow("register handler", "endpoint", VerifyPODEndpoint, "method", "GET")
	a.router.Get(VerifyPODEndpoint, a.verifyPOD)
	// jobs
	log.Infow("register handler", "endpoint", JobEndpoint, "method", "GET")
	a.router.Get(JobEndpoint, a.job)
	// registry
	log.Infow("register handler", "endpoint", RegistryRootEndpoint, "method", "GET")
	a.router.Get(RegistryRootEndpoint, a.registryRoot)
	log.Infow("register handler", "endpoint", RegistryProofEndpoint, "method", "GET")
	a.router.Get(RegistryProofEndpoint, a.registryProof)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(metricsMiddleware)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
