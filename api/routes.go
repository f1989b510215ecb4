package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// MetricsEndpoint exposes the prometheus metrics
	MetricsEndpoint = "/metrics"
	// InfoEndpoint returns the parameters tuple and the prover status
	InfoEndpoint = "/info"

	// SchnorrPODEndpoint signs a set of entries into a Schnorr POD
	SchnorrPODEndpoint = "/pods/schnorr"
	// OraclePODEndpoint runs a set of ops over stored PODs into an oracle POD
	OraclePODEndpoint = "/pods/oracle"
	// POD1PODEndpoint introduces a Zupass POD1 as a Schnorr POD
	POD1PODEndpoint = "/pods/pod1"
	// PlonkyPODEndpoint queues a plonky proving job and returns its id
	PlonkyPODEndpoint = "/pods/plonky"
	ContentIDURLParam = "contentId"
	// PODEndpoint returns a stored POD
	PODEndpoint = "/pods/{" + ContentIDURLParam + "}"
	// VerifyPODEndpoint verifies a stored POD
	VerifyPODEndpoint = PODEndpoint + "/verify"

	// JobEndpoint returns the status of a proving job
	JobURLParam = "jobId"
	JobEndpoint = "/jobs/{" + JobURLParam + "}"

	// RegistryRootEndpoint returns the root of the POD registry tree
	RegistryRootEndpoint = "/registry/root"
	// RegistryProofEndpoint returns the registry proof of a content id
	RegistryProofEndpoint = "/registry/{" + ContentIDURLParam + "}"
)
