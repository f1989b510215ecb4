package circuits

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/types"
)

// CheckHashes is a flag that determines if the hashes of the artifacts should
// be checked when they are loaded. It can be set to false by setting the
// POD2_CHECK_HASHES environment variable to false or 0.
var CheckHashes = true

// BaseDir is the path of the artifact cache. Defaults to the env var
// POD2_ARTIFACTS_DIR or ~/.pod2/artifacts.
var BaseDir string

func init() {
	if checkHashes := os.Getenv("POD2_CHECK_HASHES"); checkHashes != "" {
		if strings.ToLower(checkHashes) == "false" || checkHashes == "0" {
			CheckHashes = false
		}
	}
	if dir := os.Getenv("POD2_ARTIFACTS_DIR"); dir != "" {
		BaseDir = dir
	} else {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			log.Warnf("unable to access user home directory, using temporary directory: %v", err)
			BaseDir = filepath.Join(os.TempDir(), "pod2-artifacts")
		} else {
			BaseDir = filepath.Join(home, ".pod2", "artifacts")
		}
	}
}

// Artifact is a cached blob addressed by the sha256 hash of its content.
type Artifact struct {
	Hash    types.HexBytes
	Content []byte
}

// Load reads the artifact content from the cache unless it is already
// loaded, checking its hash when CheckHashes is set.
func (a *Artifact) Load() error {
	if len(a.Content) != 0 {
		return nil
	}
	if len(a.Hash) == 0 {
		return fmt.Errorf("artifact hash not provided")
	}
	content, err := load(a.Hash)
	if err != nil {
		return err
	}
	if content == nil {
		return fmt.Errorf("artifact %x not found", []byte(a.Hash))
	}
	a.Content = content
	return nil
}

// Reader returns a reader over the loaded content.
func (a *Artifact) Reader() io.Reader {
	return bytes.NewReader(a.Content)
}

// CircuitArtifacts are the artifacts of a circuit set stored under a key,
// usually the parameters tuple the circuits were compiled for. A manifest
// maps every artifact name to its hash.
type CircuitArtifacts struct {
	key       string
	artifacts map[string]*Artifact
}

// NewCircuitArtifacts returns an empty artifact set for key.
func NewCircuitArtifacts(key string) *CircuitArtifacts {
	return &CircuitArtifacts{key: key, artifacts: make(map[string]*Artifact)}
}

func (ca *CircuitArtifacts) manifestPath() string {
	return filepath.Join(BaseDir, ca.key+".json")
}

// Add serializes obj under name.
func (ca *CircuitArtifacts) Add(name string, obj io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := obj.WriteTo(&buf); err != nil {
		return fmt.Errorf("error serializing %s: %w", name, err)
	}
	hash := sha256.Sum256(buf.Bytes())
	ca.artifacts[name] = &Artifact{Hash: hash[:], Content: buf.Bytes()}
	return nil
}

// Get returns the artifact stored under name.
func (ca *CircuitArtifacts) Get(name string) (*Artifact, bool) {
	a, ok := ca.artifacts[name]
	return a, ok
}

// Store writes every artifact and the manifest to BaseDir.
func (ca *CircuitArtifacts) Store() error {
	if err := os.MkdirAll(BaseDir, 0o755); err != nil {
		return fmt.Errorf("error creating the base directory: %w", err)
	}
	manifest := make(map[string]types.HexBytes, len(ca.artifacts))
	for name, a := range ca.artifacts {
		path := filepath.Join(BaseDir, hex.EncodeToString(a.Hash))
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return fmt.Errorf("error writing artifact %s: %w", name, err)
		}
		manifest[name] = a.Hash
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ca.manifestPath(), data, 0o644); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}
	log.Debugw("circuit artifacts stored", "key", ca.key, "dir", BaseDir, "artifacts", len(manifest))
	return nil
}

// LoadAll reads the manifest and loads every artifact it lists. It returns
// false without error when there is no manifest for the key.
func (ca *CircuitArtifacts) LoadAll() (bool, error) {
	data, err := os.ReadFile(ca.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("error reading manifest: %w", err)
	}
	manifest := make(map[string]types.HexBytes)
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false, fmt.Errorf("error decoding manifest: %w", err)
	}
	for name, hash := range manifest {
		a := &Artifact{Hash: hash}
		if err := a.Load(); err != nil {
			return false, fmt.Errorf("error loading %s: %w", name, err)
		}
		ca.artifacts[name] = a
	}
	return true, nil
}

func load(hash []byte) ([]byte, error) {
	path := filepath.Join(BaseDir, hex.EncodeToString(hash))
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	if CheckHashes {
		fileHash := sha256.Sum256(content)
		if !bytes.Equal(fileHash[:], hash) {
			return nil, fmt.Errorf("hash mismatch for file %s: expected %x, got %x", path, hash, fileHash)
		}
	}
	return content, nil
}
