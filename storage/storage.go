// storage package contains all the artifacts that are stored in the database,
// but also is an abstraction of a queue for the processing of them by the
// prover. The storage package includes a prefixed key-value store that allows
// to store the different types of artifacts in the database. The following
// prefixes are used:
//   - 'p/' for PODs, keyed by content id
//   - 'j/' for proving jobs
//   - 'q/' for pending proving jobs (queued)
//   - 'qr/' for reservations of pending jobs
//   - 'r/' for the registry tree of stored content ids
//
// Note: Not all the prefixes support queue operations, only the ones that are
// used in the processing of the artifacts.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vocdoni/arbo"
	"github.com/vocdoni/pod2-sandbox/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	// Prefixes for the keys in the database.
	podPrefix        = []byte("p/")
	jobPrefix        = []byte("j/")
	pendingJobPrefix = []byte("q/")
	jobReservPrefix  = []byte("qr/")
	registryPrefix   = []byte("r/")

	// ErrNotFound is returned when an artifact is not in the database.
	ErrNotFound = errors.New("not found")
	// ErrNoMoreElements is returned when a queue has no unreserved element.
	ErrNoMoreElements = errors.New("no more elements")
	// ErrPODConflict is returned when a content id is already stored with
	// a different proof type.
	ErrPODConflict = errors.New("content id already stored with another proof type")
)

// Storage is the interface that wraps the basic methods to interact with the
// storage.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
	registry   *arbo.Tree
}

// New creates a new Storage instance and opens the registry tree.
func New(database db.Database) (*Storage, error) {
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(database, registryPrefix),
		MaxLevels:    types.RegistryTreeMaxLevels,
		HashFunction: registryHashFunction,
	})
	if err != nil {
		return nil, fmt.Errorf("open registry tree: %w", err)
	}
	return &Storage{db: database, registry: tree}, nil
}

// Close closes the storage.
func (s *Storage) Close() {
	s.db.Close()
}

// setArtifact encodes the artifact and stores it under prefix/key.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// getArtifact decodes the artifact stored under prefix/key into out. It
// returns ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return decodeArtifact(data, out)
}

// deleteArtifact removes prefix/key. It returns ErrNotFound if the key does
// not exist.
func (s *Storage) deleteArtifact(prefix, key []byte) error {
	if _, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// listArtifacts returns the keys stored under prefix.
func (s *Storage) listArtifacts(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	if err := prefixeddb.NewPrefixedReader(s.db, prefix).Iterate(nil, func(k, _ []byte) bool {
		keys = append(keys, append([]byte(nil), k...))
		return true
	}); err != nil {
		return nil, err
	}
	return keys, nil
}
