package storage

import (
	"fmt"

	"github.com/vocdoni/arbo"
	"github.com/vocdoni/pod2-sandbox/types"
)

// registryHashFunction is the hash function of the registry tree.
var registryHashFunction = arbo.HashFunctionPoseidon

// RegistryProof proves that a content id is, or is not, registered under
// Root.
type RegistryProof struct {
	Root      types.HexBytes  `json:"root"`
	ContentID types.ContentID `json:"contentId"`
	Key       types.HexBytes  `json:"key"`
	Value     types.HexBytes  `json:"value"`
	Siblings  types.HexBytes  `json:"siblings"`
	Existence bool            `json:"existence"`
}

// RegistryRoot returns the root of the registry tree.
func (s *Storage) RegistryRoot() (types.HexBytes, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	root, err := s.registry.Root()
	if err != nil {
		return nil, err
	}
	return root, nil
}

// RegistryProof generates the registry proof of cid. For a content id that
// is not registered the proof shows its absence.
func (s *Storage) RegistryProof(cid types.ContentID) (*RegistryProof, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	root, err := s.registry.Root()
	if err != nil {
		return nil, err
	}
	leafK, leafV, siblings, existence, err := s.registry.GenProof(cid.Bytes())
	if err != nil {
		return nil, fmt.Errorf("registry proof: %w", err)
	}
	return &RegistryProof{
		Root:      root,
		ContentID: cid,
		Key:       leafK,
		Value:     leafV,
		Siblings:  siblings,
		Existence: existence,
	}, nil
}

// Verify checks an inclusion proof against its root. Exclusion proofs
// return false.
func (p *RegistryProof) Verify() (bool, error) {
	if !p.Existence {
		return false, nil
	}
	return arbo.CheckProof(registryHashFunction, p.ContentID.Bytes(), p.Value, p.Root, p.Siblings)
}
