package storage

import (
	"errors"
	"fmt"

	"github.com/vocdoni/arbo"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/types"
)

// SetPOD stores p by content id and registers the content id in the
// registry tree. Storing a POD whose content id is already stored keeps the
// first record; it fails with ErrPODConflict when the proof types differ.
func (s *Storage) SetPOD(p *pod.POD) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	rec := p.Record()
	key := rec.ContentID.Bytes()
	var stored pod.PODRecord
	err := s.getArtifact(podPrefix, key, &stored)
	switch {
	case err == nil && stored.ProofType != rec.ProofType:
		return fmt.Errorf("%w: %s is a %s pod", ErrPODConflict, rec.ContentID, stored.ProofType)
	case err == nil:
		return nil
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("load pod: %w", err)
	}
	if err := s.setArtifact(podPrefix, key, rec); err != nil {
		return fmt.Errorf("store pod: %w", err)
	}
	if err := s.registry.Add(key, []byte{byte(p.ProofType)}); err != nil {
		if errors.Is(err, arbo.ErrKeyAlreadyExists) {
			return nil
		}
		return fmt.Errorf("register pod: %w", err)
	}
	log.Debugw("pod stored", "contentId", rec.ContentID.String(), "proofType", rec.ProofType)
	return nil
}

// POD returns the POD stored under cid. Returns ErrNotFound if it does not
// exist.
func (s *Storage) POD(cid types.ContentID) (*pod.POD, error) {
	var rec pod.PODRecord
	if err := s.getArtifact(podPrefix, cid.Bytes(), &rec); err != nil {
		return nil, err
	}
	return pod.PODFromRecord(rec)
}

// ListPODs returns the content ids of every stored POD.
func (s *Storage) ListPODs() ([]types.ContentID, error) {
	keys, err := s.listArtifacts(podPrefix)
	if err != nil {
		return nil, err
	}
	cids := make([]types.ContentID, 0, len(keys))
	for _, k := range keys {
		cid, err := types.ContentIDFromBytes(k)
		if err != nil {
			return nil, err
		}
		cids = append(cids, cid)
	}
	return cids, nil
}
