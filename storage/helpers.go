package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// reservationTTL is how long a reservation holds. Reservations left behind
// by a stopped prover expire after it.
const reservationTTL = 30 * time.Minute

// Artifact encoding/decoding
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// isReserved reports whether key holds a live reservation under prefix.
func (s *Storage) isReserved(prefix, key []byte) bool {
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil || len(data) != 8 {
		return false
	}
	at := time.Unix(int64(binary.BigEndian.Uint64(data)), 0)
	return time.Since(at) < reservationTTL
}

// setReservation reserves key under prefix.
func (s *Storage) setReservation(prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, binary.BigEndian.AppendUint64(nil, uint64(time.Now().Unix()))); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}
