// Package pod1 reads, signs and verifies first-generation PODs: flat
// key/value records signed with EdDSA over Baby Jubjub and addressed by a
// BN254 Poseidon Lean-IMT root. Introduce turns a verified POD1 into a
// Schnorr POD usable by the deductive engine.
package pod1

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"slices"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

var (
	ErrInvalidValue     = errors.New("invalid pod1 value")
	ErrInvalidName      = errors.New("invalid pod1 entry name")
	ErrInvalidSignature = errors.New("invalid pod1 signature")
)

// nameRegex is the legal format of an entry name.
var nameRegex = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// Entries are the named values of a POD1.
type Entries map[string]Value

// Check validates every name and value.
func (e Entries) Check() error {
	if len(e) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidValue)
	}
	for name, v := range e {
		if !nameRegex.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if err := v.Check(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Names returns the entry names in sorted order.
func (e Entries) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ContentID is the Lean-IMT root over [hash(name), hash(value), ...] with
// names in sorted order.
func (e Entries) ContentID() (*big.Int, error) {
	if err := e.Check(); err != nil {
		return nil, err
	}
	leaves := make([]*big.Int, 0, 2*len(e))
	for _, name := range e.Names() {
		vh, err := e[name].Hash()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		leaves = append(leaves, hashBytes([]byte(name)), vh)
	}
	return poseidon.BN254LeanIMT(leaves)
}

// POD is a signed POD1.
type POD struct {
	Entries   Entries
	Signature babyjub.SignatureComp
	Signer    babyjub.PublicKeyComp
}

// Sign computes the content id of entries and signs it with sk.
func Sign(entries Entries, sk babyjub.PrivateKey) (*POD, error) {
	cid, err := entries.ContentID()
	if err != nil {
		return nil, err
	}
	sig := sk.SignPoseidon(cid)
	return &POD{
		Entries:   entries,
		Signature: sig.Compress(),
		Signer:    sk.Public().Compress(),
	}, nil
}

// ContentID recomputes the content id from the entries.
func (p *POD) ContentID() (*big.Int, error) {
	return p.Entries.ContentID()
}

// SignerKey decompresses the signer public key.
func (p *POD) SignerKey() (*babyjub.PublicKey, error) {
	pk, err := p.Signer.Decompress()
	if err != nil {
		return nil, fmt.Errorf("%w: signer key: %w", ErrInvalidSignature, err)
	}
	return pk, nil
}

// Verify checks the signature over the recomputed content id.
func (p *POD) Verify() error {
	cid, err := p.ContentID()
	if err != nil {
		return err
	}
	pk, err := p.SignerKey()
	if err != nil {
		return err
	}
	sig, err := p.Signature.Decompress()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !pk.VerifyPoseidon(cid, sig) {
		return fmt.Errorf("%w: content id %s", ErrInvalidSignature, cid)
	}
	return nil
}

type podJSON struct {
	Entries         Entries `json:"entries"`
	Signature       string  `json:"signature"`
	SignerPublicKey string  `json:"signerPublicKey"`
}

// MarshalJSON encodes the signature and key as unpadded base64.
func (p *POD) MarshalJSON() ([]byte, error) {
	return json.Marshal(podJSON{
		Entries:         p.Entries,
		Signature:       noPadB64.EncodeToString(p.Signature[:]),
		SignerPublicKey: noPadB64.EncodeToString(p.Signer[:]),
	})
}

// UnmarshalJSON accepts hex or base64 for the signature and key.
func (p *POD) UnmarshalJSON(data []byte) error {
	var raw podJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := raw.Entries.Check(); err != nil {
		return err
	}
	sig, err := DecodeBytes(raw.Signature, len(p.Signature))
	if err != nil {
		return fmt.Errorf("%w: signature: %w", ErrInvalidSignature, err)
	}
	signer, err := DecodeBytes(raw.SignerPublicKey, len(p.Signer))
	if err != nil {
		return fmt.Errorf("%w: signer key: %w", ErrInvalidSignature, err)
	}
	p.Entries = raw.Entries
	copy(p.Signature[:], sig)
	copy(p.Signer[:], signer)
	return nil
}

// DecodeBytes decodes exactly n bytes given as hex or base64.
func DecodeBytes(s string, n int) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if len(s) == 2*n {
		b, err = hex.DecodeString(s)
	} else {
		b, err = DecodeBase64(s)
	}
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, fmt.Errorf("expected %d bytes, got %d", n, len(b))
	}
	return b, nil
}

// DecodePublicKey decodes a compressed public key in hex or base64.
func DecodePublicKey(s string) (*babyjub.PublicKey, error) {
	b, err := DecodeBytes(s, len(babyjub.PublicKeyComp{}))
	if err != nil {
		return nil, fmt.Errorf("%w: eddsa_pubkey: %w", ErrInvalidValue, err)
	}
	var comp babyjub.PublicKeyComp
	copy(comp[:], b)
	pk, err := comp.Decompress()
	if err != nil {
		return nil, fmt.Errorf("%w: eddsa_pubkey: %w", ErrInvalidValue, err)
	}
	return pk, nil
}

// DecodePrivateKey decodes a 32 byte private key in hex or base64.
func DecodePrivateKey(s string) (babyjub.PrivateKey, error) {
	var sk babyjub.PrivateKey
	b, err := DecodeBytes(s, len(sk))
	if err != nil {
		return sk, fmt.Errorf("private key: %w", err)
	}
	copy(sk[:], b)
	return sk, nil
}
