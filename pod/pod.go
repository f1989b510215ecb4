// Package pod implements portable data objects: signed key/value records
// addressed by the hash of their statements, and the deductive engine that
// derives new statements from the statements of named input PODs.
package pod

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/types"
)

const (
	// SignerKey is the entry holding the public key of a Schnorr POD.
	SignerKey = "_signer"
	// DummyStatementPrefix labels the None statements padding a Schnorr POD.
	DummyStatementPrefix = "_DUMMY_STATEMENT"
)

// OracleSecretKey is the fixed key oracle PODs are signed with.
var OracleSecretKey = schnorr.SecretKey{Sk: 0}

// Proof is the proof of a POD: a Schnorr signature for Schnorr and oracle
// PODs, a serialized recursion proof for Plonky PODs.
type Proof struct {
	Signature *schnorr.Signature
	Plonky    []byte
}

// POD is an immutable payload of NS labeled statements, its content id and
// the proof produced by a gadget.
type POD struct {
	Payload   Payload
	Proof     Proof
	ProofType GadgetID
	contentID field.Element
}

// NewPOD assembles a POD, computing its content id from payload.
func NewPOD(payload Payload, proof Proof, proofType GadgetID) *POD {
	return &POD{
		Payload:   payload,
		Proof:     proof,
		ProofType: proofType,
		contentID: payload.ContentID(),
	}
}

// ContentID returns the content id computed at construction.
func (p *POD) ContentID() field.Element {
	return p.contentID
}

// ID returns the content id as the storage and API key.
func (p *POD) ID() types.ContentID {
	return types.ContentID(field.Uint64(p.contentID))
}

// Signer returns the public key stored in the _signer entry.
func (p *POD) Signer() (schnorr.PublicKey, error) {
	st, ok := p.Payload.Lookup(Label(PredValueOf, SignerKey))
	if !ok {
		return schnorr.PublicKey{}, fmt.Errorf("%w: no %s entry", ErrLookupMissing, SignerKey)
	}
	if st.Value.Kind() != KindScalar {
		return schnorr.PublicKey{}, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, SignerKey, st.Value.Kind())
	}
	return schnorr.PublicKey{Pk: st.Value.Field()}, nil
}

// ExecuteSchnorrGadget signs entries with sk. Entries are sorted by key, a
// _signer entry with the public key is appended, and the resulting ValueOf
// statements are padded with None up to NS.
func ExecuteSchnorrGadget(params Params, entries []Entry, sk schnorr.SecretKey) (*POD, error) {
	if len(entries)+1 > params.NS {
		return nil, fmt.Errorf("%w: %d entries plus signer exceed %d statements",
			ErrInputShape, len(entries), params.NS)
	}
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	statements := make(map[string]Statement, len(sorted)+1)
	for i, e := range sorted {
		if e.Key == SignerKey {
			return nil, fmt.Errorf("%w: %s is reserved", ErrInputShape, SignerKey)
		}
		if i > 0 && sorted[i-1].Key == e.Key {
			return nil, fmt.Errorf("%w: duplicated key %q", ErrInputShape, e.Key)
		}
		value, err := e.Value.Resize(params.VL)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Key, err)
		}
		statements[Label(PredValueOf, e.Key)] = StatementFromEntry(NewEntry(e.Key, value), GadgetSchnorr16)
	}
	signer := NewEntry(SignerKey, Scalar(sk.PublicKey().Pk))
	statements[Label(PredValueOf, SignerKey)] = StatementFromEntry(signer, GadgetSchnorr16)

	payload, err := NewPayload(statements).Pad(params.NS, DummyStatementPrefix)
	if err != nil {
		return nil, err
	}
	cid := payload.ContentID()
	sig, err := schnorr.Sign([]field.Element{cid}, sk, nil)
	if err != nil {
		return nil, err
	}
	log.Debugw("schnorr pod signed", "contentId", cid.String(), "entries", len(entries))
	return &POD{
		Payload:   payload,
		Proof:     Proof{Signature: &sig},
		ProofType: GadgetSchnorr16,
		contentID: cid,
	}, nil
}

// ExecuteOracleGadget runs ops over gpg on the host and signs the derived
// payload with OracleSecretKey.
func ExecuteOracleGadget(params Params, gpg *GPGInput, ops []OpCmd) (*POD, error) {
	exec, err := ExecuteOps(params, gpg, ops, GadgetOracle)
	if err != nil {
		return nil, err
	}
	cid := exec.Payload.ContentID()
	sig, err := schnorr.Sign([]field.Element{cid}, OracleSecretKey, nil)
	if err != nil {
		return nil, err
	}
	log.Debugw("oracle pod signed", "contentId", cid.String(), "inputs", len(gpg.PODs))
	return &POD{
		Payload:   exec.Payload,
		Proof:     Proof{Signature: &sig},
		ProofType: GadgetOracle,
		contentID: cid,
	}, nil
}

// ProofVerifier checks the recursion proof of a Plonky POD.
type ProofVerifier interface {
	VerifyPlonkyPOD(p *POD) error
}

type verifyConfig struct {
	verifier ProofVerifier
	params   *Params
}

// VerifyOption configures Verify.
type VerifyOption func(*verifyConfig)

// WithProofVerifier sets the verifier used for Plonky PODs.
func WithProofVerifier(v ProofVerifier) VerifyOption {
	return func(c *verifyConfig) {
		c.verifier = v
	}
}

// WithParams requires the payload to have exactly params.NS statements.
func WithParams(params Params) VerifyOption {
	return func(c *verifyConfig) {
		c.params = &params
	}
}

// Verify recomputes the content id from the stored payload order and checks
// the proof. It returns nil only for a valid POD.
func (p *POD) Verify(opts ...VerifyOption) error {
	cfg := &verifyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.params != nil && len(p.Payload) != cfg.params.NS {
		return fmt.Errorf("%w: %d statements, expected %d", ErrInputShape, len(p.Payload), cfg.params.NS)
	}
	cid := p.Payload.ContentID()
	if !cid.Equal(&p.contentID) {
		return fmt.Errorf("%w: content id mismatch", ErrSignatureInvalid)
	}

	switch p.ProofType {
	case GadgetSchnorr16, GadgetOracle:
		if p.Proof.Signature == nil {
			return fmt.Errorf("%w: %s pod without signature", ErrSignatureInvalid, p.ProofType)
		}
		pk := OracleSecretKey.PublicKey()
		if p.ProofType == GadgetSchnorr16 {
			var err error
			if pk, err = p.Signer(); err != nil {
				return err
			}
		}
		if !schnorr.Verify(*p.Proof.Signature, []field.Element{cid}, pk) {
			return fmt.Errorf("%w: %s pod %s", ErrSignatureInvalid, p.ProofType, cid.String())
		}
		return nil
	case GadgetPlonky:
		if cfg.verifier == nil {
			return fmt.Errorf("%w: no verifier for plonky pod", ErrProofInvalid)
		}
		if err := cfg.verifier.VerifyPlonkyPOD(p); err != nil {
			return fmt.Errorf("%w: %w", ErrProofInvalid, err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown proof type %s", ErrProofInvalid, p.ProofType)
}
