package pod1

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
)

const (
	// SignerEntry holds the compressed EdDSA key of the POD1 signer.
	SignerEntry = "_pod1_signer"
	// ContentIDEntry holds the 32 byte big-endian POD1 content id.
	ContentIDEntry = "_pod1_content_id"
)

// Introduce verifies p and re-signs its entries as a Schnorr POD with sk.
// The POD1 signer and content id are carried as two extra entries, so the
// introduced POD needs len(p.Entries)+3 statements.
func Introduce(params pod.Params, p *POD, sk schnorr.SecretKey) (*pod.POD, error) {
	if err := p.Verify(); err != nil {
		return nil, err
	}
	cid, err := p.ContentID()
	if err != nil {
		return nil, err
	}
	entries := make([]pod.Entry, 0, len(p.Entries)+2)
	for _, name := range p.Entries.Names() {
		v, err := p.Entries[name].ToPOD()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		entries = append(entries, pod.NewEntry(name, v))
	}
	entries = append(entries,
		pod.NewEntry(SignerEntry, pod.Bytes(p.Signer[:])),
		pod.NewEntry(ContentIDEntry, pod.Bytes(cid.FillBytes(make([]byte, 32)))),
	)
	introduced, err := pod.ExecuteSchnorrGadget(params, entries, sk)
	if err != nil {
		return nil, err
	}
	log.Debugw("pod1 introduced", "pod1ContentId", cid.String(), "contentId", introduced.ID().String())
	return introduced, nil
}

// ToPOD converts the value to an engine value. Ints and dates keep their
// numeric meaning: non-negative ints become scalars and negative ints wrap
// into the field. Values wider than the field are carried as 32 byte
// big-endian bytes.
func (v Value) ToPOD() (pod.Value, error) {
	if err := v.Check(); err != nil {
		return pod.Value{}, err
	}
	switch v.Type {
	case NullValue:
		return pod.Null(), nil
	case StringValue:
		return pod.String(v.Str), nil
	case BytesValue:
		return pod.Bytes(v.Bytes), nil
	case BooleanValue:
		return pod.Bool(v.Bool), nil
	case IntValue:
		return pod.Scalar(field.FromInt64(v.Int.Int64())), nil
	case DateValue:
		return pod.Date(v.Time), nil
	case CryptographicValue:
		if v.Int.Cmp(new(big.Int).SetUint64(field.Modulus)) < 0 {
			return pod.Scalar(field.New(v.Int.Uint64())), nil
		}
		return pod.Bytes(v.Int.FillBytes(make([]byte, 32))), nil
	case EdDSAPubkeyValue:
		comp := v.PubKey.Compress()
		return pod.Bytes(comp[:]), nil
	}
	return pod.Value{}, fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, v.Type)
}
