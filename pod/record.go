package pod

import (
	"encoding/json"
	"fmt"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
	"github.com/vocdoni/pod2-sandbox/types"
)

// ValueRecord is the serializable form of a Value. Fields holds the scalar
// or bool element, the vector limbs or the point coordinates.
type ValueRecord struct {
	Kind   string         `json:"kind"             cbor:"0,keyasint"`
	Fields []uint64       `json:"fields,omitempty" cbor:"1,keyasint,omitempty"`
	Data   types.HexBytes `json:"data,omitempty"   cbor:"2,keyasint,omitempty"`
	Date   int64          `json:"date,omitempty"   cbor:"3,keyasint,omitempty"`
}

// AnchoredKeyRecord is the serializable form of an AnchoredKey.
type AnchoredKeyRecord struct {
	OriginID   uint64 `json:"originId"             cbor:"0,keyasint"`
	OriginName string `json:"originName,omitempty" cbor:"1,keyasint,omitempty"`
	Gadget     string `json:"gadget"               cbor:"2,keyasint"`
	Key        string `json:"key"                  cbor:"3,keyasint"`
}

// StatementRecord is a labeled statement in serializable form.
type StatementRecord struct {
	Label     string              `json:"label"           cbor:"0,keyasint"`
	Predicate string              `json:"predicate"       cbor:"1,keyasint"`
	Keys      []AnchoredKeyRecord `json:"keys,omitempty"  cbor:"2,keyasint,omitempty"`
	Value     *ValueRecord        `json:"value,omitempty" cbor:"3,keyasint,omitempty"`
}

// PODRecord is the serializable form of a POD, shared by the API (json) and
// the store (cbor).
type PODRecord struct {
	ContentID  types.ContentID    `json:"contentId"           cbor:"0,keyasint"`
	ProofType  string             `json:"proofType"           cbor:"1,keyasint"`
	Statements []StatementRecord  `json:"statements"          cbor:"2,keyasint"`
	Signature  *schnorr.Signature `json:"signature,omitempty" cbor:"3,keyasint,omitempty"`
	Proof      types.HexBytes     `json:"proof,omitempty"     cbor:"4,keyasint,omitempty"`
}

// Record returns the serializable form of v.
func (v Value) Record() ValueRecord {
	r := ValueRecord{Kind: v.kind.String()}
	switch v.kind {
	case KindScalar, KindBool:
		r.Fields = []uint64{v.scalar.Uint64()}
	case KindVector:
		r.Fields = field.Uint64s(v.vector)
	case KindPoint:
		r.Fields = []uint64{v.x.Uint64(), v.y.Uint64()}
	case KindBytes, KindString:
		r.Data = types.HexBytes(v.data)
	case KindDate:
		r.Date = v.date
	}
	return r
}

// ValueFromRecord decodes a ValueRecord. Field elements must be canonical.
func ValueFromRecord(r ValueRecord) (Value, error) {
	kind, err := KindFromString(r.Kind)
	if err != nil {
		return Value{}, err
	}
	elems, err := field.FromUint64s(r.Fields)
	if err != nil {
		return Value{}, err
	}
	wantFields := map[ValueKind]int{KindScalar: 1, KindBool: 1, KindPoint: 2}
	if n, ok := wantFields[kind]; ok && len(elems) != n {
		return Value{}, fmt.Errorf("%w: %s needs %d fields, got %d", ErrInputShape, kind, n, len(elems))
	}
	switch kind {
	case KindScalar:
		return Scalar(elems[0]), nil
	case KindBool:
		if r.Fields[0] > 1 {
			return Value{}, fmt.Errorf("%w: bool value %d", ErrTypeMismatch, r.Fields[0])
		}
		return Bool(r.Fields[0] == 1), nil
	case KindVector:
		return Vector(len(elems), elems...)
	case KindPoint:
		return Point(elems[0], elems[1]), nil
	case KindBytes:
		return Bytes(r.Data), nil
	case KindString:
		return String(string(r.Data)), nil
	case KindDate:
		return DateMillis(r.Date), nil
	default:
		return Null(), nil
	}
}

// Record returns the serializable form of ak.
func (ak AnchoredKey) Record() AnchoredKeyRecord {
	return AnchoredKeyRecord{
		OriginID:   ak.Origin.ID.Uint64(),
		OriginName: ak.Origin.Name,
		Gadget:     ak.Origin.Gadget.String(),
		Key:        ak.Key,
	}
}

// AnchoredKeyFromRecord decodes an AnchoredKeyRecord.
func AnchoredKeyFromRecord(r AnchoredKeyRecord) (AnchoredKey, error) {
	id, err := field.FromCanonical(r.OriginID)
	if err != nil {
		return AnchoredKey{}, err
	}
	gadget, err := GadgetFromString(r.Gadget)
	if err != nil {
		return AnchoredKey{}, err
	}
	return NewAnchoredKey(Origin{ID: id, Name: r.OriginName, Gadget: gadget}, r.Key), nil
}

// Record returns the serializable form of ls.
func (ls LabeledStatement) Record() StatementRecord {
	r := StatementRecord{Label: ls.Label, Predicate: ls.Statement.Predicate.String()}
	for _, ak := range ls.Statement.Keys {
		r.Keys = append(r.Keys, ak.Record())
	}
	if ls.Statement.Predicate == PredValueOf {
		vr := ls.Statement.Value.Record()
		r.Value = &vr
	}
	return r
}

// StatementFromRecord decodes a StatementRecord, checking the arity of the
// predicate.
func StatementFromRecord(r StatementRecord) (LabeledStatement, error) {
	pred, err := PredicateFromString(r.Predicate)
	if err != nil {
		return LabeledStatement{}, err
	}
	if len(r.Keys) != pred.Arity() {
		return LabeledStatement{}, fmt.Errorf("%w: %s with %d keys", ErrInputShape, pred, len(r.Keys))
	}
	st := Statement{Predicate: pred}
	for _, kr := range r.Keys {
		ak, err := AnchoredKeyFromRecord(kr)
		if err != nil {
			return LabeledStatement{}, err
		}
		st.Keys = append(st.Keys, ak)
	}
	if pred == PredValueOf {
		if r.Value == nil {
			return LabeledStatement{}, fmt.Errorf("%w: VALUEOF without value", ErrInputShape)
		}
		if st.Value, err = ValueFromRecord(*r.Value); err != nil {
			return LabeledStatement{}, err
		}
	}
	return LabeledStatement{Label: r.Label, Statement: st}, nil
}

// Record returns the serializable form of p.
func (p *POD) Record() PODRecord {
	r := PODRecord{
		ContentID: types.ContentID(p.contentID.Uint64()),
		ProofType: p.ProofType.String(),
		Signature: p.Proof.Signature,
		Proof:     p.Proof.Plonky,
	}
	for _, ls := range p.Payload {
		r.Statements = append(r.Statements, ls.Record())
	}
	return r
}

// PODFromRecord decodes a PODRecord, keeping the statement order. The
// recomputed content id must match the recorded one.
func PODFromRecord(r PODRecord) (*POD, error) {
	proofType, err := GadgetFromString(r.ProofType)
	if err != nil {
		return nil, err
	}
	payload := make(Payload, 0, len(r.Statements))
	for _, sr := range r.Statements {
		ls, err := StatementFromRecord(sr)
		if err != nil {
			return nil, fmt.Errorf("statement %q: %w", sr.Label, err)
		}
		payload = append(payload, ls)
	}
	p := NewPOD(payload, Proof{Signature: r.Signature, Plonky: r.Proof}, proofType)
	if types.ContentID(p.contentID.Uint64()) != r.ContentID {
		return nil, fmt.Errorf("%w: recorded content id %s does not match payload", ErrSignatureInvalid, r.ContentID)
	}
	return p, nil
}

func (p *POD) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Record())
}

func (p *POD) UnmarshalJSON(data []byte) error {
	var r PODRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := PODFromRecord(r)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// EntryRecord is the serializable form of an Entry.
type EntryRecord struct {
	Key   string      `json:"key"   cbor:"0,keyasint"`
	Value ValueRecord `json:"value" cbor:"1,keyasint"`
}

func (e Entry) Record() EntryRecord {
	return EntryRecord{Key: e.Key, Value: e.Value.Record()}
}

// EntryFromRecord decodes an EntryRecord.
func EntryFromRecord(r EntryRecord) (Entry, error) {
	v, err := ValueFromRecord(r.Value)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %q: %w", r.Key, err)
	}
	return NewEntry(r.Key, v), nil
}

// OpCmdRecord is an operation over statement references, as submitted to
// the API.
type OpCmdRecord struct {
	Op       string         `json:"op"`
	Label    string         `json:"label"`
	Operands []StatementRef `json:"operands,omitempty"`
	Entry    *EntryRecord   `json:"entry,omitempty"`
}

// OpCmdFromRecord decodes an OpCmdRecord.
func OpCmdFromRecord(r OpCmdRecord) (OpCmd, error) {
	code, err := OpCodeFromString(r.Op)
	if err != nil {
		return OpCmd{}, err
	}
	op := Operation{Code: code}
	for _, ref := range r.Operands {
		op.Operands = append(op.Operands, ref)
	}
	if r.Entry != nil {
		e, err := EntryFromRecord(*r.Entry)
		if err != nil {
			return OpCmd{}, err
		}
		op.Entry = &e
	}
	if code == OpNewEntry && op.Entry == nil {
		return OpCmd{}, fmt.Errorf("%w: NewEntry without entry", ErrInputShape)
	}
	if len(op.Operands) != code.Arity() {
		return OpCmd{}, fmt.Errorf("%w: %s takes %d operands, got %d", ErrInputShape, code, code.Arity(), len(op.Operands))
	}
	return NewOpCmd(op, r.Label), nil
}
