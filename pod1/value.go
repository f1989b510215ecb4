package pod1

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/constants"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

// ValueType names the variant of a POD1 value, as used in its typed JSON
// form.
type ValueType string

const (
	NullValue          ValueType = "null"
	StringValue        ValueType = "string"
	BytesValue         ValueType = "bytes"
	CryptographicValue ValueType = "cryptographic"
	IntValue           ValueType = "int"
	BooleanValue       ValueType = "boolean"
	EdDSAPubkeyValue   ValueType = "eddsa_pubkey"
	DateValue          ValueType = "date"
)

var (
	// maxSafeJSInt bounds the integers written as bare JSON numbers.
	maxSafeJSInt = big.NewInt(1<<53 - 1)

	minInt64 = big.NewInt(-1 << 63)
	maxInt64 = big.NewInt(1<<63 - 1)

	// nullHash is 0x1d repeated over 32 bytes.
	nullHash, _ = new(big.Int).SetString(strings.Repeat("1d", 32), 16)
)

// Value is a POD1 entry value.
type Value struct {
	Type   ValueType
	Str    string
	Bytes  []byte
	Int    *big.Int
	Bool   bool
	Time   time.Time
	PubKey *babyjub.PublicKey
}

func Null() Value { return Value{Type: NullValue} }

func String(s string) Value { return Value{Type: StringValue, Str: s} }

func Bytes(b []byte) Value { return Value{Type: BytesValue, Bytes: b} }

func Boolean(b bool) Value { return Value{Type: BooleanValue, Bool: b} }

func Int(v int64) Value { return Value{Type: IntValue, Int: big.NewInt(v)} }

func Cryptographic(v *big.Int) Value {
	return Value{Type: CryptographicValue, Int: new(big.Int).Set(v)}
}

// Date truncates t to millisecond precision in UTC.
func Date(t time.Time) Value {
	return Value{Type: DateValue, Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

func EdDSAPubkey(pk *babyjub.PublicKey) Value {
	return Value{Type: EdDSAPubkeyValue, PubKey: pk}
}

// Check validates the ranges of the value for its type.
func (v Value) Check() error {
	switch v.Type {
	case NullValue, StringValue, BytesValue, BooleanValue, DateValue:
		return nil
	case IntValue:
		if v.Int == nil || v.Int.Cmp(minInt64) < 0 || v.Int.Cmp(maxInt64) > 0 {
			return fmt.Errorf("%w: int out of 64-bit range", ErrInvalidValue)
		}
		return nil
	case CryptographicValue:
		if v.Int == nil || v.Int.Sign() < 0 || v.Int.Cmp(constants.Q) >= 0 {
			return fmt.Errorf("%w: cryptographic out of field range", ErrInvalidValue)
		}
		return nil
	case EdDSAPubkeyValue:
		if v.PubKey == nil {
			return fmt.Errorf("%w: nil public key", ErrInvalidValue)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, v.Type)
}

// Hash returns the BN254 hash of the value used in the content id.
func (v Value) Hash() (*big.Int, error) {
	if err := v.Check(); err != nil {
		return nil, err
	}
	switch v.Type {
	case StringValue:
		return hashBytes([]byte(v.Str)), nil
	case BytesValue:
		return hashBytes(v.Bytes), nil
	case BooleanValue:
		b := big.NewInt(0)
		if v.Bool {
			b.SetInt64(1)
		}
		return poseidon.MultiPoseidon(b)
	case IntValue:
		return poseidon.MultiPoseidon(new(big.Int).Mod(v.Int, constants.Q))
	case DateValue:
		ms := big.NewInt(v.Time.UnixMilli())
		return poseidon.MultiPoseidon(ms.Mod(ms, constants.Q))
	case CryptographicValue:
		return poseidon.MultiPoseidon(v.Int)
	case EdDSAPubkeyValue:
		return poseidon.MultiPoseidon(v.PubKey.X, v.PubKey.Y)
	}
	return new(big.Int).Set(nullHash), nil
}

// hashBytes is the first 31 bytes of the SHA-256 digest as a big-endian
// integer, so it always fits the BN254 scalar field.
func hashBytes(data []byte) *big.Int {
	h := sha256.Sum256(data)
	return new(big.Int).SetBytes(h[:31])
}

// MarshalJSON writes the terse form: bare JSON for null, booleans, strings
// and safe integers, a single-key object for everything else.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case NullValue:
		return []byte("null"), nil
	case BooleanValue:
		return json.Marshal(v.Bool)
	case StringValue:
		return json.Marshal(v.Str)
	case BytesValue:
		return json.Marshal(map[string]string{"bytes": noPadB64.EncodeToString(v.Bytes)})
	case EdDSAPubkeyValue:
		if v.PubKey == nil {
			return nil, fmt.Errorf("%w: nil public key", ErrInvalidValue)
		}
		comp := v.PubKey.Compress()
		return json.Marshal(map[string]string{"eddsa_pubkey": noPadB64.EncodeToString(comp[:])})
	case DateValue:
		return json.Marshal(map[string]string{"date": v.Time.UTC().Format("2006-01-02T15:04:05.000Z")})
	case CryptographicValue, IntValue:
		if v.Int == nil {
			return nil, fmt.Errorf("%w: nil %s", ErrInvalidValue, v.Type)
		}
		if v.Type == IntValue && v.Int.CmpAbs(maxSafeJSInt) <= 0 {
			return []byte(v.Int.String()), nil
		}
		return json.Marshal(map[string]string{string(v.Type): formatBigInt(v.Int)})
	}
	return nil, fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, v.Type)
}

// UnmarshalJSON accepts the terse form, single-key typed objects and the
// {"type": ..., "value": ...} form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = Null()
		return nil
	case bool:
		*v = Boolean(val)
		return nil
	case string:
		*v = String(val)
		return nil
	case json.Number:
		n, err := parseBigInt(val)
		if err != nil {
			return err
		}
		*v = Value{Type: IntValue, Int: n}
		return v.Check()
	case map[string]any:
		typ, payload, err := splitTyped(val)
		if err != nil {
			return err
		}
		parsed, err := parseTyped(typ, payload)
		if err != nil {
			return err
		}
		*v = parsed
		return v.Check()
	}
	return fmt.Errorf("%w: unexpected JSON %T", ErrInvalidValue, raw)
}

func splitTyped(obj map[string]any) (string, any, error) {
	if len(obj) == 1 {
		for k, val := range obj {
			return k, val, nil
		}
	}
	typ, ok := obj["type"].(string)
	payload, hasValue := obj["value"]
	if !ok || !hasValue || len(obj) != 2 {
		return "", nil, fmt.Errorf("%w: malformed typed value", ErrInvalidValue)
	}
	return typ, payload, nil
}

func parseTyped(typ string, payload any) (Value, error) {
	switch ValueType(typ) {
	case NullValue:
		if payload != nil {
			return Value{}, fmt.Errorf("%w: null must be {\"null\":null}", ErrInvalidValue)
		}
		return Null(), nil
	case StringValue:
		s, ok := payload.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: string got %T", ErrInvalidValue, payload)
		}
		return String(s), nil
	case BooleanValue:
		b, ok := payload.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%w: boolean got %T", ErrInvalidValue, payload)
		}
		return Boolean(b), nil
	case IntValue, CryptographicValue:
		n, err := parseBigInt(payload)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: ValueType(typ), Int: n}, nil
	case BytesValue:
		s, ok := payload.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: bytes got %T", ErrInvalidValue, payload)
		}
		b, err := DecodeBase64(s)
		if err != nil {
			return Value{}, fmt.Errorf("%w: bytes: %w", ErrInvalidValue, err)
		}
		return Bytes(b), nil
	case EdDSAPubkeyValue:
		s, ok := payload.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: eddsa_pubkey got %T", ErrInvalidValue, payload)
		}
		pk, err := DecodePublicKey(s)
		if err != nil {
			return Value{}, err
		}
		return EdDSAPubkey(pk), nil
	case DateValue:
		s, ok := payload.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: date got %T", ErrInvalidValue, payload)
		}
		if !strings.HasSuffix(s, "Z") {
			return Value{}, fmt.Errorf("%w: date %q is not UTC", ErrInvalidValue, s)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Value{}, fmt.Errorf("%w: date: %w", ErrInvalidValue, err)
		}
		return Date(t), nil
	}
	return Value{}, fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, typ)
}

// parseBigInt reads a JSON number, a decimal string or a 0x-prefixed hex
// string.
func parseBigInt(v any) (*big.Int, error) {
	var s string
	switch vv := v.(type) {
	case json.Number:
		s = vv.String()
	case string:
		s = vv
	default:
		return nil, fmt.Errorf("%w: numeric got %T", ErrInvalidValue, v)
	}
	n := new(big.Int)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	if _, ok := n.SetString(s, base); !ok {
		return nil, fmt.Errorf("%w: invalid integer %q", ErrInvalidValue, s)
	}
	return n, nil
}

// formatBigInt uses hex for non-negative values and decimal otherwise.
func formatBigInt(n *big.Int) string {
	if n.Sign() < 0 {
		return n.String()
	}
	return "0x" + n.Text(16)
}

// noPadB64 is standard base64 without padding.
var noPadB64 = base64.StdEncoding.WithPadding(base64.NoPadding)

// DecodeBase64 accepts base64 with or without padding.
func DecodeBase64(s string) ([]byte, error) {
	if b, err := noPadB64.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
