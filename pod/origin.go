package pod

import (
	"fmt"
	"strings"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

// GadgetID identifies the gadget that produced a POD or an origin.
type GadgetID uint8

const (
	GadgetNone GadgetID = iota
	GadgetSchnorr16
	GadgetOracle
	GadgetPlonky
)

var gadgetNames = map[GadgetID]string{
	GadgetNone:      "NONE",
	GadgetSchnorr16: "SCHNORR16",
	GadgetOracle:    "ORACLE",
	GadgetPlonky:    "PLONKY",
}

func (g GadgetID) String() string {
	if name, ok := gadgetNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GADGET(%d)", uint8(g))
}

// GadgetFromString parses the output of GadgetID.String.
func GadgetFromString(s string) (GadgetID, error) {
	for id, name := range gadgetNames {
		if name == strings.ToUpper(s) {
			return id, nil
		}
	}
	return GadgetNone, fmt.Errorf("%w: unknown gadget %q", ErrLookupMissing, s)
}

const (
	// SelfName is the reserved name of the POD under construction.
	SelfName = "_SELF"
	// OriginFields is the width of an encoded origin.
	OriginFields = 5
)

var (
	// OriginIDNone and OriginIDSelf are the reserved origin ids.
	OriginIDNone = field.New(0)
	OriginIDSelf = field.New(1)
)

// Origin tells where an anchored key lives. After composition the id of a
// non-self origin is the content id of the POD that introduced it. The name
// is display only.
type Origin struct {
	ID     field.Element
	Name   string
	Gadget GadgetID
}

// NoneOrigin is the origin of unused anchored key slots.
func NoneOrigin() Origin {
	return Origin{ID: OriginIDNone, Gadget: GadgetNone}
}

// SelfOrigin is the origin of keys of the POD under construction.
func SelfOrigin(gadget GadgetID) Origin {
	return Origin{ID: OriginIDSelf, Name: SelfName, Gadget: gadget}
}

func (o Origin) IsNone() bool {
	return o.ID.Equal(&OriginIDNone)
}

func (o Origin) IsSelf() bool {
	return o.ID.Equal(&OriginIDSelf)
}

// Fields encodes the origin as [id, gadget, 0, 0, 0].
func (o Origin) Fields() [OriginFields]field.Element {
	return [OriginFields]field.Element{o.ID, field.New(uint64(o.Gadget))}
}

// AnchoredKey is a key together with the origin it lives in.
type AnchoredKey struct {
	Origin Origin
	Key    string
}

// NewAnchoredKey builds an anchored key.
func NewAnchoredKey(origin Origin, key string) AnchoredKey {
	return AnchoredKey{Origin: origin, Key: key}
}

// Equal compares origin ids and keys. Origin names are ignored.
func (ak AnchoredKey) Equal(other AnchoredKey) bool {
	return ak.Origin.ID.Equal(&other.Origin.ID) && ak.Key == other.Key
}

// KeyHash is the field encoding of the key string.
func (ak AnchoredKey) KeyHash() field.Element {
	return poseidon.HashString(ak.Key)
}

// String returns origin:key, or just key for the POD under construction.
func (ak AnchoredKey) String() string {
	if ak.Origin.Name == SelfName || ak.Origin.Name == "" {
		return ak.Key
	}
	return ak.Origin.Name + ":" + ak.Key
}
