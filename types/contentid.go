package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// ContentID is the canonical value of a POD content id. It encodes as a 16
// digit hex string so it can be used in URLs and json without precision
// loss.
type ContentID uint64

// ParseContentID parses the output of ContentID.String.
func ParseContentID(s string) (ContentID, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid content id %q: %w", s, err)
	}
	return ContentID(v), nil
}

func (c ContentID) String() string {
	return fmt.Sprintf("%016x", uint64(c))
}

// Bytes returns the big-endian encoding, used as storage key.
func (c ContentID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(c))
}

func (c ContentID) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ContentID) UnmarshalText(data []byte) error {
	v, err := ParseContentID(string(data))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ContentIDFromBytes decodes the output of ContentID.Bytes.
func ContentIDFromBytes(b []byte) (ContentID, error) {
	if len(b) != RegistryKeyLen {
		return 0, fmt.Errorf("invalid content id length %d", len(b))
	}
	return ContentID(binary.BigEndian.Uint64(b)), nil
}
