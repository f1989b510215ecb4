package poseidon

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/crypto/field"
)

func elems(vs ...uint64) []field.Element {
	res := make([]field.Element, len(vs))
	for i, v := range vs {
		res[i] = field.New(v)
	}
	return res
}

func TestRoundConstants(t *testing.T) {
	c := qt.New(t)
	c.Assert(RoundConstants[0], qt.Equals, uint64(6688735327889558715))
	c.Assert(RoundConstants[len(RoundConstants)-1], qt.Equals, uint64(5648996724368865442))
	for _, rc := range RoundConstants {
		c.Assert(rc < field.Modulus, qt.IsTrue)
	}
}

func TestHash(t *testing.T) {
	c := qt.New(t)

	c.Assert(field.Uint64(Hash()), qt.Equals, uint64(0))
	c.Assert(field.Uint64(Hash(elems(1)...)), qt.Equals, uint64(8958026460105051869))
	c.Assert(field.Uint64(Hash(elems(1, 2)...)), qt.Equals, uint64(7124137127555482464))
	// nine inputs take two permutations
	c.Assert(field.Uint64(Hash(elems(0, 1, 2, 3, 4, 5, 6, 7, 8)...)), qt.Equals, uint64(11007345288611783445))
}

func TestStringToFields(t *testing.T) {
	c := qt.New(t)

	// "abc" needs a single padding byte: 0x01 | 0x80; "" pads to 01 00 00 80
	c.Assert(field.Uint64s(StringToFields("abc")), qt.DeepEquals, []uint64{1633837953})
	c.Assert(field.Uint64s(StringToFields("hello")), qt.DeepEquals, []uint64{1751477356, 1862336640})
	c.Assert(field.Uint64s(StringToFields("")), qt.DeepEquals, []uint64{0x01000080})

	c.Assert(field.Uint64(HashString("hello")), qt.Equals, uint64(1481290330324940813))
	c.Assert(field.Uint64(HashString("_signer")), qt.Equals, uint64(13125067894644737043))
}

func TestHashBytes(t *testing.T) {
	c := qt.New(t)
	c.Assert(field.Uint64(HashBytes([]byte("hello"))), qt.Equals, uint64(9354816062910064406))
}

func TestLeanIMT(t *testing.T) {
	c := qt.New(t)

	_, err := LeanIMT(nil)
	c.Assert(err, qt.IsNotNil)

	single, err := LeanIMT(elems(42))
	c.Assert(err, qt.IsNil)
	c.Assert(field.Uint64(single), qt.Equals, uint64(42))

	pair, err := LeanIMT(elems(1, 2))
	c.Assert(err, qt.IsNil)
	c.Assert(pair, qt.Equals, Hash(elems(1, 2)...))

	three, err := LeanIMT(elems(1, 2, 3))
	c.Assert(err, qt.IsNil)
	c.Assert(field.Uint64(three), qt.Equals, uint64(7355412025550144292))
}
