package pod

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
)

func TestStatementEncoding(t *testing.T) {
	c := qt.New(t)
	c.Assert(StatementFields, qt.Equals, 20)
	c.Assert([]int{KeyIndex(0), KeyIndex(1), KeyIndex(2)}, qt.DeepEquals, []int{6, 12, 18})

	for _, f := range NoneStatement().Fields() {
		c.Assert(f.IsZero(), qt.IsTrue)
	}

	origin := Origin{ID: field.New(1234), Name: "p", Gadget: GadgetSchnorr16}
	a, b, r := NewAnchoredKey(origin, "a"), NewAnchoredKey(origin, "b"), NewAnchoredKey(SelfOrigin(GadgetPlonky), "r")

	fields := SumOf(r, a, b).Fields()
	c.Assert(field.Uint64(fields[0]), qt.Equals, uint64(PredSumOf))
	c.Assert(field.Uint64(fields[1]), qt.Equals, uint64(1))
	c.Assert(field.Uint64(fields[2]), qt.Equals, uint64(GadgetPlonky))
	c.Assert(fields[6], qt.Equals, poseidon.HashString("r"))
	c.Assert(field.Uint64(fields[7]), qt.Equals, uint64(1234))
	c.Assert(fields[12], qt.Equals, poseidon.HashString("a"))
	c.Assert(fields[18], qt.Equals, poseidon.HashString("b"))
	c.Assert(fields[19].IsZero(), qt.IsTrue)

	fields = ValueOf(a, ScalarUint64(55)).Fields()
	c.Assert(field.Uint64(fields[19]), qt.Equals, uint64(55))
	c.Assert(fields[12].IsZero() && fields[18].IsZero(), qt.IsTrue)

	wire := Gt(a, b).ToBytes()
	c.Assert(wire, qt.HasLen, StatementBytes)
	c.Assert(binary.BigEndian.Uint64(wire[:8]), qt.Equals, uint64(PredGt))
	c.Assert(binary.BigEndian.Uint64(wire[8:16]), qt.Equals, uint64(1234))

	payload := Payload{{Label: "x", Statement: Gt(a, b)}, {Label: "y", Statement: NoneStatement()}}
	c.Assert(payload.ToBytes(), qt.HasLen, 2*StatementBytes)
	c.Assert(payload.ContentID(), qt.Equals, poseidon.Hash(payload.Fields()...))
}

func TestValueHashes(t *testing.T) {
	c := qt.New(t)

	c.Assert(ScalarUint64(1).Hash(), qt.Equals, poseidon.Hash(field.New(1)))
	c.Assert(Bool(true).Hash(), qt.Equals, ScalarUint64(1).Hash())
	c.Assert(Bool(true).Equal(ScalarUint64(1)), qt.IsTrue)
	c.Assert(Bool(false).Equal(ScalarUint64(0)), qt.IsTrue)
	c.Assert(Null().Hash(), qt.Equals, NullHash)
	c.Assert(String("hello").Hash(), qt.Equals, poseidon.HashBytes([]byte("hello")))
	c.Assert(DateMillis(-5).Hash(), qt.Equals, poseidon.Hash(field.FromInt64(-5)))
	c.Assert(Point(field.New(1), field.New(2)).Hash(), qt.Equals, poseidon.Hash(field.New(1), field.New(2)))

	vec, err := VectorUint64(4, 1, 2, 3)
	c.Assert(err, qt.IsNil)
	c.Assert(field.Uint64s(vec.Limbs(4)), qt.DeepEquals, []uint64{1, 2, 3, 3})
	root, err := poseidon.LeanIMT(vec.Limbs(4))
	c.Assert(err, qt.IsNil)
	c.Assert(vec.Field(), qt.Equals, root)
	c.Assert(vec.Contains(field.New(3)), qt.IsTrue)
	c.Assert(vec.Contains(field.New(4)), qt.IsFalse)

	c.Assert(field.Uint64s(ScalarUint64(7).Limbs(4)), qt.DeepEquals, []uint64{7, 0, 7, 7})
	c.Assert(ScalarUint64(7).Field(), qt.Equals, field.New(7))

	_, err = Vector(4)
	c.Assert(err, qt.IsNotNil)
}
