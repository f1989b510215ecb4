package field

import (
	"errors"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCanonical(t *testing.T) {
	c := qt.New(t)

	c.Assert(Uint64(New(Modulus)), qt.Equals, uint64(0))
	c.Assert(Uint64(New(Modulus+5)), qt.Equals, uint64(5))
	c.Assert(Uint64(FromInt64(-1)), qt.Equals, Modulus-1)
	c.Assert(Uint64(Add(New(Modulus-1), New(2))), qt.Equals, uint64(1))
	c.Assert(Uint64(Sub(New(0), New(1))), qt.Equals, Modulus-1)

	_, err := FromCanonical(Modulus)
	c.Assert(errors.Is(err, ErrNonCanonical), qt.IsTrue)
}

func TestExp(t *testing.T) {
	c := qt.New(t)
	c.Assert(Uint64(Exp(New(3), 1234567)), qt.Equals, uint64(16305451354880172407))

	expected := new(big.Int).Exp(big.NewInt(3), big.NewInt(1234567), new(big.Int).SetUint64(Modulus))
	c.Assert(Uint64(Exp(New(3), 1234567)), qt.Equals, expected.Uint64())
}

func TestInverse(t *testing.T) {
	c := qt.New(t)

	_, err := Inverse(Zero())
	c.Assert(errors.Is(err, ErrDivisionByZero), qt.IsTrue)
	_, err = Div(One(), Zero())
	c.Assert(errors.Is(err, ErrDivisionByZero), qt.IsTrue)

	x := New(1234567890123)
	inv, err := Inverse(x)
	c.Assert(err, qt.IsNil)
	prod := Mul(x, inv)
	c.Assert(prod.IsOne(), qt.IsTrue)
}

func TestBytes(t *testing.T) {
	c := qt.New(t)

	x := New(0x0102030405060708)
	b := ToBytes(x)
	c.Assert(b[:], qt.DeepEquals, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	y, err := FromBytes(b[:])
	c.Assert(err, qt.IsNil)
	c.Assert(y.Equal(&x), qt.IsTrue)

	_, err = FromBytes([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	c.Assert(errors.Is(err, ErrNonCanonical), qt.IsTrue)
	_, err = FromBytes([]byte{1})
	c.Assert(err, qt.IsNotNil)
}
