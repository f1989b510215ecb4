// Package goldilocks implements Goldilocks field arithmetic inside BN254
// circuits. Elements are native variables kept in [0, p); every operation
// computes the exact integer result natively and reduces it with a hinted
// quotient and remainder, both range checked.
package goldilocks

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/rangecheck"
	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
)

const (
	// ElementBits bounds a canonical element.
	ElementBits = 64
	// sumBits bounds the sum of two canonical elements.
	sumBits = ElementBits + 1
	// productBits bounds the product of two canonical elements.
	productBits = 2 * ElementBits
	// quotientBits bounds x/q for a canonical x and q = 65537.
	quotientBits = 48
	// residueBits bounds x mod 65537.
	residueBits = 17
)

var (
	modulus    = new(big.Int).SetUint64(field.Modulus)
	groupOrder = new(big.Int).SetUint64(schnorr.GroupOrder)
)

func init() {
	solver.RegisterHint(divModHint, splitHint)
}

// divModHint returns inputs[0] / inputs[1] and inputs[0] mod inputs[1].
func divModHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) != 2 || len(outputs) != 2 {
		return fmt.Errorf("divmod hint expects 2 inputs and 2 outputs")
	}
	if inputs[1].Sign() == 0 {
		return field.ErrDivisionByZero
	}
	outputs[0].DivMod(inputs[0], inputs[1], outputs[1])
	return nil
}

// splitHint returns inputs[0] >> inputs[1] and the low inputs[1] bits.
func splitHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) != 2 || len(outputs) != 2 {
		return fmt.Errorf("split hint expects 2 inputs and 2 outputs")
	}
	n := uint(inputs[1].Uint64())
	outputs[0].Rsh(inputs[0], n)
	mask := new(big.Int).Lsh(big.NewInt(1), n)
	mask.Sub(mask, big.NewInt(1))
	outputs[1].And(inputs[0], mask)
	return nil
}

// Chip holds the API and the range checker shared by every operation.
type Chip struct {
	api frontend.API
	rc  frontend.Rangechecker
}

// New returns a chip bound to api.
func New(api frontend.API) *Chip {
	return &Chip{api: api, rc: rangecheck.New(api)}
}

// API returns the underlying frontend API.
func (c *Chip) API() frontend.API {
	return c.api
}

func (c *Chip) hint(fn solver.Hint, inputs ...frontend.Variable) (frontend.Variable, frontend.Variable) {
	res, err := c.api.Compiler().NewHint(fn, 2, inputs...)
	if err != nil {
		panic(fmt.Sprintf("goldilocks hint: %v", err))
	}
	return res[0], res[1]
}

// AssertCanonical constrains x to [0, p).
func (c *Chip) AssertCanonical(x frontend.Variable) {
	c.rc.Check(x, ElementBits)
	c.rc.Check(c.api.Sub(field.Modulus-1, x), ElementBits)
}

// AssertBits constrains x to [0, 2^nbBits).
func (c *Chip) AssertBits(x frontend.Variable, nbBits int) {
	c.rc.Check(x, nbBits)
}

// Reduce returns x mod p for a native x below 2^nbBits.
func (c *Chip) Reduce(x frontend.Variable, nbBits int) frontend.Variable {
	q, r := c.hint(divModHint, x, modulus)
	c.rc.Check(q, max(nbBits-ElementBits+1, 1))
	c.AssertCanonical(r)
	c.api.AssertIsEqual(x, c.api.Add(c.api.Mul(q, modulus), r))
	return r
}

func (c *Chip) Add(a, b frontend.Variable) frontend.Variable {
	return c.Reduce(c.api.Add(a, b), sumBits)
}

func (c *Chip) Sub(a, b frontend.Variable) frontend.Variable {
	return c.Reduce(c.api.Sub(c.api.Add(a, modulus), b), sumBits)
}

func (c *Chip) Mul(a, b frontend.Variable) frontend.Variable {
	return c.Reduce(c.api.Mul(a, b), productBits)
}

// IsEqual returns 1 when the canonical elements a and b are equal.
func (c *Chip) IsEqual(a, b frontend.Variable) frontend.Variable {
	return c.api.IsZero(c.api.Sub(a, b))
}

// Gt returns 1 when a > b as integers. a and b must be canonical.
func (c *Chip) Gt(a, b frontend.Variable) frontend.Variable {
	// a - b - 1 + 2^64 lies in [0, 2^65); its bit 64 is set iff a > b
	d := c.api.Add(c.api.Sub(a, b), new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), ElementBits), big.NewInt(1)))
	hi, lo := c.hint(splitHint, d, ElementBits)
	c.api.AssertIsBoolean(hi)
	c.rc.Check(lo, ElementBits)
	c.api.AssertIsEqual(d, c.api.Add(c.api.Mul(hi, new(big.Int).Lsh(big.NewInt(1), ElementBits)), lo))
	return hi
}

// Mod65537 returns x mod 65537 for a canonical x. The identity
// x = 65537q + r holds over the integers: q < 2^48 and r < 65537 keep the
// right side far below the BN254 modulus. With x <= p-1 the largest quotient
// q = (p-1)/65537 therefore already forces r = 0, and no separate check is
// needed. Callers must pass canonical x; Hash and Reduce outputs are.
func (c *Chip) Mod65537(x frontend.Variable) frontend.Variable {
	q, r := c.hint(divModHint, x, groupOrder)
	c.rc.Check(q, quotientBits)
	c.rc.Check(r, residueBits)
	c.rc.Check(c.api.Sub(schnorr.GroupOrder-1, r), residueBits)
	c.api.AssertIsEqual(x, c.api.Add(c.api.Mul(q, groupOrder), r))
	return r
}

// ExpBits returns base^e where e is given by its little-endian bits.
func (c *Chip) ExpBits(base frontend.Variable, bits []frontend.Variable) frontend.Variable {
	acc := frontend.Variable(1)
	for i := len(bits) - 1; i >= 0; i-- {
		acc = c.Mul(acc, acc)
		acc = c.api.Select(bits[i], c.Mul(acc, base), acc)
	}
	return acc
}

// ExpConstBits returns base^e for a constant base.
func (c *Chip) ExpConstBits(base field.Element, bits []frontend.Variable) frontend.Variable {
	acc := frontend.Variable(1)
	pow := base
	for i := range bits {
		acc = c.Mul(acc, c.api.Select(bits[i], pow.Uint64(), 1))
		pow = field.Mul(pow, pow)
	}
	return acc
}
