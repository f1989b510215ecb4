package goldilocks

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
)

// Signature is a Schnorr signature as circuit variables.
type Signature struct {
	S frontend.Variable
	E frontend.Variable
}

// SignatureValue assigns sig.
func SignatureValue(sig schnorr.Signature) Signature {
	return Signature{S: sig.S, E: sig.E}
}

// exponentBits is the width of an exponent below 65537.
const exponentBits = residueBits

// VerifySchnorr returns 1 when sig is a valid signature of msg under pk.
// The components of sig must be below 65537, which is asserted.
func (c *Chip) VerifySchnorr(sig Signature, msg []frontend.Variable, pk frontend.Variable) frontend.Variable {
	sBits := c.exponent(sig.S)
	eBits := c.exponent(sig.E)
	r := c.Mul(c.ExpConstBits(schnorr.Generator, sBits), c.ExpBits(pk, eBits))
	inputs := append([]frontend.Variable{r}, msg...)
	e := c.Mod65537(c.Hash(inputs...))
	return c.IsEqual(e, sig.E)
}

// exponent decomposes x < 65537 into its 17 bits.
func (c *Chip) exponent(x frontend.Variable) []frontend.Variable {
	c.rc.Check(c.api.Sub(schnorr.GroupOrder-1, x), exponentBits)
	return c.api.ToBinary(x, exponentBits)
}
