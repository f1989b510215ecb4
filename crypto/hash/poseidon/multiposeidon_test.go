package poseidon

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"
)

func TestMultiPoseidon(t *testing.T) {
	c := qt.New(t)

	_, err := MultiPoseidon()
	c.Assert(err, qt.IsNotNil)

	small := []*big.Int{big.NewInt(1), big.NewInt(2)}
	h, err := MultiPoseidon(small...)
	c.Assert(err, qt.IsNil)
	expected, err := iden3poseidon.Hash(small)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Cmp(expected), qt.Equals, 0)

	var many []*big.Int
	for i := 0; i < 20; i++ {
		many = append(many, big.NewInt(int64(i)))
	}
	h, err = MultiPoseidon(many...)
	c.Assert(err, qt.IsNil)
	first, _ := iden3poseidon.Hash(many[:16])
	second, _ := iden3poseidon.Hash(many[16:])
	expected, _ = iden3poseidon.Hash([]*big.Int{first, second})
	c.Assert(h.Cmp(expected), qt.Equals, 0)
}

func TestBN254LeanIMT(t *testing.T) {
	c := qt.New(t)

	leaves := []*big.Int{big.NewInt(5), big.NewInt(6), big.NewInt(7)}
	root, err := BN254LeanIMT(leaves)
	c.Assert(err, qt.IsNil)
	left, _ := BN254Pair(leaves[0], leaves[1])
	expected, _ := BN254Pair(left, leaves[2])
	c.Assert(root.Cmp(expected), qt.Equals, 0)
}
