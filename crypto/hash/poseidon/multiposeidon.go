package poseidon

import (
	"fmt"
	"math/big"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/vocdoni/pod2-sandbox/crypto/leanimt"
)

// MultiPoseidon hashes up to 256 BN254 scalars with the circom compatible
// Poseidon. Inputs are hashed in chunks of 16 and the chunk hashes are hashed
// together when there is more than one chunk.
func MultiPoseidon(inputs ...*big.Int) (*big.Int, error) {
	if len(inputs) > 256 {
		return nil, fmt.Errorf("too many inputs")
	} else if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs provided")
	}
	hashes := []*big.Int{}
	for start := 0; start < len(inputs); start += 16 {
		end := min(start+16, len(inputs))
		hash, err := iden3poseidon.Hash(inputs[start:end])
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	if len(hashes) == 1 {
		return hashes[0], nil
	}
	return iden3poseidon.Hash(hashes)
}

// BN254Pair is the BN254 Poseidon of two scalars.
func BN254Pair(left, right *big.Int) (*big.Int, error) {
	return iden3poseidon.Hash([]*big.Int{left, right})
}

// BN254LeanIMT returns the Lean-IMT root over BN254 scalars.
func BN254LeanIMT(leaves []*big.Int) (*big.Int, error) {
	return leanimt.Root(leaves, BN254Pair)
}
