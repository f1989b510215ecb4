package node

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	backend_plonk "github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/commitments/kzg"
	stdmimc "github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/recursion/plonk"
	"github.com/vocdoni/pod2-sandbox/circuits"
)

// vkLimbs lists every native limb of the circuit verifying key in a fixed
// order. It serves both the circuit and the host, where limbs are constants.
func vkLimbs(vk circuits.CircuitVerifyingKey) []frontend.Variable {
	limbs := []frontend.Variable{vk.Size}
	limbs = append(limbs, vk.SizeInv.Limbs...)
	limbs = append(limbs, vk.Generator.Limbs...)
	points := make([]kzg.Commitment[circuits.G1Affine], 0, len(vk.S)+5+len(vk.Qcp))
	points = append(points, vk.S[:]...)
	points = append(points, vk.Ql, vk.Qr, vk.Qm, vk.Qo, vk.Qk)
	points = append(points, vk.Qcp...)
	for _, p := range points {
		limbs = append(limbs, p.G1El.X.Limbs...)
		limbs = append(limbs, p.G1El.Y.Limbs...)
	}
	return append(limbs, vk.CommitmentConstraintIndexes...)
}

// vkDigest returns the MiMC hash of the limbs of every key in vks.
func vkDigest(api frontend.API, vks []circuits.CircuitVerifyingKey) (frontend.Variable, error) {
	h, err := stdmimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	for _, vk := range vks {
		h.Write(vkLimbs(vk)...)
	}
	return h.Sum(), nil
}

// VkDigest is the host version of the digest over verifying keys assigned
// with plonk.ValueOfCircuitVerifyingKey.
func VkDigest(vks ...circuits.CircuitVerifyingKey) (*big.Int, error) {
	h := mimc.NewMiMC()
	for i, vk := range vks {
		for j, limb := range vkLimbs(vk) {
			v, err := circuits.VariableToBigInt(limb)
			if err != nil {
				return nil, fmt.Errorf("key %d limb %d: %w", i, j, err)
			}
			if _, err := h.Write(circuits.BigIntToMIMCHash(v, circuits.NodeCurve.ScalarField())); err != nil {
				return nil, err
			}
		}
	}
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

// VerifyingKeyValue assigns the circuit part of a node or dummy key.
func VerifyingKeyValue(vk backend_plonk.VerifyingKey) (circuits.CircuitVerifyingKey, error) {
	return plonk.ValueOfCircuitVerifyingKey[circuits.ScalarField, circuits.G1Affine](vk)
}
