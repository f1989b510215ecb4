package circuits

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/kzg"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/vocdoni/pod2-sandbox/log"
)

// BigIntToMIMCHash reduces input into the field of base and returns it as
// SerializedFieldSize big-endian bytes, the block size of the MiMC hasher.
// Inputs that are not reduced would be reduced by the circuit during witness
// calculation and the resulting hashes would differ.
func BigIntToMIMCHash(input, base *big.Int) []byte {
	return new(big.Int).Mod(input, base).FillBytes(make([]byte, SerializedFieldSize))
}

// VariableToBigInt converts a frontend.Variable holding a constant, as
// produced by the ValueOf helpers of gnark, into a big.Int.
func VariableToBigInt(v frontend.Variable) (*big.Int, error) {
	switch t := v.(type) {
	case *big.Int:
		return new(big.Int).Set(t), nil
	case big.Int:
		return new(big.Int).Set(&t), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case int:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(t)), nil
	case string:
		n, ok := new(big.Int).SetString(t, 0)
		if !ok {
			return nil, fmt.Errorf("invalid numeric string %q", t)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported variable type %T", v)
}

// NewSRS returns the canonical and lagrange KZG SRS for ccs derived from
// seed. The KZG verifying key only depends on the seed, so circuits of any
// size set up with the same seed share their base verifying key.
func NewSRS(ccs constraint.ConstraintSystem, seed []byte) (kzg.SRS, kzg.SRS, error) {
	return unsafekzg.NewSRS(ccs, unsafekzg.WithToxicSeed(seed))
}

// CompileAndSetup compiles placeholder into a PLONK constraint system over
// NodeCurve and runs the setup with an SRS derived from seed.
func CompileAndSetup(placeholder frontend.Circuit, seed []byte) (constraint.ConstraintSystem, plonk.ProvingKey, plonk.VerifyingKey, error) {
	ccs, err := frontend.Compile(NodeCurve.ScalarField(), scs.NewBuilder, placeholder)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("compile error: %w", err)
	}
	srs, srsLagrange, err := NewSRS(ccs, seed)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("srs error: %w", err)
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup error: %w", err)
	}
	log.Debugw("circuit compiled", "constraints", ccs.GetNbConstraints(),
		"public", ccs.GetNbPublicVariables())
	return ccs, pk, vk, nil
}
