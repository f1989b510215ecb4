package types

import (
	"fmt"
	"math/big"
)

// BigInt is a big.Int which encodes as a decimal string in json and as
// bytes in cbor.
type BigInt big.Int

func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

func (i *BigInt) String() string {
	return i.MathBigInt().String()
}

func (i *BigInt) Bytes() []byte {
	return i.MathBigInt().Bytes()
}

func (i *BigInt) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *BigInt) UnmarshalText(data []byte) error {
	if _, ok := i.MathBigInt().SetString(string(data), 0); !ok {
		return fmt.Errorf("invalid big int %q", data)
	}
	return nil
}

func (i *BigInt) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(i.Bytes())
}

func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cborDecMode.Unmarshal(data, &b); err != nil {
		return err
	}
	i.MathBigInt().SetBytes(b)
	return nil
}
