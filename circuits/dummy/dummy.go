// Package dummy implements the circuit whose proofs fill the disabled
// recursive slots of a node circuit. It exposes the same number of public
// inputs as the node circuit and, like it, one commitment, so both
// verifying keys have the same shape and can be switched in-circuit.
package dummy

import (
	"errors"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/pod"
)

// DefaultConstraints is the size of the dummy circuit body.
const DefaultConstraints = 1 << 4

type Circuit struct {
	nbConstraints int
	SecretInput   frontend.Variable   `gnark:",secret"`
	Public        []frontend.Variable `gnark:",public"`
}

func (c *Circuit) Define(api frontend.API) error {
	cmtr, ok := api.(frontend.Committer)
	if !ok {
		return errors.New("api is not a commiter")
	}
	committed, err := cmtr.Commit(append([]frontend.Variable{c.SecretInput}, c.Public...)...)
	if err != nil {
		return err
	}
	api.AssertIsDifferent(committed, 0)

	res := api.Mul(c.SecretInput, c.SecretInput)
	for i := 2; i < c.nbConstraints; i++ {
		res = api.Mul(res, c.SecretInput)
	}
	api.AssertIsEqual(res, c.SecretInput)
	return nil
}

// Placeholder returns the placeholder of the dummy circuit for params.
func Placeholder(params pod.Params) *Circuit {
	return PlaceholderWithConstraints(params, DefaultConstraints)
}

// PlaceholderWithConstraints returns the placeholder of a dummy circuit
// with the desired number of constraints.
func PlaceholderWithConstraints(params pod.Params, nbConstraints int) *Circuit {
	return &Circuit{
		nbConstraints: nbConstraints,
		Public:        make([]frontend.Variable, circuits.PublicInputs(params)),
	}
}

// Assignment returns the assignment of the dummy circuit: every public
// input is zero.
func Assignment(params pod.Params) *Circuit {
	public := make([]frontend.Variable, circuits.PublicInputs(params))
	for i := range public {
		public[i] = 0
	}
	return &Circuit{Public: public, SecretInput: 1}
}
