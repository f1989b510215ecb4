package goldilocks

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/pod2-sandbox/crypto/hash/poseidon"
	"github.com/vocdoni/pod2-sandbox/crypto/leanimt"
)

// mdsBits bounds a row of the MDS product over lanes below 2^65: the row
// coefficients add up to 264 < 2^9.
const mdsBits = sumBits + 9

func (c *Chip) sbox(x frontend.Variable) frontend.Variable {
	x2 := c.Mul(x, x)
	x4 := c.Mul(x2, x2)
	x6 := c.Mul(x4, x2)
	return c.Mul(x6, x)
}

// mds multiplies the state by the MDS matrix. Lanes may be unreduced sums
// of two canonical elements.
func (c *Chip) mds(state [poseidon.Width]frontend.Variable) [poseidon.Width]frontend.Variable {
	var out [poseidon.Width]frontend.Variable
	for r := 0; r < poseidon.Width; r++ {
		acc := frontend.Variable(0)
		for i := 0; i < poseidon.Width; i++ {
			acc = c.api.Add(acc, c.api.Mul(state[(i+r)%poseidon.Width], poseidon.MDSCirc[i]))
		}
		if poseidon.MDSDiag[r] != 0 {
			acc = c.api.Add(acc, c.api.Mul(state[r], poseidon.MDSDiag[r]))
		}
		out[r] = c.Reduce(acc, mdsBits)
	}
	return out
}

func (c *Chip) fullRound(state [poseidon.Width]frontend.Variable, round int) [poseidon.Width]frontend.Variable {
	for i := range state {
		state[i] = c.sbox(c.Add(state[i], poseidon.RoundConstants[round*poseidon.Width+i]))
	}
	return c.mds(state)
}

func (c *Chip) partialRound(state [poseidon.Width]frontend.Variable, round int) [poseidon.Width]frontend.Variable {
	state[0] = c.sbox(c.Add(state[0], poseidon.RoundConstants[round*poseidon.Width]))
	for i := 1; i < poseidon.Width; i++ {
		state[i] = c.api.Add(state[i], poseidon.RoundConstants[round*poseidon.Width+i])
	}
	return c.mds(state)
}

// Permute applies the Poseidon permutation to a state of canonical lanes.
func (c *Chip) Permute(state [poseidon.Width]frontend.Variable) [poseidon.Width]frontend.Variable {
	round := 0
	for r := 0; r < poseidon.HalfFullRounds; r++ {
		state = c.fullRound(state, round)
		round++
	}
	for r := 0; r < poseidon.PartialRounds; r++ {
		state = c.partialRound(state, round)
		round++
	}
	for r := 0; r < poseidon.HalfFullRounds; r++ {
		state = c.fullRound(state, round)
		round++
	}
	return state
}

// Hash is the in-circuit poseidon.Hash over canonical inputs.
func (c *Chip) Hash(inputs ...frontend.Variable) frontend.Variable {
	var state [poseidon.Width]frontend.Variable
	for i := range state {
		state[i] = 0
	}
	for start := 0; start < len(inputs); start += poseidon.Rate {
		end := min(start+poseidon.Rate, len(inputs))
		copy(state[:end-start], inputs[start:end])
		state = c.Permute(state)
	}
	return state[0]
}

// LeanIMT returns the Lean-IMT root of the leaves with the Poseidon pair
// hash.
func (c *Chip) LeanIMT(leaves []frontend.Variable) (frontend.Variable, error) {
	return leanimt.RootSerial(leaves, func(l, r frontend.Variable) (frontend.Variable, error) {
		return c.Hash(l, r), nil
	})
}
