package node

import (
	"fmt"
	"slices"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/selector"
	"github.com/vocdoni/pod2-sandbox/circuits/goldilocks"
	"github.com/vocdoni/pod2-sandbox/pod"
)

// rule is the output of one operation code together with the expressions
// that must vanish when that code is selected.
type rule struct {
	out    []frontend.Variable
	checks []frontend.Variable
}

// key returns the origin and key hash block of the i-th anchored key.
func key(st []frontend.Variable, i int) []frontend.Variable {
	return st[pod.KeyIndex(i)-pod.OriginFields : pod.KeyIndex(i)+1]
}

func value(st []frontend.Variable) frontend.Variable {
	return st[pod.StatementFields-1]
}

// statement encodes a statement without value.
func statement(pred pod.Predicate, keys ...[]frontend.Variable) []frontend.Variable {
	out := make([]frontend.Variable, 0, pod.StatementFields)
	out = append(out, uint64(pred))
	for _, k := range keys {
		out = append(out, k...)
	}
	for len(out) < pod.StatementFields {
		out = append(out, 0)
	}
	return out
}

func isPredicate(api frontend.API, st []frontend.Variable, pred pod.Predicate) frontend.Variable {
	return api.Sub(st[0], uint64(pred))
}

// sameKey is zero when both anchored keys have the same origin id and key.
func sameKey(api frontend.API, a, b []frontend.Variable) []frontend.Variable {
	return []frontend.Variable{api.Sub(a[0], b[0]), api.Sub(a[pod.OriginFields], b[pod.OriginFields])}
}

// rules evaluates every rule over the operands a, b and c.
func rules(gl *goldilocks.Chip, op Op, a, b, c []frontend.Variable) ([pod.NumOpCodes]rule, error) {
	api := gl.API()
	var r [pod.NumOpCodes]rule
	valueOf := func(sts ...[]frontend.Variable) []frontend.Variable {
		checks := make([]frontend.Variable, len(sts))
		for i, st := range sts {
			checks[i] = isPredicate(api, st, pod.PredValueOf)
		}
		return checks
	}

	r[pod.OpNone] = rule{out: statement(pod.PredNone)}

	entry := statement(pod.PredValueOf, []frontend.Variable{
		pod.OriginIDSelf.Uint64(), uint64(pod.GadgetPlonky), 0, 0, 0, op.Key,
	})
	entry[pod.StatementFields-1] = op.Value
	r[pod.OpNewEntry] = rule{out: entry}

	r[pod.OpCopyStatement] = rule{out: a}

	r[pod.OpEqualityFromEntries] = rule{
		out:    statement(pod.PredEqual, key(a, 0), key(b, 0)),
		checks: append(valueOf(a, b), api.Sub(value(a), value(b))),
	}
	r[pod.OpNonequalityFromEntries] = rule{
		out:    statement(pod.PredNotEqual, key(a, 0), key(b, 0)),
		checks: append(valueOf(a, b), api.IsZero(api.Sub(value(a), value(b)))),
	}
	r[pod.OpGtFromEntries] = rule{
		out:    statement(pod.PredGt, key(a, 0), key(b, 0)),
		checks: append(valueOf(a, b), api.Sub(1, gl.Gt(value(a), value(b)))),
	}
	r[pod.OpLtFromEntries] = rule{
		out:    statement(pod.PredLt, key(a, 0), key(b, 0)),
		checks: append(valueOf(a, b), api.Sub(1, gl.Gt(value(b), value(a)))),
	}
	r[pod.OpTransitiveEquality] = rule{
		out: statement(pod.PredEqual, key(a, 0), key(b, 1)),
		checks: append([]frontend.Variable{
			isPredicate(api, a, pod.PredEqual), isPredicate(api, b, pod.PredEqual),
		}, sameKey(api, key(a, 1), key(b, 0))...),
	}
	r[pod.OpGtToNonequality] = rule{
		out:    statement(pod.PredNotEqual, key(a, 0), key(a, 1)),
		checks: []frontend.Variable{isPredicate(api, a, pod.PredGt)},
	}
	r[pod.OpLtToNonequality] = rule{
		out:    statement(pod.PredNotEqual, key(a, 0), key(a, 1)),
		checks: []frontend.Variable{isPredicate(api, a, pod.PredLt)},
	}

	root, err := gl.LeanIMT(op.Aux)
	if err != nil {
		return r, err
	}
	member := frontend.Variable(1)
	for _, limb := range op.Aux {
		member = api.Mul(member, api.Sub(limb, value(b)))
	}
	r[pod.OpContainsFromEntries] = rule{
		out:    statement(pod.PredContains, key(a, 0), key(b, 0)),
		checks: append(valueOf(a, b), api.Sub(root, value(a)), member),
	}
	r[pod.OpRenameContainedBy] = rule{
		out: statement(pod.PredContains, key(b, 1), key(a, 1)),
		checks: append([]frontend.Variable{
			isPredicate(api, a, pod.PredContains), isPredicate(api, b, pod.PredEqual),
		}, sameKey(api, key(a, 0), key(b, 0))...),
	}

	// canonical operands make native sums and products exact integers
	r[pod.OpSumOf] = rule{
		out:    statement(pod.PredSumOf, key(a, 0), key(b, 0), key(c, 0)),
		checks: append(valueOf(a, b, c), api.Sub(value(a), api.Add(value(b), value(c)))),
	}
	r[pod.OpProductOf] = rule{
		out:    statement(pod.PredProductOf, key(a, 0), key(b, 0), key(c, 0)),
		checks: append(valueOf(a, b, c), api.Sub(value(a), api.Mul(value(b), value(c)))),
	}
	maxBC := api.Select(gl.Gt(value(b), value(c)), value(b), value(c))
	r[pod.OpMaxOf] = rule{
		out:    statement(pod.PredMaxOf, key(a, 0), key(b, 0), key(c, 0)),
		checks: append(valueOf(a, b, c), api.Sub(value(a), maxBC)),
	}
	return r, nil
}

// execute applies the operations in order. Each operation reads its
// operands from the candidates and the outputs of the previous operations,
// and yields the output of the rule selected by its code, whose checks are
// enforced.
func execute(gl *goldilocks.Chip, ops []Op, candidates [][]frontend.Variable) ([][]frontend.Variable, error) {
	api := gl.API()
	outputs := make([][]frontend.Variable, 0, len(ops))
	for i, op := range ops {
		gl.AssertCanonical(op.Key)
		gl.AssertCanonical(op.Value)
		for _, limb := range op.Aux {
			gl.AssertCanonical(limb)
		}
		pool := slices.Concat(candidates, outputs)
		if len(pool) == 0 {
			return nil, fmt.Errorf("op %d has no candidate statements", i)
		}
		var operands [3][]frontend.Variable
		for k := range operands {
			operands[k] = muxStatement(api, pool, op.Operands[k])
		}
		table, err := rules(gl, op, operands[0], operands[1], operands[2])
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}

		isCode := selector.Decoder(api, pod.NumOpCodes, op.Code)
		out := make([]frontend.Variable, pod.StatementFields)
		for f := range out {
			out[f] = 0
		}
		for code, r := range table {
			for f := range out {
				out[f] = api.Add(out[f], api.Mul(isCode[code], r.out[f]))
			}
			for _, check := range r.checks {
				assertWhen(api, isCode[code], check)
			}
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// permute constrains out to be the outputs placed at their payload
// positions. Every position receives exactly one output.
func permute(api frontend.API, outputs [][]frontend.Variable, slots []frontend.Variable, out [][]frontend.Variable) error {
	if len(outputs) != len(out) || len(slots) != len(out) {
		return fmt.Errorf("%d outputs and %d slots for %d statements", len(outputs), len(slots), len(out))
	}
	ind := make([][]frontend.Variable, len(slots))
	for i, slot := range slots {
		ind[i] = selector.Decoder(api, len(out), slot)
	}
	for j := range out {
		count := frontend.Variable(0)
		for i := range outputs {
			count = api.Add(count, ind[i][j])
		}
		api.AssertIsEqual(count, 1)
		for f := range out[j] {
			acc := frontend.Variable(0)
			for i := range outputs {
				acc = api.Add(acc, api.Mul(ind[i][j], outputs[i][f]))
			}
			api.AssertIsEqual(acc, out[j][f])
		}
	}
	return nil
}
