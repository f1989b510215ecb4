package node

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/circuits/goldilocks"
	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/pod"
)

type fields = [pod.StatementFields]field.Element

// Recursion is the data shared by every node proof of a parameters tuple.
type Recursion struct {
	// Keys are the dummy and the node circuit verifying keys.
	Keys [2]circuits.CircuitVerifyingKey
	// Digest is VkDigest(Keys...).
	Digest *big.Int
	// Dummy is the dummy circuit proof used by disabled recursive slots.
	Dummy circuits.RecursiveProof
	// Proof decodes the proof of a plonky input POD.
	Proof func(*pod.POD) (circuits.RecursiveProof, error)
}

func rows(sts []fields) [][]frontend.Variable {
	out := make([][]frontend.Variable, len(sts))
	for i, st := range sts {
		out[i] = make([]frontend.Variable, len(st))
		for j := range st {
			out[i][j] = st[j].Uint64()
		}
	}
	return out
}

func payloadFields(p pod.Payload) []fields {
	out := make([]fields, len(p))
	for i, ls := range p {
		out[i] = ls.Statement.Fields()
	}
	return out
}

// remapFields replaces the SELF origin ids with cid, like the circuit does.
func remapFields(sts []fields, cid field.Element) []fields {
	out := slices.Clone(sts)
	for i := range out {
		for k := 0; k < 3; k++ {
			pos := pod.KeyIndex(k) - pod.OriginFields
			if out[i][pos].Equal(&pod.OriginIDSelf) {
				out[i][pos] = cid
			}
		}
	}
	return out
}

func zeroVars(n int) []frontend.Variable {
	out := make([]frontend.Variable, n)
	for i := range out {
		out[i] = 0
	}
	return out
}

// recursiveWitness assigns the n public inputs of a recursive proof: the
// statements, zero padded, and the key digest.
func recursiveWitness(public []fields, digest *big.Int, n int) circuits.RecursiveWitness {
	w := circuits.RecursiveWitness{Public: make([]emulated.Element[circuits.ScalarField], 0, n)}
	for _, st := range public {
		for _, f := range st {
			w.Public = append(w.Public, emulated.ValueOf[circuits.ScalarField](f.Uint64()))
		}
	}
	for len(w.Public) < n-1 {
		w.Public = append(w.Public, emulated.ValueOf[circuits.ScalarField](0))
	}
	w.Public = append(w.Public, emulated.ValueOf[circuits.ScalarField](digest))
	return w
}

// Assign builds the circuit assignment proving the execution of the ops of
// exec over gpg. Schnorr PODs take the first slots in name order, as do
// plonky PODs; the remaining slots are disabled. Every operand must be the
// encoding of an input statement or of an earlier output.
func Assign(params pod.Params, gpg *pod.GPGInput, exec *pod.Execution, rec *Recursion) (*Circuit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(exec.Ops) != params.NS || len(exec.Payload) != params.NS {
		return nil, fmt.Errorf("%w: execution of %d ops into %d statements, expected %d",
			pod.ErrInputShape, len(exec.Ops), len(exec.Payload), params.NS)
	}
	var schnorrPODs, plonkyPODs []pod.NamedPOD
	for _, np := range gpg.PODs {
		if len(np.POD.Payload) != params.NS {
			return nil, fmt.Errorf("%w: pod %q has %d statements, expected %d",
				pod.ErrInputShape, np.Name, len(np.POD.Payload), params.NS)
		}
		switch np.POD.ProofType {
		case pod.GadgetSchnorr16:
			schnorrPODs = append(schnorrPODs, np)
		case pod.GadgetPlonky:
			plonkyPODs = append(plonkyPODs, np)
		default:
			return nil, fmt.Errorf("%w: %s pod %q cannot be a recursive input", pod.ErrInputShape, np.POD.ProofType, np.Name)
		}
	}
	if len(schnorrPODs) > params.M || len(plonkyPODs) > params.N {
		return nil, fmt.Errorf("%w: %d schnorr and %d plonky pods for %s",
			pod.ErrInputShape, len(schnorrPODs), len(plonkyPODs), params)
	}

	c := &Circuit{
		Out:      rows(payloadFields(exec.Payload)),
		VkDigest: rec.Digest,
		Vks:      rec.Keys,
		Schnorr:  make([]SchnorrSlot, params.M),
		Plonky:   make([]PlonkySlot, params.N),
		Ops:      make([]Op, params.NS),
		Slots:    make([]frontend.Variable, params.NS),
	}
	zero := make([]fields, params.NS)
	var candidates []fields

	for i := range c.Schnorr {
		if i >= len(schnorrPODs) {
			c.Schnorr[i] = SchnorrSlot{Selector: 0, Statements: rows(zero), SignerIndex: 0,
				Signature: goldilocks.Signature{S: 0, E: 0}}
			candidates = append(candidates, zero...)
			continue
		}
		np := schnorrPODs[i]
		if np.POD.Proof.Signature == nil {
			return nil, fmt.Errorf("%w: pod %q has no signature", pod.ErrSignatureInvalid, np.Name)
		}
		signer := slices.IndexFunc(np.POD.Payload, func(ls pod.LabeledStatement) bool {
			return ls.Label == pod.Label(pod.PredValueOf, pod.SignerKey)
		})
		if signer < 0 {
			return nil, fmt.Errorf("%w: pod %q has no %s entry", pod.ErrLookupMissing, np.Name, pod.SignerKey)
		}
		sts := payloadFields(np.POD.Payload)
		c.Schnorr[i] = SchnorrSlot{
			Selector:    1,
			Statements:  rows(sts),
			Signature:   goldilocks.SignatureValue(*np.POD.Proof.Signature),
			SignerIndex: signer,
		}
		candidates = append(candidates, remapFields(sts, np.POD.ContentID())...)
	}

	public := circuits.PublicInputs(params)
	for i := range c.Plonky {
		if i >= len(plonkyPODs) {
			c.Plonky[i] = PlonkySlot{
				Selector:   0,
				Statements: rows(zero),
				Proof:      rec.Dummy,
				Witness:    recursiveWitness(nil, big.NewInt(0), public),
			}
			candidates = append(candidates, zero...)
			continue
		}
		np := plonkyPODs[i]
		proof, err := rec.Proof(np.POD)
		if err != nil {
			return nil, fmt.Errorf("pod %q: %w", np.Name, err)
		}
		sts := payloadFields(np.POD.Payload)
		c.Plonky[i] = PlonkySlot{
			Selector:   1,
			Statements: rows(sts),
			Proof:      proof,
			Witness:    recursiveWitness(sts, rec.Digest, public),
		}
		candidates = append(candidates, remapFields(sts, np.POD.ContentID())...)
	}

	ns, err := gpg.RemapOriginIDsByName()
	if err != nil {
		return nil, err
	}
	self := make(map[string]pod.Statement, params.NS)
	ns[pod.SelfName] = self
	outputs := make([]fields, 0, params.NS)
	for i, cmd := range exec.Ops {
		op := Op{
			Code:     uint64(cmd.Op.Code),
			Operands: [3]frontend.Variable{0, 0, 0},
			Key:      0,
			Value:    0,
			Aux:      zeroVars(params.VL),
		}
		pool := slices.Concat(candidates, outputs)
		for k, operand := range cmd.Op.Operands {
			st, err := operand.Resolve(ns)
			if err != nil {
				return nil, fmt.Errorf("op %d operand %d: %w", i, k, err)
			}
			want := st.Fields()
			idx := slices.IndexFunc(pool, func(f fields) bool { return f == want })
			if idx < 0 {
				return nil, fmt.Errorf("%w: op %d operand %d is neither an input nor an earlier output",
					pod.ErrLookupMissing, i, k)
			}
			op.Operands[k] = idx
			if cmd.Op.Code == pod.OpContainsFromEntries && k == 0 {
				limbs := st.Value.Limbs(params.VL)
				if st.Value.Kind() != pod.KindVector || len(limbs) != params.VL {
					return nil, fmt.Errorf("%w: op %d set is not a vector of %d limbs", pod.ErrVectorTooLong, i, params.VL)
				}
				for j, l := range limbs {
					op.Aux[j] = l.Uint64()
				}
			}
		}
		out := exec.Outputs[i]
		f := out.Statement.Fields()
		if cmd.Op.Code == pod.OpNewEntry {
			op.Key = f[pod.KeyIndex(0)].Uint64()
			op.Value = f[pod.StatementFields-1].Uint64()
		}
		self[out.Label] = out.Statement
		outputs = append(outputs, f)
		c.Ops[i] = op
	}
	for i, slot := range exec.Slots() {
		c.Slots[i] = slot
	}
	return c, nil
}
