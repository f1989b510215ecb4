package pod

import (
	"encoding/json"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/crypto/field"
	"github.com/vocdoni/pod2-sandbox/crypto/schnorr"
)

var testParams = DefaultParams

func scalarEntry(key string, v uint64) Entry {
	return NewEntry(key, ScalarUint64(v))
}

func newSchnorrPOD(c *qt.C, sk uint64, entries ...Entry) *POD {
	key, err := schnorr.NewSecretKey(sk)
	c.Assert(err, qt.IsNil)
	p, err := ExecuteSchnorrGadget(testParams, entries, key)
	c.Assert(err, qt.IsNil)
	return p
}

func newGPG(c *qt.C, named map[string]*POD) *GPGInput {
	gpg, err := NewGPGInput(named, nil)
	c.Assert(err, qt.IsNil)
	return gpg
}

func ref(pod, label string) StatementRef {
	return NewStatementRef(pod, label)
}

func valueOf(key string) string {
	return Label(PredValueOf, key)
}

func TestSchnorrPOD(t *testing.T) {
	c := qt.New(t)

	p := newSchnorrPOD(c, 25, scalarEntry("s2", 56), scalarEntry("s1", 55))
	c.Assert(p.Verify(WithParams(testParams)), qt.IsNil)
	c.Assert(p.Payload, qt.HasLen, testParams.NS)
	c.Assert(p.ProofType, qt.Equals, GadgetSchnorr16)

	labels := []string{}
	for _, ls := range p.Payload {
		labels = append(labels, ls.Label)
	}
	c.Assert(labels, qt.DeepEquals, []string{
		"VALUEOF:_signer", "VALUEOF:s1", "VALUEOF:s2",
		"_DUMMY_STATEMENT3", "_DUMMY_STATEMENT4", "_DUMMY_STATEMENT5",
		"_DUMMY_STATEMENT6", "_DUMMY_STATEMENT7",
	})

	signer, err := p.Signer()
	c.Assert(err, qt.IsNil)
	c.Assert(field.Uint64(signer.Pk), qt.Equals, uint64(9159038346762061233))

	st, ok := p.Payload.Lookup(valueOf("s1"))
	c.Assert(ok, qt.IsTrue)
	c.Assert(st.Keys[0].Origin.IsSelf(), qt.IsTrue)
	c.Assert(st.Keys[0].Origin.Gadget, qt.Equals, GadgetSchnorr16)
	c.Assert(st.String(), qt.Equals, "ValueOf(s1 = 55)")
}

func TestSchnorrPODSortInvariance(t *testing.T) {
	c := qt.New(t)

	vec, err := VectorUint64(testParams.VL, 1, 2)
	c.Assert(err, qt.IsNil)
	entries := []Entry{scalarEntry("a", 1), NewEntry("b", vec), NewEntry("c", String("hello"))}
	reversed := []Entry{entries[2], entries[1], entries[0]}

	p1 := newSchnorrPOD(c, 7, entries...)
	p2 := newSchnorrPOD(c, 7, reversed...)
	c.Assert(p1.ContentID(), qt.Equals, p2.ContentID())
	// signatures are randomized, content ids are not
	c.Assert(p2.Verify(), qt.IsNil)

	p3 := newSchnorrPOD(c, 8, entries...)
	c.Assert(p3.ContentID(), qt.Not(qt.Equals), p1.ContentID())
}

func TestSchnorrPODErrors(t *testing.T) {
	c := qt.New(t)
	sk, _ := schnorr.NewSecretKey(1)

	tooMany := make([]Entry, testParams.NS)
	for i := range tooMany {
		tooMany[i] = scalarEntry(string(rune('a'+i)), uint64(i))
	}
	_, err := ExecuteSchnorrGadget(testParams, tooMany, sk)
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)

	_, err = ExecuteSchnorrGadget(testParams, []Entry{scalarEntry(SignerKey, 1)}, sk)
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)

	_, err = ExecuteSchnorrGadget(testParams, []Entry{scalarEntry("a", 1), scalarEntry("a", 2)}, sk)
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)

	long, err := VectorUint64(testParams.VL+1, 1, 2, 3, 4, 5)
	c.Assert(err, qt.IsNil)
	_, err = ExecuteSchnorrGadget(testParams, []Entry{NewEntry("v", long)}, sk)
	c.Assert(errors.Is(err, ErrVectorTooLong), qt.IsTrue)

	_, err = VectorUint64(2, 1, 2, 3)
	c.Assert(errors.Is(err, ErrVectorTooLong), qt.IsTrue)
}

func TestTamperedPODFailsVerification(t *testing.T) {
	c := qt.New(t)
	p := newSchnorrPOD(c, 1422, scalarEntry("s1", 55), scalarEntry("s2", 56))
	c.Assert(p.Verify(), qt.IsNil)

	other := NewAnchoredKey(Origin{ID: field.New(99), Name: "x", Gadget: GadgetSchnorr16}, "s1")
	mutations := map[string]func(st Statement) Statement{
		"value": func(st Statement) Statement {
			return ValueOf(st.Keys[0], ScalarUint64(54))
		},
		"key": func(st Statement) Statement {
			return ValueOf(NewAnchoredKey(st.Keys[0].Origin, "s9"), st.Value)
		},
		"origin": func(st Statement) Statement {
			return ValueOf(other, st.Value)
		},
		"predicate": func(st Statement) Statement {
			return Equal(st.Keys[0], st.Keys[0])
		},
	}
	for name, mutate := range mutations {
		c.Run(name, func(c *qt.C) {
			payload := append(Payload(nil), p.Payload...)
			i := 1 // VALUEOF:s1
			payload[i] = LabeledStatement{Label: payload[i].Label, Statement: mutate(payload[i].Statement)}

			// same cached content id
			stale := &POD{Payload: payload, Proof: p.Proof, ProofType: p.ProofType, contentID: p.ContentID()}
			c.Assert(errors.Is(stale.Verify(), ErrSignatureInvalid), qt.IsTrue)

			// recomputed content id, signature no longer matches
			resigned := NewPOD(payload, p.Proof, p.ProofType)
			c.Assert(errors.Is(resigned.Verify(), ErrSignatureInvalid), qt.IsTrue)
		})
	}

	noSig := NewPOD(p.Payload, Proof{}, GadgetSchnorr16)
	c.Assert(errors.Is(noSig.Verify(), ErrSignatureInvalid), qt.IsTrue)
	c.Assert(errors.Is(p.Verify(WithParams(Params{NS: 4, VL: 4, M: 1})), ErrInputShape), qt.IsTrue)
}

// S1
func TestEqualityWitness(t *testing.T) {
	c := qt.New(t)
	p1 := newSchnorrPOD(c, 1, scalarEntry("s1", 55), scalarEntry("s2", 56))
	p2 := newSchnorrPOD(c, 2, scalarEntry("s3", 57), scalarEntry("s4", 55))
	gpg := newGPG(c, map[string]*POD{"p2": p2, "p1": p1})
	c.Assert(gpg.PODs[0].Name, qt.Equals, "p1")

	out, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(EqualityFromEntriesOp(ref("p1", valueOf("s1")), ref("p2", valueOf("s4"))), "label"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(out.Verify(WithParams(testParams)), qt.IsNil)
	c.Assert(out.ProofType, qt.Equals, GadgetOracle)
	c.Assert(out.Payload, qt.HasLen, testParams.NS)

	st, ok := out.Payload.Lookup("EQUAL:label")
	c.Assert(ok, qt.IsTrue)
	expected := Equal(
		NewAnchoredKey(Origin{ID: p1.ContentID(), Gadget: GadgetSchnorr16}, "s1"),
		NewAnchoredKey(Origin{ID: p2.ContentID(), Gadget: GadgetSchnorr16}, "s4"),
	)
	c.Assert(st.Equal(expected), qt.IsTrue)
	c.Assert(st.String(), qt.Equals, "Equal(p1:s1 = p2:s4)")

	_, ok = out.Payload.Lookup("NONE:_DUMMYOUT1")
	c.Assert(ok, qt.IsTrue)

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(EqualityFromEntriesOp(ref("p1", valueOf("s1")), ref("p1", valueOf("s2"))), "label"),
	})
	c.Assert(errors.Is(err, ErrInvalidClaim), qt.IsTrue)
}

// S2
func TestGtToNonequality(t *testing.T) {
	c := qt.New(t)
	p := newSchnorrPOD(c, 3, scalarEntry("a", 52), scalarEntry("b", 36))
	gpg := newGPG(c, map[string]*POD{"p": p})

	out, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(GtFromEntriesOp(ref("p", valueOf("a")), ref("p", valueOf("b"))), "g"),
		NewOpCmd(GtToNonequalityOp(ref(SelfName, "GT:g")), "n"),
		NewOpCmd(LtFromEntriesOp(ref("p", valueOf("b")), ref("p", valueOf("a"))), "l"),
		NewOpCmd(LtToNonequalityOp(ref(SelfName, "LT:l")), "m"),
	})
	c.Assert(err, qt.IsNil)

	gt, ok := out.Payload.Lookup("GT:g")
	c.Assert(ok, qt.IsTrue)
	neq, ok := out.Payload.Lookup("NOTEQUAL:n")
	c.Assert(ok, qt.IsTrue)
	c.Assert(gt.Keys[0].Equal(neq.Keys[0]), qt.IsTrue)
	c.Assert(gt.Keys[1].Equal(neq.Keys[1]), qt.IsTrue)
	c.Assert(gt.Keys[0].Origin.ID, qt.Equals, p.ContentID())

	lt, ok := out.Payload.Lookup("LT:l")
	c.Assert(ok, qt.IsTrue)
	c.Assert(lt.String(), qt.Equals, "Lt(p:b < p:a)")

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(GtFromEntriesOp(ref("p", valueOf("b")), ref("p", valueOf("a"))), "g"),
	})
	c.Assert(errors.Is(err, ErrInvalidClaim), qt.IsTrue)
}

// S3
func TestSumOf(t *testing.T) {
	c := qt.New(t)
	p := newSchnorrPOD(c, 4, scalarEntry("x", 10), scalarEntry("y", 16), scalarEntry("z", 15))
	gpg := newGPG(c, map[string]*POD{"p": p})

	out, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(NewEntryOp(scalarEntry("result", 25)), "result"),
		NewOpCmd(SumOfOp(ref(SelfName, valueOf("result")), ref("p", valueOf("x")), ref("p", valueOf("z"))), "sum"),
	})
	c.Assert(err, qt.IsNil)
	sum, ok := out.Payload.Lookup("SUMOF:sum")
	c.Assert(ok, qt.IsTrue)
	c.Assert(sum.Keys[0].Key, qt.Equals, "result")
	c.Assert(sum.Keys[0].Origin.IsSelf(), qt.IsTrue)
	c.Assert(sum.Keys[0].Origin.Gadget, qt.Equals, GadgetOracle)
	c.Assert(sum.String(), qt.Equals, "SumOf(result = p:x + p:z)")

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(NewEntryOp(scalarEntry("result", 25)), "result"),
		NewOpCmd(SumOfOp(ref(SelfName, valueOf("result")), ref("p", valueOf("x")), ref("p", valueOf("y"))), "sum"),
	})
	c.Assert(errors.Is(err, ErrInvalidClaim), qt.IsTrue)
}

// S4
func TestTransitiveEquality(t *testing.T) {
	c := qt.New(t)
	origin := Origin{ID: field.New(12345), Name: "q", Gadget: GadgetSchnorr16}
	a, b := NewAnchoredKey(origin, "a"), NewAnchoredKey(origin, "b")
	cc, d := NewAnchoredKey(origin, "c"), NewAnchoredKey(origin, "d")

	renamed := NewAnchoredKey(Origin{ID: field.New(54321), Name: "q"}, "b")
	known := Namespace{"q": {
		"ab": Equal(a, b), "bc": Equal(b, cc), "cd": Equal(cc, d), "rc": Equal(renamed, cc),
	}}

	st, err := TransitiveEqualityOp(Equal(a, b), Equal(b, cc)).Execute(GadgetOracle, known)
	c.Assert(err, qt.IsNil)
	c.Assert(st.Equal(Equal(a, cc)), qt.IsTrue)

	_, err = TransitiveEqualityOp(Equal(a, b), Equal(cc, d)).Execute(GadgetOracle, known)
	c.Assert(errors.Is(err, ErrInvalidClaim), qt.IsTrue)

	// same key, different origin id
	_, err = TransitiveEqualityOp(Equal(a, b), Equal(renamed, cc)).Execute(GadgetOracle, known)
	c.Assert(errors.Is(err, ErrInvalidClaim), qt.IsTrue)

	// literal operands outside the namespace are rejected
	_, err = TransitiveEqualityOp(Equal(a, b), Equal(b, d)).Execute(GadgetOracle, known)
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)
}

func TestOracleRejectsUnknownLiterals(t *testing.T) {
	c := qt.New(t)
	p1 := newSchnorrPOD(c, 1, scalarEntry("s1", 55))
	p2 := newSchnorrPOD(c, 2, scalarEntry("s4", 56))
	gpg := newGPG(c, map[string]*POD{"p1": p1, "p2": p2})

	s1 := NewAnchoredKey(Origin{ID: p1.ContentID(), Gadget: GadgetSchnorr16}, "s1")
	s4 := NewAnchoredKey(Origin{ID: p2.ContentID(), Gadget: GadgetSchnorr16}, "s4")

	// fabricated values for real keys
	_, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(EqualityFromEntriesOp(ValueOf(s1, ScalarUint64(7)), ValueOf(s4, ScalarUint64(7))), "eq"),
	})
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(CopyStatementOp(ValueOf(s1, ScalarUint64(7))), "copy"),
	})
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)

	// the genuine statement is accepted as a literal
	out, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(CopyStatementOp(ValueOf(s1, ScalarUint64(55))), "copy"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(out.Verify(WithParams(testParams)), qt.IsNil)
}

// S5
func TestContainsRename(t *testing.T) {
	c := qt.New(t)
	set, err := VectorUint64(testParams.VL, 36, 52)
	c.Assert(err, qt.IsNil)
	p := newSchnorrPOD(c, 5,
		NewEntry("set", set), NewEntry("set2", set), scalarEntry("pick", 36), scalarEntry("other", 37))
	gpg := newGPG(c, map[string]*POD{"p": p})

	out, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(EqualityFromEntriesOp(ref("p", valueOf("set")), ref("p", valueOf("set2"))), "eq"),
		NewOpCmd(ContainsFromEntriesOp(ref("p", valueOf("set")), ref("p", valueOf("pick"))), "c"),
		NewOpCmd(RenameContainedByOp(ref(SelfName, "CONTAINS:c"), ref(SelfName, "EQUAL:eq")), "r"),
	})
	c.Assert(err, qt.IsNil)
	st, ok := out.Payload.Lookup("CONTAINS:r")
	c.Assert(ok, qt.IsTrue)
	c.Assert(st.Keys[0].Key, qt.Equals, "set2")
	c.Assert(st.Keys[1].Key, qt.Equals, "pick")

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(ContainsFromEntriesOp(ref("p", valueOf("set")), ref("p", valueOf("other"))), "c"),
	})
	c.Assert(errors.Is(err, ErrInvalidClaim), qt.IsTrue)

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(ContainsFromEntriesOp(ref("p", valueOf("pick")), ref("p", valueOf("set"))), "c"),
	})
	c.Assert(errors.Is(err, ErrTypeMismatch), qt.IsTrue)
}

func TestRulePreconditions(t *testing.T) {
	c := qt.New(t)
	origin := Origin{ID: field.New(777), Name: "o", Gadget: GadgetSchnorr16}
	v := func(key string, value Value) Statement {
		return ValueOf(NewAnchoredKey(origin, key), value)
	}
	big := v("big", Scalar(field.New(field.Modulus-1)))
	two := v("two", ScalarUint64(2))
	three := v("three", ScalarUint64(3))
	five := v("five", ScalarUint64(5))
	six := v("six", ScalarUint64(6))
	yes := v("yes", Bool(true))
	one := v("one", ScalarUint64(1))
	null := v("null", Null())

	valid := []struct {
		code     OpCode
		operands []Statement
		want     Predicate
	}{
		{OpEqualityFromEntries, []Statement{yes, one}, PredEqual},
		{OpNonequalityFromEntries, []Statement{two, three}, PredNotEqual},
		{OpGtFromEntries, []Statement{three, two}, PredGt},
		{OpGtFromEntries, []Statement{two, yes}, PredGt},
		{OpLtFromEntries, []Statement{two, three}, PredLt},
		{OpSumOf, []Statement{five, two, three}, PredSumOf},
		{OpProductOf, []Statement{six, two, three}, PredProductOf},
		{OpMaxOf, []Statement{three, two, three}, PredMaxOf},
		{OpMaxOf, []Statement{big, big, two}, PredMaxOf},
	}
	for _, tc := range valid {
		st, err := tc.code.Apply(GadgetOracle, nil, tc.operands...)
		c.Assert(err, qt.IsNil, qt.Commentf("%s", tc.code))
		c.Assert(st.Predicate, qt.Equals, tc.want)
		for i, ak := range st.Keys {
			c.Assert(ak.Equal(tc.operands[i].Keys[0]), qt.IsTrue)
		}
	}

	invalid := []struct {
		code     OpCode
		operands []Statement
		err      error
	}{
		{OpEqualityFromEntries, []Statement{two, three}, ErrInvalidClaim},
		{OpNonequalityFromEntries, []Statement{yes, one}, ErrInvalidClaim},
		{OpGtFromEntries, []Statement{two, two}, ErrInvalidClaim},
		{OpLtFromEntries, []Statement{three, two}, ErrInvalidClaim},
		{OpSumOf, []Statement{six, two, three}, ErrInvalidClaim},
		// p-1 + 2 overflows the canonical range
		{OpSumOf, []Statement{one, big, two}, ErrInvalidClaim},
		{OpProductOf, []Statement{two, big, two}, ErrInvalidClaim},
		{OpMaxOf, []Statement{two, two, three}, ErrInvalidClaim},
		{OpSumOf, []Statement{null, two, three}, ErrTypeMismatch},
		{OpGtFromEntries, []Statement{null, two}, ErrTypeMismatch},
		{OpGtToNonequality, []Statement{Equal(two.Keys[0], three.Keys[0])}, ErrInvalidClaim},
		{OpSumOf, []Statement{five, two}, ErrInputShape},
	}
	for _, tc := range invalid {
		_, err := tc.code.Apply(GadgetOracle, nil, tc.operands...)
		c.Assert(errors.Is(err, tc.err), qt.IsTrue, qt.Commentf("%s: %v", tc.code, err))
	}
}

func TestOracleErrors(t *testing.T) {
	c := qt.New(t)
	p := newSchnorrPOD(c, 6, scalarEntry("a", 1))
	gpg := newGPG(c, map[string]*POD{"p": p})

	_, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(CopyStatementOp(ref("q", valueOf("a"))), "x"),
	})
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(CopyStatementOp(ref("p", valueOf("nope"))), "x"),
	})
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)

	ops := make([]OpCmd, testParams.NS+1)
	for i := range ops {
		ops[i] = NewOpCmd(NoOp(), string(rune('a'+i)))
	}
	_, err = ExecuteOracleGadget(testParams, gpg, ops)
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)

	_, err = ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(CopyStatementOp(ref("p", valueOf("a"))), "x"),
		NewOpCmd(CopyStatementOp(ref("p", valueOf("a"))), "x"),
	})
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)

	_, err = NewGPGInput(map[string]*POD{SelfName: p}, nil)
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)
}

func TestOriginRemapping(t *testing.T) {
	c := qt.New(t)
	p1 := newSchnorrPOD(c, 1, scalarEntry("a", 5), scalarEntry("b", 5))
	p2 := newSchnorrPOD(c, 2, scalarEntry("c", 5))
	gpg := newGPG(c, map[string]*POD{"p1": p1, "p2": p2})

	derived, err := ExecuteOracleGadget(testParams, gpg, []OpCmd{
		NewOpCmd(EqualityFromEntriesOp(ref("p1", valueOf("a")), ref("p2", valueOf("c"))), "ac"),
		NewOpCmd(CopyStatementOp(ref("p1", valueOf("b"))), "b"),
		NewOpCmd(NewEntryOp(scalarEntry("fresh", 9)), "fresh"),
	})
	c.Assert(err, qt.IsNil)

	ids := map[field.Element]bool{p1.ContentID(): true, p2.ContentID(): true}
	ns, err := gpg.RemapOriginIDsByName()
	c.Assert(err, qt.IsNil)
	for _, statements := range ns {
		for _, st := range statements {
			for _, ak := range st.Keys {
				c.Assert(ids[ak.Origin.ID], qt.IsTrue)
			}
		}
	}

	// a second composition keeps the ids of foreign origins and renames them
	next, err := NewGPGInput(map[string]*POD{"d": derived, "p1": p1},
		map[OriginRef]string{{PodName: "d", OriginName: "p2"}: "second"})
	c.Assert(err, qt.IsNil)
	ns, err = next.RemapOriginIDsByName()
	c.Assert(err, qt.IsNil)

	eq := ns["d"]["EQUAL:ac"]
	c.Assert(eq.Keys[0].Origin.Name, qt.Equals, "d:p1")
	c.Assert(eq.Keys[0].Origin.ID, qt.Equals, p1.ContentID())
	c.Assert(eq.Keys[1].Origin.Name, qt.Equals, "second")
	c.Assert(eq.Keys[1].Origin.ID, qt.Equals, p2.ContentID())

	fresh := ns["d"]["VALUEOF:fresh"]
	c.Assert(fresh.Keys[0].Origin.Name, qt.Equals, "d")
	c.Assert(fresh.Keys[0].Origin.ID, qt.Equals, derived.ContentID())
	c.Assert(fresh.Keys[0].Origin.Gadget, qt.Equals, GadgetOracle)

	target, ok := next.Renames[OriginRef{PodName: "p1", OriginName: SelfName}]
	c.Assert(ok, qt.IsTrue)
	c.Assert(target.ID, qt.Equals, p1.ContentID())

	_, err = next.RemapOrigin("p1", Origin{Name: "unknown", ID: field.New(3)})
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)
}

type fakeVerifier struct{ err error }

func (f fakeVerifier) VerifyPlonkyPOD(*POD) error { return f.err }

func TestVerifyPlonky(t *testing.T) {
	c := qt.New(t)
	payload, err := Payload(nil).Pad(testParams.NS, DummyStatementPrefix)
	c.Assert(err, qt.IsNil)
	p := NewPOD(payload, Proof{Plonky: []byte{1}}, GadgetPlonky)

	c.Assert(errors.Is(p.Verify(), ErrProofInvalid), qt.IsTrue)
	c.Assert(p.Verify(WithProofVerifier(fakeVerifier{})), qt.IsNil)
	c.Assert(errors.Is(p.Verify(WithProofVerifier(fakeVerifier{errors.New("bad")})), ErrProofInvalid), qt.IsTrue)
}

func TestPODJSON(t *testing.T) {
	c := qt.New(t)
	vec, err := VectorUint64(testParams.VL, 3, 4)
	c.Assert(err, qt.IsNil)
	p := newSchnorrPOD(c, 11,
		scalarEntry("n", 1), NewEntry("v", vec), NewEntry("b", Bool(true)),
		NewEntry("s", String("x")), NewEntry("d", DateMillis(1700000000000)),
		NewEntry("nil", Null()))

	data, err := json.Marshal(p)
	c.Assert(err, qt.IsNil)
	var decoded POD
	c.Assert(json.Unmarshal(data, &decoded), qt.IsNil)
	c.Assert(decoded.ContentID(), qt.Equals, p.ContentID())
	c.Assert(decoded.Verify(), qt.IsNil)

	var r PODRecord
	c.Assert(json.Unmarshal(data, &r), qt.IsNil)
	c.Assert(r.Statements[3].Label, qt.Equals, "VALUEOF:n")
	r.Statements[3].Value.Fields = []uint64{2}
	_, err = PODFromRecord(r)
	c.Assert(errors.Is(err, ErrSignatureInvalid), qt.IsTrue)
}

func TestOpCmdFromRecord(t *testing.T) {
	c := qt.New(t)
	cmd, err := OpCmdFromRecord(OpCmdRecord{
		Op:       "SumOf",
		Label:    "s",
		Operands: []StatementRef{ref("a", "x"), ref("a", "y"), ref("a", "z")},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(cmd.Op.Code, qt.Equals, OpSumOf)

	_, err = OpCmdFromRecord(OpCmdRecord{Op: "NewEntry", Label: "e"})
	c.Assert(errors.Is(err, ErrInputShape), qt.IsTrue)
	_, err = OpCmdFromRecord(OpCmdRecord{Op: "Teleport"})
	c.Assert(errors.Is(err, ErrLookupMissing), qt.IsTrue)
}
