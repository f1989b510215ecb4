package leanimt

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

// concat builds readable roots so the tree shape can be asserted directly.
func concat(l, r string) (string, error) {
	return fmt.Sprintf("(%s,%s)", l, r), nil
}

func TestRootShape(t *testing.T) {
	c := qt.New(t)

	_, err := Root([]string{}, concat)
	c.Assert(errors.Is(err, ErrEmpty), qt.IsTrue)

	root, err := Root([]string{"a"}, concat)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, "a")

	root, err = Root([]string{"a", "b"}, concat)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, "(a,b)")

	root, err = Root([]string{"a", "b", "c"}, concat)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, "((a,b),c)")

	root, err = Root([]string{"a", "b", "c", "d", "e"}, concat)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, "(((a,b),(c,d)),e)")
}

func TestRootParallelMatchesSequential(t *testing.T) {
	c := qt.New(t)

	sum := func(l, r uint64) (uint64, error) { return l*31 + r, nil }
	leaves := make([]uint64, 1000)
	for i := range leaves {
		leaves[i] = uint64(i)
	}
	expected := leaves
	for len(expected) > 1 {
		var next []uint64
		for i := 0; i < len(expected); i += 2 {
			if i+1 < len(expected) {
				h, _ := sum(expected[i], expected[i+1])
				next = append(next, h)
			} else {
				next = append(next, expected[i])
			}
		}
		expected = next
	}
	root, err := Root(leaves, sum)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, expected[0])

	root, err = RootSerial(leaves, sum)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, expected[0])
}

func TestRootError(t *testing.T) {
	c := qt.New(t)

	errHash := errors.New("hash failed")
	leaves := make([]int, 300)
	_, err := Root(leaves, func(l, r int) (int, error) { return 0, errHash })
	c.Assert(errors.Is(err, errHash), qt.IsTrue)
}
