// Package leanimt computes roots of lean incremental Merkle trees: binary
// trees where a node without a right sibling is promoted unchanged to the
// next level. A single leaf is its own root.
package leanimt

import (
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrEmpty is returned when the tree has no leaves.
var ErrEmpty = errors.New("lean imt: at least one leaf is required")

// parallelThreshold is the number of pairs in a level from which the level
// is hashed by a pool of workers.
const parallelThreshold = 64

// HashFn hashes two sibling nodes into their parent.
type HashFn[T any] func(left, right T) (T, error)

// Root returns the root of the tree built over leaves.
func Root[T any](leaves []T, hash HashFn[T]) (T, error) {
	return root(leaves, hash, true)
}

// RootSerial is Root hashing on the calling goroutine only, for hash
// functions that are not safe for concurrent use such as circuit gadgets.
func RootSerial[T any](leaves []T, hash HashFn[T]) (T, error) {
	return root(leaves, hash, false)
}

func root[T any](leaves []T, hash HashFn[T], parallel bool) (T, error) {
	var zero T
	if len(leaves) == 0 {
		return zero, ErrEmpty
	}
	level := make([]T, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next, err := nextLevel(level, hash, parallel)
		if err != nil {
			return zero, err
		}
		level = next
	}
	return level[0], nil
}

func nextLevel[T any](level []T, hash HashFn[T], parallel bool) ([]T, error) {
	pairs := len(level) / 2
	next := make([]T, (len(level)+1)/2)
	if len(level)%2 == 1 {
		next[len(next)-1] = level[len(level)-1]
	}
	if !parallel || pairs < parallelThreshold {
		for i := 0; i < pairs; i++ {
			h, err := hash(level[2*i], level[2*i+1])
			if err != nil {
				return nil, err
			}
			next[i] = h
		}
		return next, nil
	}
	workers := runtime.GOMAXPROCS(0)
	chunk := (pairs + workers - 1) / workers
	g := errgroup.Group{}
	for start := 0; start < pairs; start += chunk {
		end := min(start+chunk, pairs)
		g.Go(func() error {
			for i := start; i < end; i++ {
				h, err := hash(level[2*i], level[2*i+1])
				if err != nil {
					return err
				}
				next[i] = h
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}
