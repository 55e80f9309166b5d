// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package changes

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/config"
	"github.com/gosubstrate/statemachine/trie"
)

// BuiltTrie is the Materializer's output: the changes trie's root hash
// (spec.md §2.A item 5's "(memory_db, root_hash)" - the memory_db side is
// the db passed into BuildChangesTrie, shared across every block build so
// later blocks can resolve earlier blocks' nodes).
type BuiltTrie struct {
	Root common.Hash
}

// BuildChangesTrie fuses overlay changes with historical digests (via
// PrepareInput) and materializes them into db, a Merkle trie node store
// shared across every block a node builds (spec.md §4.1.3). Child tries
// are built first; each non-empty child's root is folded into the top
// trie as a ChildIndex record before the top trie itself is built.
// Returns ErrNoChangesTrieConfig if no digest configuration is active for
// the block being built.
func BuildChangesTrie(backend Backend, storage Storage, roots RootsStorage, history config.History, overlay *OverlayedChanges, parent common.AnchorBlockId, db trie.Database) (*BuiltTrie, error) {
	block := parent.Number + 1
	rng, ok := history.RangeFor(block)
	if !ok {
		return nil, ErrNoChangesTrieConfig
	}

	input, err := PrepareInput(backend, storage, roots, rng, overlay, parent)
	if err != nil {
		return nil, err
	}

	childKeys := make([]string, 0, len(input.Child))
	for sk := range input.Child {
		childKeys = append(childKeys, sk)
	}
	sort.Strings(childKeys)

	// Each child trie is an independent materialization over its own pairs,
	// so they're built concurrently against the shared, concurrency-safe
	// db; childRoots is indexed by position in childKeys to keep the
	// ChildIndex records appended below in deterministic, sorted order
	// regardless of goroutine completion order.
	childRoots := make([]common.Hash, len(childKeys))
	var g errgroup.Group
	for i, sk := range childKeys {
		pairs := input.Child[sk]
		if len(pairs) == 0 {
			continue
		}
		i, pairs := i, pairs
		g.Go(func() error {
			root, err := materialize(db, pairs)
			if err != nil {
				return err
			}
			childRoots[i] = root
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, sk := range childKeys {
		if len(input.Child[sk]) == 0 {
			continue
		}
		input.Top = append(input.Top, InputPair{
			Key:       InputKey{Tag: TagChildIndex, Block: block, Key: []byte(sk)},
			ChildRoot: childRoots[i],
		})
	}

	root, err := materialize(db, input.Top)
	if err != nil {
		return nil, err
	}
	return &BuiltTrie{Root: root}, nil
}

// materialize inserts pairs into a fresh trie over db and commits it.
// Trie insertion failures are invariant violations per spec.md §4.1.3's
// failure model ("panic-equivalent"): the caller guarantees well-formed,
// already-encoded input.
func materialize(db trie.Database, pairs []InputPair) (common.Hash, error) {
	tr := trie.New(common.Hash{}, db)
	for _, p := range pairs {
		if err := tr.Update(EncodeInputKey(p.Key), p.EncodeValue()); err != nil {
			panic("changes: trie insertion failed on well-formed input: " + err.Error())
		}
	}
	return tr.Commit()
}
