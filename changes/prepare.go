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

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/config"
	"github.com/gosubstrate/statemachine/trie"
)

// PreparedInput is PrepareInput's result: the top-trie stream
// (extrinsics ++ digests; BuildChangesTrie appends the ChildIndex records
// once the child tries are built, per spec.md §4.1.3), and one stream per
// touched child storage key.
type PreparedInput struct {
	Top   []InputPair
	Child map[string][]InputPair
}

// PrepareInput fuses overlay changes with historical digests from storage
// into the sorted InputPair streams the Materializer inserts into the
// changes trie (spec.md §2.A item 4, §4.1).
func PrepareInput(backend Backend, storage Storage, roots RootsStorage, rng config.ConfigurationRange, overlay *OverlayedChanges, parent common.AnchorBlockId) (*PreparedInput, error) {
	block := parent.Number + 1

	out := &PreparedInput{Child: make(map[string][]InputPair)}

	topExtrinsics := extrinsicRecords(backend, overlay, block, "")
	childExtrinsics := make(map[string][]InputPair)
	for _, sk := range overlay.childStorageKeys() {
		recs := extrinsicRecords(backend, overlay, block, sk)
		if len(recs) > 0 {
			childExtrinsics[sk] = recs
		}
	}

	topDigests, childDigests, err := digestRecords(storage, roots, rng, parent, block)
	if err != nil {
		return nil, err
	}

	out.Top = append(out.Top, topExtrinsics...)
	out.Top = append(out.Top, topDigests...)

	for sk, recs := range childExtrinsics {
		out.Child[sk] = append(out.Child[sk], recs...)
	}
	for sk, recs := range childDigests {
		out.Child[sk] = append(out.Child[sk], recs...)
	}
	for sk := range out.Child {
		sortInputPairsByKey(out.Child[sk])
	}

	return out, nil
}

// extrinsicRecords builds the ExtrinsicIndex stream for the current
// block's top trie (storageKey == "") or one child trie (spec.md
// §4.1.1). Records are returned in ascending key order.
func extrinsicRecords(backend Backend, overlay *OverlayedChanges, block common.BlockNumber, storageKey string) []InputPair {
	var keys []string
	if storageKey == "" {
		keys = overlay.topKeys()
	} else {
		keys = overlay.childKeys(storageKey)
	}

	var out []InputPair
	for _, k := range keys {
		var ov *OverlayedValue
		var ok bool
		if storageKey == "" {
			ov, ok = merged(overlay.committed.top, overlay.prospective.top, k)
		} else {
			ov, ok = merged(overlay.committed.child[storageKey], overlay.prospective.child[storageKey], k)
		}
		if !ok || ov.Extrinsics == nil {
			continue // runtime-internal, not attributable (step 1)
		}
		if ov.Value == nil { // deletion: temporary-value filter (step 2)
			existed := false
			if storageKey == "" {
				existed = backend.ExistsStorage([]byte(k))
			} else {
				existed = backend.ExistsChildStorage(storageKey, []byte(k))
			}
			if !existed {
				continue
			}
		}
		list := ov.Extrinsics.ToSlice()
		out = append(out, InputPair{
			Key:        InputKey{Tag: TagExtrinsicIndex, Block: block, Key: []byte(k)},
			Extrinsics: sortUint32(list),
		})
	}
	sortInputPairsByKey(out)
	return out
}

func sortInputPairsByKey(pairs []InputPair) {
	sort.Slice(pairs, func(i, j int) bool {
		return string(pairs[i].Key.Key) < string(pairs[j].Key.Key)
	})
}

// digestRecords implements spec.md §4.1.2: if block is (or, via the
// skewed rule, stands in for) a digest block, scan every enumerated
// ancestor's changes trie and fold discovered keys into DigestIndex
// records, cascading into child tries along the way.
func digestRecords(storage Storage, roots RootsStorage, rng config.ConfigurationRange, parent common.AnchorBlockId, block common.BlockNumber) (top []InputPair, child map[string][]InputPair, err error) {
	target := block
	if skewed, ok := skewedBlockForDigest(rng, block); ok {
		target = skewed
	}
	ancestors, level := BuildIterator(rng, target)
	if level == 0 {
		return nil, nil, nil
	}

	anchor, err := roots.BuildAnchor(parent.Hash)
	if err != nil {
		return nil, nil, storageErrorf(err, "build anchor for %s", parent.Hash)
	}

	topLists := make(map[string][]common.BlockNumber)
	childLists := make(map[string]map[string][]common.BlockNumber)

	for _, a := range ancestors {
		if a >= block {
			// A skewed digest's target lies past the block being built; that
			// block's own changes are its ExtrinsicIndex records, not an
			// ancestor trie.
			continue
		}
		root, ok, err := roots.Root(anchor, a)
		if err != nil {
			return nil, nil, storageErrorf(err, "root lookup for block %d", a)
		}
		if !ok {
			return nil, nil, &ErrMissingTrieRoot{Block: uint64(a)}
		}
		if err := digestAncestor(storage, root, a, topLists, childLists); err != nil {
			return nil, nil, err
		}
	}

	top = digestListsToPairs(topLists, block)
	child = make(map[string][]InputPair, len(childLists))
	for sk, lists := range childLists {
		child[sk] = digestListsToPairs(lists, block)
	}
	return top, child, nil
}

// digestAncestor scans one ancestor's committed changes trie for
// ExtrinsicIndex, DigestIndex and ChildIndex records, folding the first
// two into topLists[key] and recursing into any discovered child trie
// root (SPEC_FULL.md supplemented feature 1: two-level ChildIndex
// cascading).
func digestAncestor(storage Storage, root common.Hash, a common.BlockNumber, topLists map[string][]common.BlockNumber, childLists map[string]map[string][]common.BlockNumber) error {
	tr := trie.New(root, &storageDBAdapter{storage: storage, root: root})

	var childRoots []InputPair
	fold := func(prefix Tag) error {
		return tr.ForEachWithPrefix([]byte{byte(prefix)}, func(key, value []byte) error {
			ik, err := DecodeInputKey(key)
			if err != nil {
				return err
			}
			topLists[string(ik.Key)] = appendBlockIfNew(topLists[string(ik.Key)], a)
			return nil
		})
	}
	if err := fold(TagExtrinsicIndex); err != nil {
		return err
	}
	if err := fold(TagDigestIndex); err != nil {
		return err
	}
	if err := tr.ForEachWithPrefix([]byte{byte(TagChildIndex)}, func(key, value []byte) error {
		pair, err := DecodeInputPair(key, value)
		if err != nil {
			return err
		}
		childRoots = append(childRoots, pair)
		return nil
	}); err != nil {
		return err
	}

	for _, cr := range childRoots {
		sk := string(cr.Key.Key)
		if _, ok := childLists[sk]; !ok {
			childLists[sk] = make(map[string][]common.BlockNumber)
		}
		if err := digestChildAncestor(storage, cr.ChildRoot, a, childLists[sk]); err != nil {
			return err
		}
	}
	return nil
}

func digestChildAncestor(storage Storage, root common.Hash, a common.BlockNumber, lists map[string][]common.BlockNumber) error {
	tr := trie.New(root, &storageDBAdapter{storage: storage, root: root})
	fold := func(prefix Tag) error {
		return tr.ForEachWithPrefix([]byte{byte(prefix)}, func(key, value []byte) error {
			ik, err := DecodeInputKey(key)
			if err != nil {
				return err
			}
			lists[string(ik.Key)] = appendBlockIfNew(lists[string(ik.Key)], a)
			return nil
		})
	}
	if err := fold(TagExtrinsicIndex); err != nil {
		return err
	}
	return fold(TagDigestIndex)
}

func digestListsToPairs(lists map[string][]common.BlockNumber, block common.BlockNumber) []InputPair {
	out := make([]InputPair, 0, len(lists))
	for k, blocks := range lists {
		out = append(out, InputPair{
			Key:          InputKey{Tag: TagDigestIndex, Block: block, Key: []byte(k)},
			DigestBlocks: blocks,
		})
	}
	sortInputPairsByKey(out)
	return out
}

// storageDBAdapter makes a per-block Storage reader usable as a
// trie.Database for read-only scanning of one ancestor's changes trie.
type storageDBAdapter struct {
	storage Storage
	root    common.Hash
}

func (a *storageDBAdapter) Get(hash common.Hash) ([]byte, bool) {
	return a.storage.Get(a.root, hash)
}

func (a *storageDBAdapter) Put(common.Hash, []byte) {
	panic("changes: storageDBAdapter is read-only")
}
