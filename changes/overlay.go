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
	mapset "github.com/deckarep/golang-set/v2"
)

// NoExtrinsicIndex is the sentinel extrinsic index for writes attributable
// to the block as a whole rather than to any specific extrinsic (spec.md
// §3's "0xFFFF_FFFF for non-extrinsic").
const NoExtrinsicIndex uint32 = 0xFFFFFFFF

// OverlayedValue is one key's accumulated state within a single overlay
// layer: Value == nil means the key was deleted in this layer; Extrinsics
// == nil means the write is runtime-internal and carries no attribution
// (spec.md §3, excluded entirely by the temporary-value filter's sibling
// rule in §4.1.1 step 1).
type OverlayedValue struct {
	Value      []byte
	Extrinsics mapset.Set[uint32]
}

func (v *OverlayedValue) clone() *OverlayedValue {
	cp := &OverlayedValue{Value: append([]byte(nil), v.Value...)}
	if v.Extrinsics != nil {
		cp.Extrinsics = v.Extrinsics.Clone()
	}
	return cp
}

// overlayLayer is one of OverlayedChanges' two layers: a top-trie map plus
// one map per child storage key (spec.md §3: "each a pair of (top map,
// child map)").
type overlayLayer struct {
	top   map[string]*OverlayedValue
	child map[string]map[string]*OverlayedValue
}

func newOverlayLayer() overlayLayer {
	return overlayLayer{top: make(map[string]*OverlayedValue)}
}

func (l *overlayLayer) childMap(storageKey string) map[string]*OverlayedValue {
	if l.child == nil {
		l.child = make(map[string]map[string]*OverlayedValue)
	}
	m, ok := l.child[storageKey]
	if !ok {
		m = make(map[string]*OverlayedValue)
		l.child[storageKey] = m
	}
	return m
}

// OverlayedChanges is the in-memory journal of committed and prospective
// key/value/extrinsic-index modifications for the block under
// construction (spec.md §3). It lives for exactly one block build.
type OverlayedChanges struct {
	prospective overlayLayer
	committed   overlayLayer
}

// NewOverlayedChanges returns an empty journal.
func NewOverlayedChanges() *OverlayedChanges {
	return &OverlayedChanges{
		prospective: newOverlayLayer(),
		committed:   newOverlayLayer(),
	}
}

// Set records a write to the top trie's key, attributed to extrinsicIndex
// (pass NoExtrinsicIndex for a block-wide, non-extrinsic write). value ==
// nil records a deletion.
func (o *OverlayedChanges) Set(key, value []byte, extrinsicIndex uint32) {
	setInto(o.prospective.top, key, value, &extrinsicIndex)
}

// SetRuntimeInternal records a write with no extrinsic attribution at all
// (spec.md §3: "extrinsics is none ... for entries inserted by the
// runtime outside of any extrinsic"); the temporary-value filter excludes
// these from the ExtrinsicIndex stream entirely (spec.md §4.1.1 step 1).
func (o *OverlayedChanges) SetRuntimeInternal(key, value []byte) {
	setInto(o.prospective.top, key, value, nil)
}

// SetChild is Set's child-trie counterpart.
func (o *OverlayedChanges) SetChild(storageKey string, key, value []byte, extrinsicIndex uint32) {
	setInto(o.prospective.childMap(storageKey), key, value, &extrinsicIndex)
}

func setInto(m map[string]*OverlayedValue, key, value []byte, extrinsicIndex *uint32) {
	k := string(key)
	ov, ok := m[k]
	if !ok {
		ov = &OverlayedValue{}
		m[k] = ov
	}
	ov.Value = value
	if extrinsicIndex == nil {
		ov.Extrinsics = nil
		return
	}
	if ov.Extrinsics == nil {
		ov.Extrinsics = mapset.NewThreadUnsafeSet[uint32]()
	}
	ov.Extrinsics.Add(*extrinsicIndex)
}

// Commit folds the prospective layer into the committed layer and clears
// the prospective layer, the way a runtime commits one extrinsic's
// effects once it has executed successfully.
func (o *OverlayedChanges) Commit() {
	mergeInto(o.committed.top, o.prospective.top)
	for sk, pm := range o.prospective.child {
		mergeInto(o.committed.childMap(sk), pm)
	}
	o.prospective = newOverlayLayer()
}

func mergeInto(dst, src map[string]*OverlayedValue) {
	for k, v := range src {
		dst[k] = v
	}
}

// DiscardProspective drops every uncommitted write, the way a runtime
// rolls back a failed extrinsic without touching prior committed state.
func (o *OverlayedChanges) DiscardProspective() {
	o.prospective = newOverlayLayer()
}

// merged returns the effective value for key across both layers,
// prospective overriding committed (spec.md §4.1.1 step 1), plus whether
// any entry exists at all.
func merged(committed, prospective map[string]*OverlayedValue, key string) (*OverlayedValue, bool) {
	if v, ok := prospective[key]; ok {
		return v, true
	}
	v, ok := committed[key]
	return v, ok
}

// topKeys returns every key touched in either layer of the top trie, not
// yet filtered or ordered.
func (o *OverlayedChanges) topKeys() []string {
	return unionKeys(o.committed.top, o.prospective.top)
}

// childStorageKeys returns every child storage key touched in either
// layer (spec.md §4.1.1: "each child trie whose storage-key appears in
// either overlay layer").
func (o *OverlayedChanges) childStorageKeys() []string {
	seen := make(map[string]struct{})
	for sk := range o.committed.child {
		seen[sk] = struct{}{}
	}
	for sk := range o.prospective.child {
		seen[sk] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for sk := range seen {
		out = append(out, sk)
	}
	return out
}

func (o *OverlayedChanges) childKeys(storageKey string) []string {
	return unionKeys(o.committed.child[storageKey], o.prospective.child[storageKey])
}

func unionKeys(a, b map[string]*OverlayedValue) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out
}
