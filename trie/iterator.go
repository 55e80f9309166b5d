// Copyright 2014 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ethereum.  If not, see <http://www.gnu.org/licenses/>.

package trie

// ForEachWithPrefix calls fn, in ascending key order, for every key/value
// pair whose key starts with prefix. This backs the digest builder's
// three prefix-range scans over a historical changes trie (spec.md
// §4.1.2 step 2: ChildIndex / ExtrinsicIndex / DigestIndex prefixes).
//
// fn must not retain the slices it is given; copy them if needed.
func (t *Trie) ForEachWithPrefix(prefix []byte, fn func(key, value []byte) error) error {
	return t.walkPrefix(t.root, prefixNibbles(prefix), nil, fn)
}

func prefixNibbles(prefix []byte) []byte {
	n := make([]byte, len(prefix)*2)
	for i, b := range prefix {
		n[i*2] = b / 16
		n[i*2+1] = b % 16
	}
	return n
}

// walkPrefix descends, consuming pfx against n, until pfx is exhausted -
// at which point everything reachable from n matches the prefix and is
// handed to walkAll.
func (t *Trie) walkPrefix(n node, pfx, acc []byte, fn func(key, value []byte) error) error {
	if len(pfx) == 0 {
		return t.walkAll(n, acc, fn)
	}
	switch n := n.(type) {
	case nil:
		return nil
	case valueNode:
		return nil
	case hashNode:
		rn, err := t.resolve(n)
		if err != nil {
			return err
		}
		return t.walkPrefix(rn, pfx, acc, fn)
	case *shortNode:
		m := prefixLen(pfx, n.Key)
		switch {
		case m == len(pfx):
			// prefix is fully consumed within (or equal to) n.Key: every
			// entry below n matches.
			return t.walkAll(n, acc, fn)
		case m == len(n.Key):
			return t.walkPrefix(n.Val, pfx[m:], append(acc, n.Key...), fn)
		default:
			return nil // diverges before either is exhausted: no match
		}
	case *fullNode:
		nib := pfx[0]
		return t.walkPrefix(n.Children[nib], pfx[1:], append(acc, nib), fn)
	default:
		panic("trie: walkPrefix on unknown node type")
	}
}

// walkAll enumerates every value reachable from n, in ascending key
// order: a branch's own value (Children[16]) sorts before any of its
// nibble-indexed children, since a shorter key is always a byte-wise
// predecessor of any key it is a prefix of.
func (t *Trie) walkAll(n node, acc []byte, fn func(key, value []byte) error) error {
	switch n := n.(type) {
	case nil:
		return nil
	case hashNode:
		rn, err := t.resolve(n)
		if err != nil {
			return err
		}
		return t.walkAll(rn, acc, fn)
	case valueNode:
		return fn(hexToKeybytes(acc), []byte(n))
	case *shortNode:
		return t.walkAll(n.Val, concat(acc, n.Key), fn)
	case *fullNode:
		if n.Children[16] != nil {
			if err := t.walkAll(n.Children[16], concat(acc, []byte{16}), fn); err != nil {
				return err
			}
		}
		for i := 0; i < 16; i++ {
			if n.Children[i] == nil {
				continue
			}
			if err := t.walkAll(n.Children[i], concat(acc, []byte{byte(i)}), fn); err != nil {
				return err
			}
		}
		return nil
	default:
		panic("trie: walkAll on unknown node type")
	}
}

func concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
