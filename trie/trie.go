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

// Package trie implements the Merkle-Patricia trie the changes-trie
// builder materializes its input pairs into (spec.md §4.1.3). It is
// deliberately not a byte-compatible reimplementation of any production
// trie's on-disk format (spec.md Non-goals) - inlining of short child
// nodes is skipped, every non-leaf child is addressed by hash - but the
// hashing contract (RLP-encoded nodes, Keccak-256, hex-nibble Patricia
// paths) follows the standard Ethereum Merkle-Patricia design the teacher
// itself implements.
package trie

import (
	"errors"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/rlp"
)

// ErrMissingNode is returned when a hashNode can't be resolved in the
// backing Database - the builder's StorageError("No changes trie root for
// block ...") (spec.md §4.1.2) is reported at a higher layer, but a
// corrupt/incomplete Database hits this instead.
var ErrMissingNode = errors.New("trie: missing node")

// EmptyRoot is the root hash of a trie with no entries.
var EmptyRoot = common.BytesToHash(keccak256(rlp.EncodeBytes(nil)))

// Trie is a Merkle-Patricia trie over byte-string keys and values.
//
// The zero value is not ready to use; construct with New.
type Trie struct {
	db   Database
	root node
}

// New returns a Trie over an existing root, or an empty trie if root is
// the zero hash. db must contain every node reachable from root.
func New(root common.Hash, db Database) *Trie {
	t := &Trie{db: db}
	if root != (common.Hash{}) && root != EmptyRoot {
		t.root = hashNode(root)
	}
	return t
}

func (t *Trie) resolve(n node) (node, error) {
	hn, ok := n.(hashNode)
	if !ok {
		return n, nil
	}
	blob, ok := t.db.Get(common.Hash(hn))
	if !ok {
		return nil, ErrMissingNode
	}
	return decodeNode(blob)
}

// Get looks up key. The second return value is false if key is absent.
func (t *Trie) Get(key []byte) ([]byte, bool, error) {
	v, newroot, didResolve, err := t.get(t.root, keybytesToHex(key), 0)
	if err != nil {
		return nil, false, err
	}
	if didResolve {
		t.root = newroot
	}
	if v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (t *Trie) get(origNode node, key []byte, pos int) (value []byte, newnode node, didResolve bool, err error) {
	switch n := origNode.(type) {
	case nil:
		return nil, nil, false, nil
	case valueNode:
		return n, n, false, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytesEqual(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, n, false, nil
		}
		value, newval, didResolve, err := t.get(n.Val, key, pos+len(n.Key))
		if err == nil && didResolve {
			n = &shortNode{Key: n.Key, Val: newval}
			return value, n, true, nil
		}
		return value, n, false, err
	case *fullNode:
		child := n.Children[key[pos]]
		value, newval, didResolve, err := t.get(child, key, pos+1)
		if err == nil && didResolve {
			n = n.copy()
			n.Children[key[pos]] = newval
			return value, n, true, nil
		}
		return value, n, false, err
	case hashNode:
		child, err := t.resolve(n)
		if err != nil {
			return nil, n, true, err
		}
		value, newnode, _, err := t.get(child, key, pos)
		return value, newnode, true, err
	default:
		panic("trie: get on unknown node type")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Update associates key with value, overwriting any existing value.
func (t *Trie) Update(key, value []byte) error {
	k := keybytesToHex(key)
	if len(value) != 0 {
		n, err := t.insert(t.root, k, valueNode(value))
		if err != nil {
			return err
		}
		t.root = n
	} else {
		n, err := t.delete(t.root, k)
		if err != nil {
			return err
		}
		t.root = n
	}
	return nil
}

func (t *Trie) insert(n node, key []byte, value node) (node, error) {
	if len(key) == 0 {
		return value, nil
	}
	switch n := n.(type) {
	case nil:
		return &shortNode{Key: key, Val: value}, nil
	case *shortNode:
		match := prefixLen(key, n.Key)
		if match == len(n.Key) {
			newval, err := t.insert(n.Val, key[match:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: n.Key, Val: newval}, nil
		}
		branch := &fullNode{}
		var err error
		branch.Children[n.Key[match]], err = t.insert(nil, n.Key[match+1:], n.Val)
		if err != nil {
			return nil, err
		}
		branch.Children[key[match]], err = t.insert(nil, key[match+1:], value)
		if err != nil {
			return nil, err
		}
		if match == 0 {
			return branch, nil
		}
		return &shortNode{Key: key[:match], Val: branch}, nil
	case *fullNode:
		cp := n.copy()
		var err error
		cp.Children[key[0]], err = t.insert(n.Children[key[0]], key[1:], value)
		if err != nil {
			return nil, err
		}
		return cp, nil
	case hashNode:
		rn, err := t.resolve(n)
		if err != nil {
			return nil, err
		}
		return t.insert(rn, key, value)
	default:
		panic("trie: insert on unknown node type")
	}
}

// Delete removes key from the trie. Deleting an absent key is a no-op.
func (t *Trie) Delete(key []byte) error {
	n, err := t.delete(t.root, keybytesToHex(key))
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) delete(n node, key []byte) (node, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case valueNode:
		if len(key) == 0 {
			return nil, nil
		}
		return n, nil
	case *shortNode:
		match := prefixLen(key, n.Key)
		if match < len(n.Key) {
			return n, nil // key not present
		}
		newval, err := t.delete(n.Val, key[match:])
		if err != nil {
			return nil, err
		}
		if newval == nil {
			return nil, nil
		}
		switch cv := newval.(type) {
		case *shortNode:
			return &shortNode{Key: append(append([]byte{}, n.Key...), cv.Key...), Val: cv.Val}, nil
		default:
			return &shortNode{Key: n.Key, Val: newval}, nil
		}
	case *fullNode:
		if len(key) == 0 {
			return n, nil
		}
		cp := n.copy()
		newchild, err := t.delete(n.Children[key[0]], key[1:])
		if err != nil {
			return nil, err
		}
		cp.Children[key[0]] = newchild
		return collapseFullNode(cp), nil
	case hashNode:
		rn, err := t.resolve(n)
		if err != nil {
			return nil, err
		}
		return t.delete(rn, key)
	default:
		panic("trie: delete on unknown node type")
	}
}

// collapseFullNode turns a fullNode with at most one remaining child into
// a shortNode, the standard Patricia trie compaction after a deletion.
func collapseFullNode(n *fullNode) node {
	count, pos := 0, -1
	for i, child := range n.Children {
		if child != nil {
			count++
			pos = i
		}
	}
	if count > 1 {
		return n
	}
	if count == 0 {
		return nil
	}
	if pos == 16 {
		return &shortNode{Key: []byte{16}, Val: n.Children[16]}
	}
	child := n.Children[pos]
	if cs, ok := child.(*shortNode); ok {
		return &shortNode{Key: append([]byte{byte(pos)}, cs.Key...), Val: cs.Val}
	}
	return &shortNode{Key: []byte{byte(pos)}, Val: child}
}

// commit hashes and stores n bottom-up, replacing every resolved child
// with a hashNode reference once it has been written to the Database.
func (t *Trie) commit(n node) (node, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case valueNode, hashNode:
		return n, nil
	case *shortNode:
		val, err := t.commit(n.Val)
		if err != nil {
			return nil, err
		}
		return t.store(&shortNode{Key: n.Key, Val: val}), nil
	case *fullNode:
		cp := n.copy()
		for i, child := range n.Children {
			if child == nil {
				continue
			}
			stored, err := t.commit(child)
			if err != nil {
				return nil, err
			}
			cp.Children[i] = stored
		}
		return t.store(cp), nil
	default:
		panic("trie: commit on unknown node type")
	}
}

func (t *Trie) store(n node) node {
	blob := encodeNode(n)
	h := common.BytesToHash(keccak256(blob))
	t.db.Put(h, blob)
	return hashNode(h)
}

// Hash returns the trie's root hash without persisting anything: a
// preview a caller can use before deciding whether to Commit.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return EmptyRoot
	}
	if hn, ok := t.root.(hashNode); ok {
		return common.Hash(hn)
	}
	return hashNodeOf(t.root)
}

// Commit persists every node reachable from the current root into the
// Database and returns the resulting root hash - the "(memory_db,
// root_hash)" pair the Materializer returns (spec.md §2.5).
func (t *Trie) Commit() (common.Hash, error) {
	if t.root == nil {
		return EmptyRoot, nil
	}
	n, err := t.commit(t.root)
	if err != nil {
		return common.Hash{}, err
	}
	t.root = n
	return common.Hash(n.(hashNode)), nil
}
