// Copyright 2014 The go-ethereum Authors
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

// Package common holds the shared data model of the state machine: block
// numbers, content hashes, and the small byte-slice helpers the trie and
// changes-trie codecs build on.
package common

// CopyBytes returns an independent copy of b.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// LeftPadBytes zero-pads b on the left up to length l.
func LeftPadBytes(b []byte, l int) []byte {
	if l <= len(b) {
		return b
	}
	out := make([]byte, l)
	copy(out[l-len(b):], b)
	return out
}

// RightPadBytes zero-pads b on the right up to length l.
func RightPadBytes(b []byte, l int) []byte {
	if l <= len(b) {
		return b
	}
	out := make([]byte, l)
	copy(out, b)
	return out
}

// HasPrefix reports whether b starts with prefix.
func HasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
