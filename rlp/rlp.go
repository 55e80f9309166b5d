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

// Package rlp implements the canonical byte-string/list encoding the trie
// package uses for node preimages. Trie node hashes are Keccak-256 over the
// RLP encoding of a node's fields, so two independent builders only agree
// on a root hash if they agree on this encoding bit-for-bit.
//
// Only the subset of RLP the trie needs is implemented: byte strings,
// unsigned integers (encoded as their minimal big-endian byte string), and
// lists of already-encoded items.
package rlp

import (
	"errors"
	"fmt"
)

// ErrTooShort is returned when a buffer ends in the middle of an encoded
// item.
var ErrTooShort = errors.New("rlp: input too short")

// EncodeBytes returns the canonical RLP encoding of the byte string b.
//
//   - A single byte in [0x00, 0x7f] encodes as itself.
//   - A byte string of length 0-55 encodes as 0x80+len followed by the
//     string.
//   - A longer byte string encodes as 0xb7+len(len) followed by the
//     big-endian length, followed by the string.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return appendStringHeader(nil, len(b), 0x80, 0xb7, b)
}

// EncodeUint64 encodes n as its minimal big-endian byte string (with no
// leading zero byte; n == 0 encodes as the empty string).
func EncodeUint64(n uint64) []byte {
	return EncodeBytes(minimalBigEndian(n))
}

func minimalBigEndian(n uint64) []byte {
	if n == 0 {
		return nil
	}
	var buf [8]byte
	i := 8
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	return buf[i:]
}

// List concatenates already RLP-encoded items and wraps the result in a
// list header, producing the canonical encoding of the list as a whole.
func List(items ...[]byte) []byte {
	var body []byte
	for _, it := range items {
		body = append(body, it...)
	}
	return appendStringHeader(nil, len(body), 0xc0, 0xf7, body)
}

func appendStringHeader(dst []byte, size int, shortBase, longBase byte, body []byte) []byte {
	if size <= 55 {
		dst = append(dst, shortBase+byte(size))
		return append(dst, body...)
	}
	lenBytes := minimalBigEndian(uint64(size))
	dst = append(dst, longBase+byte(len(lenBytes)))
	dst = append(dst, lenBytes...)
	return append(dst, body...)
}

// Kind identifies whether a decoded item is a byte string or a list.
type Kind int

const (
	KindString Kind = iota
	KindList
)

// Split decodes the outermost item of data, returning its Kind, its
// content bytes (the string's payload, or the list's concatenated encoded
// elements), and the number of bytes of data consumed.
func Split(data []byte) (kind Kind, content []byte, consumed int, err error) {
	if len(data) == 0 {
		return 0, nil, 0, ErrTooShort
	}
	b := data[0]
	switch {
	case b < 0x80:
		return KindString, data[:1], 1, nil
	case b < 0xb8:
		size := int(b - 0x80)
		return splitFixed(data, 1, size, KindString)
	case b < 0xc0:
		sizeLen := int(b - 0xb7)
		return splitLong(data, 1, sizeLen, KindString)
	case b < 0xf8:
		size := int(b - 0xc0)
		return splitFixed(data, 1, size, KindList)
	default:
		sizeLen := int(b - 0xf7)
		return splitLong(data, 1, sizeLen, KindList)
	}
}

func splitFixed(data []byte, headerLen, size int, kind Kind) (Kind, []byte, int, error) {
	total := headerLen + size
	if len(data) < total {
		return 0, nil, 0, ErrTooShort
	}
	return kind, data[headerLen:total], total, nil
}

func splitLong(data []byte, headerLen, sizeLen int, kind Kind) (Kind, []byte, int, error) {
	if len(data) < headerLen+sizeLen {
		return 0, nil, 0, ErrTooShort
	}
	var size uint64
	for _, c := range data[headerLen : headerLen+sizeLen] {
		size = size<<8 | uint64(c)
	}
	total := headerLen + sizeLen + int(size)
	if len(data) < total {
		return 0, nil, 0, ErrTooShort
	}
	return kind, data[headerLen+sizeLen : total], total, nil
}

// SplitList decodes data as a list and returns its elements as their raw
// encoded byte slices, in order.
func SplitList(data []byte) ([][]byte, error) {
	kind, content, _, err := Split(data)
	if err != nil {
		return nil, err
	}
	if kind != KindList {
		return nil, fmt.Errorf("rlp: not a list")
	}
	var items [][]byte
	for len(content) > 0 {
		_, _, n, err := Split(content)
		if err != nil {
			return nil, err
		}
		items = append(items, content[:n])
		content = content[n:]
	}
	return items, nil
}

// DecodeBytes decodes data as a single byte string.
func DecodeBytes(data []byte) ([]byte, error) {
	kind, content, consumed, err := Split(data)
	if err != nil {
		return nil, err
	}
	if kind != KindString {
		return nil, fmt.Errorf("rlp: not a string")
	}
	if consumed != len(data) {
		return nil, fmt.Errorf("rlp: trailing bytes after string")
	}
	return content, nil
}
