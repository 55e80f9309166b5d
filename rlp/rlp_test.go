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

package rlp

import (
	"bytes"
	"testing"
)

func TestEncodeBytesShortString(t *testing.T) {
	got := EncodeBytes([]byte("dog"))
	want := []byte("\x83dog")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeBytesSingleByte(t *testing.T) {
	got := EncodeBytes([]byte{0x01})
	want := []byte{0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeBytesEmpty(t *testing.T) {
	got := EncodeBytes(nil)
	want := []byte{0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeUint64(t *testing.T) {
	got := EncodeUint64(1024)
	want := []byte("\x82\x04\x00")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeUint64Zero(t *testing.T) {
	got := EncodeUint64(0)
	want := []byte{0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestList(t *testing.T) {
	got := List(EncodeBytes([]byte("dog")), EncodeBytes([]byte("god")), EncodeBytes([]byte("cat")))
	want := []byte("\xcc\x83dog\x83god\x83cat")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeBytesLong(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 100)
	enc := EncodeBytes(data)
	if enc[0] != 0xb8 {
		t.Fatalf("expected long-string header 0xb8, got %#x", enc[0])
	}
	if enc[1] != 100 {
		t.Fatalf("expected length byte 100, got %d", enc[1])
	}
	if !bytes.Equal(enc[2:], data) {
		t.Errorf("payload mismatch")
	}
}

func TestSplitRoundTrip(t *testing.T) {
	enc := List(EncodeBytes([]byte("dog")), EncodeBytes([]byte("god")), EncodeBytes([]byte("cat")))
	items, err := SplitList(enc)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"dog", "god", "cat"} {
		got, err := DecodeBytes(items[i])
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Errorf("item %d: got %q, want %q", i, got, want)
		}
	}
}

func TestDecodeBytesSingle(t *testing.T) {
	got, err := DecodeBytes([]byte("\x01"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestDecodeBytesTooShort(t *testing.T) {
	_, _, _, err := Split([]byte{0x83, 'd', 'o'})
	if err != ErrTooShort {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}
