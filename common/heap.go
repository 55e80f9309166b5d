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

package common

import "container/heap"

// Ordered is satisfied by any type with a total order exposed as
// CompareTo, keeping Heap generic over its element type.
type Ordered[T any] interface {
	CompareTo(other T) int
}

// Heap is a generic binary min-heap: Pop always returns the smallest
// element per CompareTo.
type Heap[T Ordered[T]] struct {
	h *innerHeap[T]
}

// NewHeap returns an empty heap.
func NewHeap[T Ordered[T]]() *Heap[T] {
	ih := &innerHeap[T]{}
	heap.Init(ih)
	return &Heap[T]{h: ih}
}

// Len returns the number of elements in the heap.
func (h *Heap[T]) Len() int { return h.h.Len() }

// Push inserts v into the heap.
func (h *Heap[T]) Push(v T) { heap.Push(h.h, v) }

// Pop removes and returns the smallest element. Pop panics if the heap is
// empty, mirroring container/heap's own contract.
func (h *Heap[T]) Pop() T { return heap.Pop(h.h).(T) }

// Peek returns the smallest element without removing it.
func (h *Heap[T]) Peek() T { return h.h.items[0] }

type innerHeap[T Ordered[T]] struct {
	items []T
}

func (ih *innerHeap[T]) Len() int { return len(ih.items) }
func (ih *innerHeap[T]) Less(i, j int) bool {
	return ih.items[i].CompareTo(ih.items[j]) < 0
}
func (ih *innerHeap[T]) Swap(i, j int) { ih.items[i], ih.items[j] = ih.items[j], ih.items[i] }

func (ih *innerHeap[T]) Push(x any) {
	ih.items = append(ih.items, x.(T))
}

func (ih *innerHeap[T]) Pop() any {
	old := ih.items
	n := len(old)
	v := old[n-1]
	ih.items = old[:n-1]
	return v
}
