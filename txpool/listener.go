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

package txpool

import (
	"sync"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/event"
)

// StatusKind is one transition in a transaction's status lifecycle
// (spec.md §2.B.4, §4.2.6). Per-hash, transitions are totally ordered:
// Future -> Ready -> (Pruned | Dropped | Invalid | Usurped) -> Finalized.
type StatusKind int

const (
	StatusFuture StatusKind = iota
	StatusReady
	StatusBroadcast
	StatusDropped
	StatusInvalid
	StatusUsurped
	StatusPruned
	StatusFinalized
)

func (k StatusKind) String() string {
	switch k {
	case StatusFuture:
		return "future"
	case StatusReady:
		return "ready"
	case StatusBroadcast:
		return "broadcast"
	case StatusDropped:
		return "dropped"
	case StatusInvalid:
		return "invalid"
	case StatusUsurped:
		return "usurped"
	case StatusPruned:
		return "pruned"
	case StatusFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Status is one event delivered to a per-hash watcher.
type Status struct {
	Hash common.Hash
	Kind StatusKind

	// ReplacedBy is set on StatusDropped/StatusUsurped: the hash that
	// caused this transaction's removal.
	ReplacedBy common.Hash
	// At is set on StatusPruned/StatusFinalized: the including block's hash.
	At common.Hash
	// Peers is set on StatusBroadcast (SPEC_FULL.md supplemented feature 5).
	Peers []string
}

// watcher is one submit_and_watch subscriber: a lazy, buffered stream of
// Status. The channel is closed only when the subscriber cancels; a final
// status such as Finalized, Invalid, Usurped or Dropped does not close it.
type watcher struct {
	hash common.Hash
	ch   chan Status
}

// Listener fans out per-transaction status events to every registered
// watcher plus a broadcast feed for bulk observers (spec.md §2.B.4). The
// base-pool lock must never be held while Listener methods run
// (spec.md §5's "listener notifications happen outside the base-pool
// lock").
type Listener struct {
	mu       sync.Mutex
	watchers map[common.Hash][]*watcher
	feed     event.FeedOf[Status]
}

// NewListener returns an empty Listener.
func NewListener() *Listener {
	return &Listener{watchers: make(map[common.Hash][]*watcher)}
}

// Watch registers a new watcher for hash, returning a channel of its status
// events and an unsubscribe function. Registration must happen before
// admission so the first event is never lost (spec.md §4.2.6).
func (l *Listener) Watch(hash common.Hash) (<-chan Status, func()) {
	w := &watcher{hash: hash, ch: make(chan Status, 16)}
	l.mu.Lock()
	l.watchers[hash] = append(l.watchers[hash], w)
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		ws := l.watchers[hash]
		for i, cur := range ws {
			if cur == w {
				l.watchers[hash] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
		if len(l.watchers[hash]) == 0 {
			delete(l.watchers, hash)
		}
		close(w.ch)
	}
	return w.ch, cancel
}

// Subscribe registers a bulk observer for every status transition across
// every hash, independent of per-hash watchers.
func (l *Listener) Subscribe(ch chan<- Status) event.Subscription {
	return l.feed.Subscribe(ch)
}

// emit delivers st to hash's watchers (best-effort, non-blocking per
// spec.md §5's sink-list discipline) and the broadcast feed.
func (l *Listener) emit(st Status) {
	l.mu.Lock()
	ws := append([]*watcher(nil), l.watchers[st.Hash]...)
	l.mu.Unlock()

	for _, w := range ws {
		select {
		case w.ch <- st:
		default:
		}
	}
	l.feed.Send(st)
}

func (l *Listener) Ready(hash common.Hash)  { l.emit(Status{Hash: hash, Kind: StatusReady}) }
func (l *Listener) Future(hash common.Hash) { l.emit(Status{Hash: hash, Kind: StatusFuture}) }
func (l *Listener) Invalid(hash common.Hash) {
	l.emit(Status{Hash: hash, Kind: StatusInvalid})
}
func (l *Listener) Dropped(hash, replacedBy common.Hash) {
	l.emit(Status{Hash: hash, Kind: StatusDropped, ReplacedBy: replacedBy})
}
func (l *Listener) Usurped(hash, replacedBy common.Hash) {
	l.emit(Status{Hash: hash, Kind: StatusUsurped, ReplacedBy: replacedBy})
}
func (l *Listener) Pruned(at, hash common.Hash) {
	l.emit(Status{Hash: hash, Kind: StatusPruned, At: at})
}
func (l *Listener) Finalized(at, hash common.Hash) {
	l.emit(Status{Hash: hash, Kind: StatusFinalized, At: at})
}
func (l *Listener) Broadcast(hash common.Hash, peers []string) {
	l.emit(Status{Hash: hash, Kind: StatusBroadcast, Peers: peers})
}
