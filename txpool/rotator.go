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
	"time"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/gosubstrate/statemachine/common"
)

// defaultRotatorCacheBytes sizes the fastcache membership index that
// IsBanned consults before the ban map. fastcache evicts entries once full,
// and a hash evicted from it reads as not banned even while its ban has not
// expired.
const defaultRotatorCacheBytes = 8 * 1024 * 1024

// Rotator is the temporary-ban cache (spec.md §4.3): hash -> ban instant,
// with a single TTL applied uniformly. The ban instants are kept in a plain
// map (so clear_timeouts can enumerate and evict expired entries directly;
// fastcache has no iteration API), and every banned hash is also set in a
// fixed-size fastcache.Cache that IsBanned checks first. The map keeps every
// ban until ClearTimeouts removes it, so its size is not bounded by the
// cache.
type Rotator struct {
	mu      sync.Mutex
	ttl     time.Duration
	banned  map[common.Hash]time.Time
	present *fastcache.Cache
}

// NewRotator returns a Rotator with the given ban TTL.
func NewRotator(ttl time.Duration) *Rotator {
	return &Rotator{
		ttl:     ttl,
		banned:  make(map[common.Hash]time.Time),
		present: fastcache.New(defaultRotatorCacheBytes),
	}
}

// Ban inserts or refreshes a ban for every hash in hashes, effective now
// (spec.md §4.3's "ban(now, iter)").
func (r *Rotator) Ban(now time.Time, hashes []common.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range hashes {
		r.banned[h] = now
		r.present.Set(h.Bytes(), nil)
	}
}

// IsBanned reports whether hash has an unexpired ban entry
// (spec.md §4.3, §8 invariant 2).
func (r *Rotator) IsBanned(hash common.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.present.Has(hash.Bytes()) {
		return false
	}
	at, ok := r.banned[hash]
	return ok && time.Since(at) < r.ttl
}

// BanIfStale bans tx if its ValidTill has passed blockNumber, returning
// whether it did (spec.md §4.3's "ban_if_stale").
func (r *Rotator) BanIfStale(now time.Time, blockNumber common.BlockNumber, tx *Transaction) bool {
	if tx.ValidTill >= blockNumber {
		return false
	}
	r.Ban(now, []common.Hash{tx.Hash})
	return true
}

// ClearTimeouts drops every ban entry whose TTL has expired as of now.
func (r *Rotator) ClearTimeouts(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, at := range r.banned {
		if now.Sub(at) >= r.ttl {
			delete(r.banned, h)
			r.present.Del(h.Bytes())
		}
	}
}
