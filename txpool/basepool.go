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
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/gosubstrate/statemachine/common"
)

// Limit bounds one of the base pool's two partitions (spec.md §3's
// "BasePool status").
type Limit struct {
	Count      int
	TotalBytes int
}

// Exceeded reports whether count/bytes is over l.
func (l Limit) Exceeded(count, bytes int) bool {
	return count > l.Count || bytes > l.TotalBytes
}

// pruneCacheSize bounds the LRU of recently-pruned tags. PruneTags records
// every pruned tag into it; nothing in the pool reads it back.
const pruneCacheSize = 4096

// Imported is submit_at's per-transaction outcome (spec.md §4.2.1 step 2d).
type Imported struct {
	Hash     common.Hash
	IsReady  bool // false => Future
	Promoted []common.Hash
	Failed   []common.Hash
	Removed  []*Transaction
}

// BasePool is the ready/future partitioned queue keyed by Tag
// (spec.md §2.B.2). Ready holds transactions whose every Requires tag is
// satisfied by some Provides tag already in the ready set; Future holds
// the rest.
type BasePool struct {
	ready       map[common.Hash]*Transaction
	readyBytes  int
	future      map[common.Hash]*Transaction
	futureBytes int

	// provided maps a tag to the ready transaction currently providing it.
	provided map[string]common.Hash
	// waiting maps a tag to the set of future transactions blocked on it.
	waiting map[string]map[common.Hash]struct{}

	recentlyPruned *lru.Cache
}

// NewBasePool returns an empty BasePool.
func NewBasePool() *BasePool {
	cache, _ := lru.New(pruneCacheSize)
	return &BasePool{
		ready:          make(map[common.Hash]*Transaction),
		future:         make(map[common.Hash]*Transaction),
		provided:       make(map[string]common.Hash),
		waiting:        make(map[string]map[common.Hash]struct{}),
		recentlyPruned: cache,
	}
}

// PoolStatus is BasePool's snapshot per spec.md §3.
type PoolStatus struct {
	Ready       int
	ReadyBytes  int
	Future      int
	FutureBytes int
}

func (bp *BasePool) Status() PoolStatus {
	return PoolStatus{Ready: len(bp.ready), ReadyBytes: bp.readyBytes, Future: len(bp.future), FutureBytes: bp.futureBytes}
}

// Contains reports whether hash is tracked in either partition
// (spec.md §8 invariant 1's idempotency check).
func (bp *BasePool) Contains(hash common.Hash) bool {
	if _, ok := bp.ready[hash]; ok {
		return true
	}
	_, ok := bp.future[hash]
	return ok
}

func (bp *BasePool) Get(hash common.Hash) (*Transaction, bool) {
	if tx, ok := bp.ready[hash]; ok {
		return tx, true
	}
	tx, ok := bp.future[hash]
	return tx, ok
}

// Ready returns every ready transaction (spec.md §5's "many RPC queries"
// read path). Callers must not mutate the returned slice's transactions.
func (bp *BasePool) Ready() []*Transaction {
	out := make([]*Transaction, 0, len(bp.ready))
	for _, tx := range bp.ready {
		out = append(out, tx)
	}
	return out
}

// requiresSatisfied reports whether every tx.Requires tag is currently
// provided by some ready transaction.
func (bp *BasePool) requiresSatisfied(tx *Transaction) bool {
	for _, tag := range tx.Requires {
		if _, ok := bp.provided[string(tag)]; !ok {
			return false
		}
	}
	return true
}

// checkCycle walks the chain of ready providers that tx.Requires would
// depend on, failing if it ever leads back to tx's own provided tags
// (SPEC_FULL.md supplemented feature 4: cycle detection at admission
// time, grounded in the original's replace_transaction dependency walk).
func (bp *BasePool) checkCycle(tx *Transaction) bool {
	provides := make(map[string]struct{}, len(tx.Provides))
	for _, p := range tx.Provides {
		provides[string(p)] = struct{}{}
	}
	if len(provides) == 0 {
		return false
	}
	seen := make(map[common.Hash]struct{})
	var walk func(cur *Transaction) bool
	walk = func(cur *Transaction) bool {
		for _, req := range cur.Requires {
			providerHash, ok := bp.provided[string(req)]
			if !ok {
				continue
			}
			if _, already := provides[string(req)]; already {
				return true
			}
			if _, visited := seen[providerHash]; visited {
				continue
			}
			seen[providerHash] = struct{}{}
			provider, ok := bp.ready[providerHash]
			if !ok {
				continue
			}
			if walk(provider) {
				return true
			}
		}
		return false
	}
	return walk(tx)
}

// Import admits tx into the base pool, promoting any future transactions
// it unblocks and evicting ready transactions it usurps by re-providing
// their tags (spec.md §4.2.1 step 2d, SPEC_FULL.md supplemented feature 5).
func (bp *BasePool) Import(tx *Transaction) (*Imported, error) {
	if bp.Contains(tx.Hash) {
		return nil, &AlreadyImported{Hash: tx.Hash}
	}
	if len(tx.Provides) > 0 && bp.checkCycle(tx) {
		return nil, ErrCycleDetected
	}

	var removed []*Transaction
	for _, p := range tx.Provides {
		if oldHash, ok := bp.provided[string(p)]; ok && oldHash != tx.Hash {
			if old, ok := bp.ready[oldHash]; ok {
				bp.removeReady(oldHash)
				removed = append(removed, old)
			}
		}
	}

	if !bp.requiresSatisfied(tx) {
		bp.addFuture(tx)
		return &Imported{Hash: tx.Hash, IsReady: false}, nil
	}

	bp.addReady(tx)
	promoted, failed := bp.promoteFutures()
	return &Imported{Hash: tx.Hash, IsReady: true, Promoted: promoted, Failed: failed, Removed: removed}, nil
}

func (bp *BasePool) addReady(tx *Transaction) {
	tx.submittedAt = time.Now()
	bp.ready[tx.Hash] = tx
	bp.readyBytes += tx.Bytes()
	for _, p := range tx.Provides {
		bp.provided[string(p)] = tx.Hash
	}
}

func (bp *BasePool) addFuture(tx *Transaction) {
	tx.submittedAt = time.Now()
	bp.future[tx.Hash] = tx
	bp.futureBytes += tx.Bytes()
	for _, r := range tx.Requires {
		m, ok := bp.waiting[string(r)]
		if !ok {
			m = make(map[common.Hash]struct{})
			bp.waiting[string(r)] = m
		}
		m[tx.Hash] = struct{}{}
	}
}

func (bp *BasePool) removeReady(hash common.Hash) {
	tx, ok := bp.ready[hash]
	if !ok {
		return
	}
	delete(bp.ready, hash)
	bp.readyBytes -= tx.Bytes()
	for _, p := range tx.Provides {
		if bp.provided[string(p)] == hash {
			delete(bp.provided, string(p))
		}
	}
}

func (bp *BasePool) removeFuture(hash common.Hash) {
	tx, ok := bp.future[hash]
	if !ok {
		return
	}
	delete(bp.future, hash)
	bp.futureBytes -= tx.Bytes()
	for _, r := range tx.Requires {
		if m, ok := bp.waiting[string(r)]; ok {
			delete(m, hash)
			if len(m) == 0 {
				delete(bp.waiting, string(r))
			}
		}
	}
}

// promoteFutures moves every future transaction whose Requires are now
// satisfied into the ready set, repeating until a fixed point (a promoted
// tx's own Provides may satisfy another future tx).
func (bp *BasePool) promoteFutures() (promoted, failed []common.Hash) {
	for {
		var round []common.Hash
		for hash, tx := range bp.future {
			if bp.requiresSatisfied(tx) {
				round = append(round, hash)
			}
		}
		if len(round) == 0 {
			return promoted, failed
		}
		for _, hash := range round {
			tx := bp.future[hash]
			bp.removeFuture(hash)
			if len(tx.Provides) > 0 && bp.checkCycle(tx) {
				failed = append(failed, hash)
				continue
			}
			bp.addReady(tx)
			promoted = append(promoted, hash)
		}
	}
}

// PruneTags removes every transaction that provides any of tags, cascading
// to transactions whose requires depended on the removed provides
// (spec.md §4.2.3 step 1).
func (bp *BasePool) PruneTags(tags []Tag) (promoted, failed []common.Hash, pruned []*Transaction) {
	seen := make(map[common.Hash]struct{})
	queue := make([]Tag, len(tags))
	copy(queue, tags)

	for len(queue) > 0 {
		tag := queue[0]
		queue = queue[1:]
		bp.recentlyPruned.Add(string(tag), struct{}{})

		if hash, ok := bp.provided[string(tag)]; ok {
			if _, done := seen[hash]; !done {
				tx := bp.ready[hash]
				seen[hash] = struct{}{}
				bp.removeReady(hash)
				pruned = append(pruned, tx)
				queue = append(queue, tx.Provides...)
			}
		}
		for hash := range bp.waiting[string(tag)] {
			if _, done := seen[hash]; done {
				continue
			}
			tx := bp.future[hash]
			seen[hash] = struct{}{}
			bp.removeFuture(hash)
			pruned = append(pruned, tx)
			queue = append(queue, tx.Provides...)
		}
	}

	p, f := bp.promoteFutures()
	promoted = append(promoted, p...)
	failed = append(failed, f...)
	return promoted, failed, pruned
}

// RemoveInvalid unconditionally removes hashes from both partitions,
// returning whichever transactions were present (spec.md §4.2.5).
func (bp *BasePool) RemoveInvalid(hashes []common.Hash) []*Transaction {
	var out []*Transaction
	for _, h := range hashes {
		if tx, ok := bp.ready[h]; ok {
			bp.removeReady(h)
			out = append(out, tx)
			continue
		}
		if tx, ok := bp.future[h]; ok {
			bp.removeFuture(h)
			out = append(out, tx)
		}
	}
	return out
}

// RemoveStale removes every ready-or-future transaction whose ValidTill
// has passed blockNumber (spec.md §4.2.4).
func (bp *BasePool) RemoveStale(blockNumber common.BlockNumber) []*Transaction {
	var stale []common.Hash
	for h, tx := range bp.ready {
		if tx.ValidTill < blockNumber {
			stale = append(stale, h)
		}
	}
	for h, tx := range bp.future {
		if tx.ValidTill < blockNumber {
			stale = append(stale, h)
		}
	}
	return bp.RemoveInvalid(stale)
}

// EnforceLimits evicts the lowest-priority transactions from a partition
// until both its count and byte budgets are satisfied (spec.md §4.2.2).
func (bp *BasePool) EnforceLimits(readyLimit, futureLimit Limit) (evicted []*Transaction) {
	evicted = append(evicted, bp.enforceReady(readyLimit)...)
	evicted = append(evicted, bp.enforceFuture(futureLimit)...)
	return evicted
}

func (bp *BasePool) enforceReady(limit Limit) []*Transaction {
	var evicted []*Transaction
	for limit.Exceeded(len(bp.ready), bp.readyBytes) {
		victim := bp.lowestPriority(bp.ready)
		if victim == nil {
			break
		}
		bp.removeReady(victim.Hash)
		evicted = append(evicted, victim)
	}
	return evicted
}

func (bp *BasePool) enforceFuture(limit Limit) []*Transaction {
	var evicted []*Transaction
	for limit.Exceeded(len(bp.future), bp.futureBytes) {
		victim := bp.lowestPriority(bp.future)
		if victim == nil {
			break
		}
		bp.removeFuture(victim.Hash)
		evicted = append(evicted, victim)
	}
	return evicted
}

func (bp *BasePool) lowestPriority(m map[common.Hash]*Transaction) *Transaction {
	var worst *Transaction
	for _, tx := range m {
		if worst == nil || tx.lessPriority(worst) {
			worst = tx
		}
	}
	return worst
}
