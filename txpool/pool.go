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
	"errors"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/config"
	"github.com/gosubstrate/statemachine/log"
)

// SubmitResult is submit_at's per-extrinsic outcome: Hash is always set,
// and exactly one of Imported (success) or Err is non-nil (spec.md §4.2.1).
type SubmitResult struct {
	Hash     common.Hash
	Imported *Imported // nil on error
	Err      error
}

// Pool is the public facade (spec.md §2.B.5): submit_at, submit_and_watch,
// prune_tags, clear_stale, remove_invalid, bounded by configured ready/
// future limits. Per SPEC_FULL.md's "Locking model" decision, Pool owns a
// single actor goroutine serializing every mutating operation through a
// command channel, so the fixed lock order of spec.md §5 (base-pool ->
// listener -> sinks) is structurally impossible to violate: there is only
// ever one writer.
type Pool struct {
	api      ChainApi
	base     *BasePool
	rotator  *Rotator
	listener *Listener
	metrics  *metrics
	log      log.Logger

	readyLimit  Limit
	futureLimit Limit

	importSinksMu sync.Mutex
	importSinks   []chan<- common.Hash

	cmds chan func()
	done chan struct{}
}

// New returns a Pool with opts' limits and ttl, backed by api.
func New(api ChainApi, opts config.PoolOptions, rotatorTTL time.Duration, logger log.Logger) *Pool {
	if logger == nil {
		logger = log.Root()
	}
	p := &Pool{
		api:         api,
		base:        NewBasePool(),
		rotator:     NewRotator(rotatorTTL),
		listener:    NewListener(),
		metrics:     newMetrics("statemachine"),
		log:         logger,
		readyLimit:  Limit{Count: opts.Ready.Count, TotalBytes: int(opts.Ready.TotalBytes)},
		futureLimit: Limit{Count: opts.Future.Count, TotalBytes: int(opts.Future.TotalBytes)},
		cmds:        make(chan func(), 64),
		done:        make(chan struct{}),
	}
	go p.run()
	return p
}

// Close stops the pool's actor goroutine.
func (p *Pool) Close() { close(p.done) }

func (p *Pool) run() {
	for {
		select {
		case cmd := <-p.cmds:
			cmd()
		case <-p.done:
			return
		}
	}
}

// do serializes fn through the actor and blocks for its result.
func (p *Pool) do(fn func()) {
	result := make(chan struct{})
	p.cmds <- func() {
		fn()
		close(result)
	}
	<-result
}

// Listener exposes the pool's status-event fan-out (for RPC subscriptions).
func (p *Pool) Listener() *Listener { return p.listener }

// Status returns a snapshot of the base pool's partitions.
func (p *Pool) Status() PoolStatus {
	var st PoolStatus
	p.do(func() { st = p.base.Status() })
	return st
}

// Ready returns every ready transaction, consulted via the RWMutex-guarded
// read path spec.md §5 calls for ("many RPC queries"). Since the actor is
// the single writer, routing through do() already serializes with writes;
// no separate RWMutex is needed for this single-process implementation.
func (p *Pool) Ready() []*Transaction {
	var out []*Transaction
	p.do(func() { out = p.base.Ready() })
	return out
}

// SubscribeImports registers ch for best-effort, non-blocking notification
// whenever a submission lands in the ready set (spec.md §4.2.1 step 1e).
func (p *Pool) SubscribeImports(ch chan<- common.Hash) func() {
	p.importSinksMu.Lock()
	p.importSinks = append(p.importSinks, ch)
	p.importSinksMu.Unlock()
	return func() {
		p.importSinksMu.Lock()
		defer p.importSinksMu.Unlock()
		for i, cur := range p.importSinks {
			if cur == ch {
				p.importSinks = append(p.importSinks[:i], p.importSinks[i+1:]...)
				return
			}
		}
	}
}

func (p *Pool) notifyImport(hash common.Hash) {
	p.importSinksMu.Lock()
	sinks := append([]chan<- common.Hash(nil), p.importSinks...)
	p.importSinksMu.Unlock()
	for _, sink := range sinks {
		select {
		case sink <- hash:
		default: // best-effort non-blocking; a full sink just misses this one (spec.md §5)
		}
	}
}

// SubmitAt admits every xt in xts against block at (spec.md §4.2.1).
// ChainApi.Validate is called outside the base-pool lock (spec.md §5), so
// it may safely block on runtime state.
func (p *Pool) SubmitAt(at common.Hash, xts [][]byte) ([]SubmitResult, error) {
	blockNumber, ok := p.api.BlockIdToNumber(at)
	if !ok {
		return nil, ErrInvalidBlockId
	}

	results := make([]SubmitResult, len(xts))
	admittedThisBatch := make(map[common.Hash]struct{}, len(xts))

	for i, xt := range xts {
		hash, byteLen := p.api.HashAndLength(xt)
		results[i].Hash = hash

		if p.rotator.IsBanned(hash) {
			results[i].Err = &TemporarilyBanned{Hash: hash}
			continue
		}

		valid, err := p.api.Validate(at, xt)
		if err != nil {
			results[i].Err = err
			continue
		}
		switch valid.Kind {
		case ValidityInvalid:
			results[i].Err = &InvalidTransaction{Code: valid.Code}
			continue
		case ValidityUnknown:
			p.listener.Invalid(hash)
			results[i].Err = &UnknownTransactionValidity{Code: valid.Code}
			continue
		}
		if len(valid.Provides) == 0 {
			results[i].Err = ErrNoTagsProvided
			continue
		}

		tx := &Transaction{
			Hash:      hash,
			Data:      xt,
			Priority:  uint256.NewInt(valid.Priority),
			Requires:  valid.Requires,
			Provides:  valid.Provides,
			ValidTill: blockNumber.Add(common.BlockNumber(valid.Longevity)),
			Propagate: valid.Propagate,
			bytes:     byteLen,
		}

		var imported *Imported
		p.do(func() {
			imported, err = p.base.Import(tx)
		})
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].Imported = imported
		admittedThisBatch[hash] = struct{}{}
		p.metrics.admitted.Inc()

		if imported.IsReady {
			p.notifyImport(hash)
			p.listener.Ready(hash)
			for _, f := range imported.Failed {
				p.listener.Invalid(f)
			}
			for _, r := range imported.Removed {
				p.listener.Usurped(r.Hash, hash)
			}
			for _, pr := range imported.Promoted {
				p.listener.Ready(pr)
			}
		} else {
			p.listener.Future(hash)
		}
	}

	// Limit enforcement runs once per batch (spec.md §4.2.1 step 3).
	var evicted []*Transaction
	p.do(func() {
		evicted = p.base.EnforceLimits(p.readyLimit, p.futureLimit)
	})
	if len(evicted) > 0 {
		now := time.Now()
		for _, tx := range evicted {
			p.rotator.Ban(now, []common.Hash{tx.Hash})
			p.metrics.banned.Inc()
			p.metrics.dropped.Inc()
			p.listener.Dropped(tx.Hash, common.Hash{})
			if _, wasAdmittedThisBatch := admittedThisBatch[tx.Hash]; wasAdmittedThisBatch {
				for i := range results {
					if results[i].Hash == tx.Hash {
						results[i].Err = ErrImmediatelyDropped
						results[i].Imported = nil
					}
				}
			}
		}
	}

	var st PoolStatus
	p.do(func() { st = p.base.Status() })
	p.metrics.observeStatus(st)

	return results, nil
}

// SubmitAndWatch registers a watcher for xt's hash before admission, so
// the very first status event is never lost (spec.md §4.2.6).
func (p *Pool) SubmitAndWatch(at common.Hash, xt []byte) (<-chan Status, func(), error) {
	hash, _ := p.api.HashAndLength(xt)
	ch, cancel := p.listener.Watch(hash)

	results, err := p.SubmitAt(at, [][]byte{xt})
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if results[0].Err != nil {
		cancel()
		return nil, nil, results[0].Err
	}
	return ch, cancel, nil
}

// PruneTags folds a newly-imported block's provided tags out of the pool
// and re-submits anything pruned that might still be valid (spec.md
// §4.2.3).
func (p *Pool) PruneTags(at common.Hash, tags []Tag, knownImported []common.Hash) error {
	var promoted, failed []common.Hash
	var pruned []*Transaction
	p.do(func() {
		promoted, failed, pruned = p.base.PruneTags(tags)
	})

	for _, h := range promoted {
		p.listener.Ready(h)
	}
	for _, h := range failed {
		p.listener.Invalid(h)
	}

	p.rotator.Ban(time.Now(), knownImported)

	invalidNow := make(map[common.Hash]struct{})
	if len(pruned) > 0 {
		xts := make([][]byte, len(pruned))
		for i, tx := range pruned {
			xts[i] = tx.Data
		}
		results, err := p.SubmitAt(at, xts)
		if err != nil {
			return err
		}
		for _, r := range results {
			var invalidTx *InvalidTransaction
			if errors.As(r.Err, &invalidTx) {
				invalidNow[r.Hash] = struct{}{}
			}
		}
	}

	atHash := at
	for h := range invalidNow {
		p.listener.Pruned(atHash, h)
	}
	for _, h := range knownImported {
		p.listener.Pruned(atHash, h)
	}

	return p.ClearStale(at)
}

// ClearStale removes every ready-or-future transaction whose ValidTill has
// passed at's block number, then sweeps expired rotator bans
// (spec.md §4.2.4).
func (p *Pool) ClearStale(at common.Hash) error {
	blockNumber, ok := p.api.BlockIdToNumber(at)
	if !ok {
		return ErrInvalidBlockId
	}
	now := time.Now()

	var stale []*Transaction
	p.do(func() { stale = p.base.RemoveStale(blockNumber) })

	if len(stale) > 0 {
		hashes := make([]common.Hash, len(stale))
		for i, tx := range stale {
			hashes[i] = tx.Hash
		}
		p.rotator.Ban(now, hashes)
		for _, h := range hashes {
			p.listener.Dropped(h, common.Hash{})
		}
	}
	p.rotator.ClearTimeouts(now)
	return nil
}

// RemoveInvalid bans and unconditionally removes hashes from both pool
// partitions, emitting invalid events (spec.md §4.2.5).
func (p *Pool) RemoveInvalid(hashes []common.Hash) []*Transaction {
	p.rotator.Ban(time.Now(), hashes)
	var removed []*Transaction
	p.do(func() { removed = p.base.RemoveInvalid(hashes) })
	for _, tx := range removed {
		p.listener.Invalid(tx.Hash)
	}
	return removed
}

// Broadcasted wires a network layer's per-peer broadcast confirmation to
// the listener (SPEC_FULL.md supplemented feature 5).
func (p *Pool) Broadcasted(hash common.Hash, peers []string) {
	p.listener.Broadcast(hash, peers)
}
