// Copyright 2023 The go-ethereum Authors
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

package event

import "sync"

type joinSub struct {
	unsub     chan struct{}
	unsubOnce sync.Once
	err       chan error
}

// JoinSubscriptions joins multiple subscriptions to be able to track them as
// one entity and collectively cancel them or receive the first error.
func JoinSubscriptions(subs ...Subscription) Subscription {
	joined := &joinSub{
		unsub: make(chan struct{}),
		err:   make(chan error, 1),
	}
	pending := len(subs)
	var mu sync.Mutex

	for _, sub := range subs {
		sub := sub
		go func() {
			var err error
			select {
			case err = <-sub.Err():
			case <-joined.unsub:
				sub.Unsubscribe()
				err = <-sub.Err()
			}
			if err != nil {
				joined.unsubOnce.Do(func() { close(joined.unsub) })
				select {
				case joined.err <- err:
				default:
				}
			}
			mu.Lock()
			pending--
			done := pending == 0
			mu.Unlock()
			if done {
				close(joined.err)
			}
		}()
	}
	return joined
}

func (s *joinSub) Err() <-chan error {
	return s.err
}

func (s *joinSub) Unsubscribe() {
	s.unsubOnce.Do(func() { close(s.unsub) })
}
