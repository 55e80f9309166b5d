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

import (
	"context"
	"reflect"
	"sync"
)

// FeedOf is a generic version of Feed that delivers events of a single,
// compile-time-known type T. The transaction pool's status listener
// (txpool.Listener) broadcasts on a FeedOf[Status].
//
// FeedOf additionally supports SendWithCtx, which lets a publisher abandon
// slow subscribers once a context expires instead of blocking indefinitely.
type FeedOf[T any] struct {
	once      sync.Once
	sendLock  chan struct{}
	removeSub chan interface{}
	sendCases caseList

	mu    sync.Mutex
	inbox caseList
}

// firstSubSendCaseOf is the index of the first actual subscriber case.
// sendCases[0] is the removeSub case, sendCases[1] is a reusable slot
// holding the current call's ctx.Done() channel (a nil, forever-blocking
// channel when no context is in play).
const firstSubSendCaseOf = 2

func (f *FeedOf[T]) init() {
	f.sendLock = make(chan struct{}, 1)
	f.sendLock <- struct{}{}
	f.removeSub = make(chan interface{})
	f.sendCases = caseList{
		{Chan: reflect.ValueOf(f.removeSub), Dir: reflect.SelectRecv},
		{Chan: reflect.ValueOf((<-chan struct{})(nil)), Dir: reflect.SelectRecv},
	}
}

// Subscribe adds a channel to the feed. Future sends will be delivered on
// the channel until the subscription is canceled.
func (f *FeedOf[T]) Subscribe(channel chan<- T) Subscription {
	f.once.Do(f.init)
	chanval := reflect.ValueOf(channel)
	sub := &feedOfSub[T]{feed: f, channel: channel, err: make(chan error, 1)}

	f.mu.Lock()
	defer f.mu.Unlock()
	cas := reflect.SelectCase{Dir: reflect.SelectSend, Chan: chanval}
	f.inbox = append(f.inbox, cas)
	return sub
}

func (f *FeedOf[T]) remove(sub *feedOfSub[T]) {
	ch := interface{}(sub.channel)
	f.mu.Lock()
	index := f.inbox.find(ch)
	if index != -1 {
		f.inbox = f.inbox.delete(index)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	select {
	case f.removeSub <- ch:
	case <-f.sendLock:
		// The channel may already be gone if it was dropped by a prior
		// SendWithCtx call, so only delete when it's still present.
		if idx := f.sendCases.find(ch); idx != -1 {
			f.sendCases = f.sendCases.delete(idx)
		}
		f.sendLock <- struct{}{}
	}
}

// Send delivers to all subscribed channels simultaneously. It returns the
// number of subscribers that the value was sent to. Send never drops a
// subscriber; slow consumers make Send block.
func (f *FeedOf[T]) Send(value T) (nsent int) {
	nsent, _ = f.SendWithCtx(context.Background(), false, value)
	return nsent
}

// SendWithCtx behaves like Send, but also watches ctx. If dropNonReceivers
// is true and ctx is done before every subscriber has received the value,
// the channels that haven't received yet are closed and counted in
// ndropped instead of being waited on further. A dropped subscriber's
// channel is removed from the feed, so a later Unsubscribe on it is a
// harmless no-op.
//
// If dropNonReceivers is false, ctx expiring has no effect and
// SendWithCtx behaves exactly like Send.
func (f *FeedOf[T]) SendWithCtx(ctx context.Context, dropNonReceivers bool, value T) (nsent, ndropped int) {
	rvalue := reflect.ValueOf(value)

	f.once.Do(f.init)
	<-f.sendLock

	f.mu.Lock()
	f.sendCases = append(f.sendCases, f.inbox...)
	f.inbox = nil
	f.mu.Unlock()

	if !dropNonReceivers {
		ctx = context.Background()
	}
	f.sendCases[1].Chan = reflect.ValueOf(ctx.Done())

	for i := firstSubSendCaseOf; i < len(f.sendCases); i++ {
		f.sendCases[i].Send = rvalue
	}

	cases := f.sendCases
	for {
		for i := firstSubSendCaseOf; i < len(cases); i++ {
			if cases[i].Chan.TrySend(rvalue) {
				nsent++
				cases = cases.deactivate(i)
				i--
			}
		}
		if len(cases) == firstSubSendCaseOf {
			break
		}
		chosen, recv, _ := reflect.Select(cases)
		switch {
		case chosen == 0:
			index := f.sendCases.find(recv.Interface())
			f.sendCases = f.sendCases.delete(index)
			if index >= 0 && index < len(cases) {
				cases = f.sendCases[:len(cases)-1]
			}
		case chosen == 1:
			if dropNonReceivers {
				ndropped += f.dropPending(cases[firstSubSendCaseOf:])
			}
			cases = cases[:firstSubSendCaseOf]
		default:
			cases = cases.deactivate(chosen)
			nsent++
		}
	}

	for i := firstSubSendCaseOf; i < len(f.sendCases); i++ {
		f.sendCases[i].Send = reflect.Value{}
	}
	f.sendLock <- struct{}{}
	return nsent, ndropped
}

// dropPending closes every channel in pending and removes it from
// f.sendCases. Callers must hold f.sendLock.
func (f *FeedOf[T]) dropPending(pending caseList) (ndropped int) {
	for _, cas := range pending {
		ch := cas.Chan.Interface()
		if idx := f.sendCases.find(ch); idx != -1 {
			f.sendCases = f.sendCases.delete(idx)
		}
		cas.Chan.Close()
		ndropped++
	}
	return ndropped
}

type feedOfSub[T any] struct {
	feed    *FeedOf[T]
	channel chan<- T
	errOnce sync.Once
	err     chan error
}

func (sub *feedOfSub[T]) Unsubscribe() {
	sub.errOnce.Do(func() {
		sub.feed.remove(sub)
		close(sub.err)
	})
}

func (sub *feedOfSub[T]) Err() <-chan error {
	return sub.err
}
