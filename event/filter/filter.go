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

// Package filter provides an older, comparison-based fan-out mechanism that
// predates Feed: filters are installed once and matched against every
// notification rather than dedicated per-subscriber channels.
package filter

import "sync"

// Filter is anything that can be compared against another Filter of the
// same concrete type, and triggered with the data that matched.
type Filter interface {
	Compare(Filter) bool
	Trigger(data interface{})
}

type filterEvent struct {
	filter Filter
	data   interface{}
}

// FilterManager dispatches Notify calls to every installed Filter whose
// Compare method reports a match.
type FilterManager struct {
	filterMu sync.RWMutex
	filters  map[int]Filter
	update   chan filterEvent
	quit     chan struct{}

	id int
}

// New returns an unstarted FilterManager.
func New() *FilterManager {
	return &FilterManager{
		filters: make(map[int]Filter),
		update:  make(chan filterEvent),
		quit:    make(chan struct{}),
	}
}

// Start begins dispatching notifications in a background goroutine.
func (fm *FilterManager) Start() {
	go fm.loop()
}

// Stop terminates the dispatch goroutine.
func (fm *FilterManager) Stop() {
	close(fm.quit)
}

// Install registers filter and returns an id that can later be passed to
// Uninstall.
func (fm *FilterManager) Install(filter Filter) int {
	fm.filterMu.Lock()
	defer fm.filterMu.Unlock()

	id := fm.id
	fm.filters[id] = filter
	fm.id++
	return id
}

// Uninstall removes the filter previously registered under id.
func (fm *FilterManager) Uninstall(id int) {
	fm.filterMu.Lock()
	defer fm.filterMu.Unlock()
	delete(fm.filters, id)
}

// Notify compares filter against every installed filter and triggers each
// match with data.
func (fm *FilterManager) Notify(filter Filter, data interface{}) {
	fm.update <- filterEvent{filter, data}
}

func (fm *FilterManager) loop() {
	for {
		select {
		case <-fm.quit:
			return
		case event := <-fm.update:
			fm.filterMu.RLock()
			for _, filter := range fm.filters {
				if filter.Compare(event.filter) {
					filter.Trigger(event.data)
				}
			}
			fm.filterMu.RUnlock()
		}
	}
}
