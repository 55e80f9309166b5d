// Copyright 2018 The go-ethereum Authors
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

// Package mclock supplies a monotonic "instant" abstraction with a
// controllable clock, so code written against it can be tested without
// sleeping. The rotator and the pool's stale-clearing pass call time.Now
// directly and do not use it.
package mclock

import "time"

// AbsTime represents an absolute monotonic time instant.
type AbsTime time.Duration

// Add returns t+d.
func (t AbsTime) Add(d time.Duration) AbsTime {
	return t + AbsTime(d)
}

// Sub returns the duration between t and t2.
func (t AbsTime) Sub(t2 AbsTime) time.Duration {
	return time.Duration(t - t2)
}

// Clock abstracts over real and simulated time, matching the interface the
// teacher's event/subscription plumbing expects a clock to satisfy.
type Clock interface {
	Now() AbsTime
}

// System implements Clock using the real wall clock.
type System struct{}

var start = time.Now()

// Now returns the current monotonic time since System was first used.
func (System) Now() AbsTime {
	return AbsTime(time.Since(start))
}

var _ Clock = System{}
