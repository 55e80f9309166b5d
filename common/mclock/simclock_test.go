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

package mclock

import (
	"testing"
	"time"
)

func TestSimulatedRunAdvancesNow(t *testing.T) {
	var c Simulated
	if c.Now() != 0 {
		t.Fatalf("fresh Simulated clock should read zero, got %v", c.Now())
	}
	c.Run(30 * time.Minute)
	c.Run(30 * time.Minute)
	if want := AbsTime(time.Hour); c.Now() != want {
		t.Errorf("Now() = %v, want %v", c.Now(), want)
	}
}

func TestAbsTimeAddSub(t *testing.T) {
	base := AbsTime(0)
	later := base.Add(10 * time.Second)
	if d := later.Sub(base); d != 10*time.Second {
		t.Errorf("Sub() = %v, want 10s", d)
	}
}
