// Copyright 2017 The go-ethereum Authors
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

// Package math provides overflow-checked uint64 arithmetic: each helper
// returns the wrapped result together with whether it overflowed.
package math

// SafeAdd returns x+y and whether the addition overflowed a uint64.
func SafeAdd(x, y uint64) (uint64, bool) {
	return x + y, y > 0 && x > ^uint64(0)-y
}

// SafeSub returns x-y and whether the subtraction underflowed a uint64.
func SafeSub(x, y uint64) (uint64, bool) {
	return x - y, y > x
}

// SafeMul returns x*y and whether the multiplication overflowed a uint64.
func SafeMul(x, y uint64) (uint64, bool) {
	if x == 0 || y == 0 {
		return 0, false
	}
	result := x * y
	return result, result/y != x
}
