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

package log

import (
	"math/big"
	"strconv"
)

// FormatLogfmtInt64 formats n with thousands separators, e.g. "1,234,567".
func FormatLogfmtInt64(n int64) string {
	if n < 0 {
		return "-" + FormatLogfmtUint64(uint64(-n))
	}
	return FormatLogfmtUint64(uint64(n))
}

// FormatLogfmtUint64 formats n with thousands separators.
func FormatLogfmtUint64(n uint64) string {
	if n < 100000 {
		// below 100,000, go-ethereum's logfmt leaves the number unadorned.
		return strconv.FormatUint(n, 10)
	}
	return groupThousands(strconv.FormatUint(n, 10))
}

func formatLogfmtBigInt(n *big.Int) string {
	abs := new(big.Int).Abs(n)
	var s string
	if abs.IsUint64() && abs.Uint64() < 100000 {
		s = abs.String()
	} else {
		s = groupThousands(abs.String())
	}
	if n.Sign() < 0 {
		return "-" + s
	}
	return s
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
