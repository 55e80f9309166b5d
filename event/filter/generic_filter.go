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

package filter

// Generic is a Filter that matches on up to three string tags, so a
// subscriber can match by coarse category (e.g. block hash, pool
// partition) without a dedicated Go type per event.
type Generic struct {
	Str1, Str2, Str3 string
	Data             interface{}
	Fn               func(data interface{})
}

// Compare reports whether f is a Generic whose set tags all equal this
// filter's corresponding tags. An unset tag (empty string) on the receiver
// is a wildcard.
func (g Generic) Compare(f Filter) bool {
	other, ok := f.(Generic)
	if !ok {
		return false
	}
	if len(g.Str1) > 0 && g.Str1 != other.Str1 {
		return false
	}
	if len(g.Str2) > 0 && g.Str2 != other.Str2 {
		return false
	}
	if len(g.Str3) > 0 && g.Str3 != other.Str3 {
		return false
	}
	return true
}

// Trigger invokes Fn with data.
func (g Generic) Trigger(data interface{}) {
	g.Fn(data)
}
