// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ethereum.  If not, see <http://www.gnu.org/licenses/>.

// Package errs provides a small numeric-code error table: a Package name, a
// code -> description map, and a code -> severity function. The rpc package
// uses one instance of this to map pool and builder error kinds onto the
// wire error codes of the JSON-RPC error envelope.
package errs

import (
	"fmt"

	"github.com/gosubstrate/statemachine/log"
)

// Errors is a numeric-code error table for one subsystem.
type Errors struct {
	Package string
	Errors  map[int]string
	Level   func(code int) log.Level
}

// Error is one instantiated error produced from an Errors table.
type Error struct {
	Pkg     string
	Message string
	Code    int
	Level   log.Level
}

// New builds an Error for code, appending a formatted detail message to the
// table's description of code.
func (e *Errors) New(code int, format string, v ...interface{}) *Error {
	err := &Error{
		Pkg:  e.Package,
		Code: code,
	}
	if e.Level != nil {
		err.Level = e.Level(code)
	} else {
		err.Level = log.LevelError
	}
	detail := fmt.Sprintf(format, v...)
	if desc, ok := e.Errors[code]; ok {
		err.Message = fmt.Sprintf("%s: %s", desc, detail)
	} else {
		err.Message = detail
	}
	return err
}

func (err *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", err.Pkg, err.Level, err.Message)
}

// Fatal reports whether err is severe enough to abort the operation that
// produced it, rather than merely being surfaced to the caller.
func (err *Error) Fatal() bool {
	return err.Level >= log.LevelError
}
