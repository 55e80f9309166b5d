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

// Command statenode is a small demo binary exercising the changes-trie
// builder against an on-disk store and the transaction pool against a
// sequence of CLI-declared extrinsics, the way the teacher's own cmd/
// binaries each wrap one subsystem behind a urfave/cli app.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/urfave/cli/v2"

	"github.com/gosubstrate/statemachine/log"
)

func main() {
	wr := colorable.NewColorableStderr()
	handler := log.NewTerminalHandler(wr, log.UseColor(os.Stderr))
	log.SetDefault(log.NewLogger(slog.New(handler)))

	app := &cli.App{
		Name:  "statenode",
		Usage: "changes-trie and transaction-pool demo node",
		Commands: []*cli.Command{
			buildTrieCommand,
			poolCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// parseKV splits a "key=value" CLI argument the way cmd/geth's own flag
// parsers split "name=value" account/allocation arguments.
func parseKV(s string) (key, value string, err error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return parts[0], parts[1], nil
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
