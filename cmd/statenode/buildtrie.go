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

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gosubstrate/statemachine/changes"
	"github.com/gosubstrate/statemachine/changes/changesdb"
	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/config"
	"github.com/gosubstrate/statemachine/log"
)

var buildTrieCommand = &cli.Command{
	Name:  "build-trie",
	Usage: "build one block's changes trie against an on-disk node store",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "datadir", Value: "statenode-data", Usage: "LevelDB directory"},
		&cli.Uint64Flag{Name: "parent", Value: 0, Usage: "parent block number"},
		&cli.Uint64Flag{Name: "interval", Value: 4, Usage: "digest interval"},
		&cli.Uint64Flag{Name: "levels", Value: 2, Usage: "digest levels"},
		&cli.StringSliceFlag{Name: "set", Usage: "key=value write attributed to extrinsic 0, repeatable"},
	},
	Action: runBuildTrie,
}

// demoBackend is an in-memory changes.Backend standing in for the
// runtime's pre-block storage - out of scope per spec.md §1, so the CLI
// demo has no real chain state to read. runBuildTrie leaves it empty
// (--set writes go into the overlay), so every key counts as new.
type demoBackend struct{ values map[string][]byte }

func (b *demoBackend) Storage(key []byte) ([]byte, bool) {
	v, ok := b.values[string(key)]
	return v, ok
}
func (b *demoBackend) ChildStorage(string, []byte) ([]byte, bool) { return nil, false }
func (b *demoBackend) ExistsStorage(key []byte) bool              { _, ok := b.Storage(key); return ok }
func (b *demoBackend) ExistsChildStorage(string, []byte) bool     { return false }

func runBuildTrie(c *cli.Context) error {
	db, err := changesdb.Open(c.String("datadir"))
	if err != nil {
		return err
	}
	defer db.Close()

	parent := common.BlockNumber(c.Uint64("parent"))
	block := parent.Add(1)

	overlay := changes.NewOverlayedChanges()
	backend := &demoBackend{values: make(map[string][]byte)}
	for _, kv := range c.StringSlice("set") {
		key, value, err := parseKV(kv)
		if err != nil {
			return err
		}
		overlay.Set([]byte(key), []byte(value), 0)
	}
	overlay.Commit()

	history := config.History{{
		Digest: config.DigestOptions{Interval: c.Uint64("interval"), Levels: c.Uint64("levels")},
		Zero:   0,
	}}

	parentHash := changesdbBlockHash(parent)
	anchor, err := db.BuildAnchor(parentHash)
	if err != nil {
		// First block built against this datadir: seed the anchor.
		anchor = common.AnchorBlockId{Hash: parentHash, Number: parent}
	}

	storage := changesdb.NewStorage(db)
	built, err := changes.BuildChangesTrie(backend, storage, db, history, overlay, anchor, db)
	if err != nil {
		log.Root().Error("build-trie failed", "block", block, "err", err)
		return err
	}

	blockHash := changesdbBlockHash(block)
	if err := db.SetRoot(block, blockHash, built.Root); err != nil {
		return err
	}

	fmt.Printf("block %d root %s\n", block, built.Root)
	log.Root().Info("built changes trie", "block", block, "root", built.Root)
	return nil
}

// changesdbBlockHash is the demo's synthetic block-hash convention,
// matching changestest's BlockHash(n) = BytesToHash(n) helper.
func changesdbBlockHash(n common.BlockNumber) common.Hash {
	var h common.Hash
	copy(h[24:], n.Encode())
	return h
}
