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
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gosubstrate/statemachine/config"
	"github.com/gosubstrate/statemachine/log"
	"github.com/gosubstrate/statemachine/rpc"
	"github.com/gosubstrate/statemachine/txpool"
	"github.com/gosubstrate/statemachine/txpool/txpooltest"
)

var poolCommand = &cli.Command{
	Name:  "pool",
	Usage: "submit a batch of demo extrinsics against an in-process pool",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "xt",
			Usage: `extrinsic as "nonce,priority,requires,provides" (requires/provides are ;-separated tags, may be empty), repeatable`,
		},
	},
	Action: runPool,
}

// parseExtrinsic parses one --xt value into a txpooltest.Extrinsic, which
// runPool declares on a txpooltest.ChainApi so its validity is fixed up
// front from the parsed fields - a real ChainApi
// implementation (consensus-aware transaction validation) is out of
// scope per spec.md §1's "assumed available" collaborators.
func parseExtrinsic(spec string) (txpooltest.Extrinsic, error) {
	fields := strings.Split(spec, ",")
	if len(fields) != 4 {
		return txpooltest.Extrinsic{}, fmt.Errorf("expected nonce,priority,requires,provides, got %q", spec)
	}
	nonce, err := parseUint(fields[0])
	if err != nil {
		return txpooltest.Extrinsic{}, err
	}
	priority, err := parseUint(fields[1])
	if err != nil {
		return txpooltest.Extrinsic{}, err
	}
	xt := txpooltest.Extrinsic{Nonce: nonce, Priority: priority, Propagate: true}
	if fields[2] != "" {
		for _, t := range strings.Split(fields[2], ";") {
			xt.Requires = append(xt.Requires, txpool.Tag(t))
		}
	}
	if fields[3] != "" {
		for _, t := range strings.Split(fields[3], ";") {
			xt.Provides = append(xt.Provides, txpool.Tag(t))
		}
	}
	return xt, nil
}

func runPool(c *cli.Context) error {
	api := txpooltest.NewChainApi()
	pool := txpool.New(api, config.Defaults().Pool, 30*time.Minute, log.Root())
	defer pool.Close()

	at := txpooltest.BlockHash(0)
	var xts [][]byte
	for _, spec := range c.StringSlice("xt") {
		xt, err := parseExtrinsic(spec)
		if err != nil {
			return err
		}
		api.Declare(xt)
		xts = append(xts, xt.Encode())
	}

	results, err := pool.SubmitAt(at, xts)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			mapped := rpc.MapPoolError(r.Err)
			fmt.Printf("%s rejected: code=%d %s\n", r.Hash, mapped.Code, mapped.Message)
			continue
		}
		fmt.Printf("%s imported ready=%v\n", r.Hash, r.Imported.IsReady)
	}

	status := pool.Status()
	fmt.Printf("ready=%d future=%d\n", status.Ready, status.Future)
	return nil
}
