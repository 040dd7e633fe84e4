// Copyright (c) 2017-2019 The mynt developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// chainwork rebuilds the block index from a stored set of block headers and
// reports the multi-algorithm work state of the resulting main chain.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/blockchain"
	"github.com/myntproject/mynt/core/types"
	"github.com/myntproject/mynt/core/types/pow"
	"github.com/myntproject/mynt/database/headerdb"
	"github.com/myntproject/mynt/log"
	"github.com/myntproject/mynt/metrics"
)

var mainLog = log.New("MAIN")

func main() {
	os.Exit(realMain())
}

// realMain is factored out of main so deferred cleanups run before the exit
// code is returned.
func realMain() int {
	cfg, par, err := loadConfig()
	if err != nil {
		return 1
	}

	log.InitLogRotator(filepath.Join(cfg.HomeDir, "logs", "chainwork.log"))
	defer log.LogWrite().Close()
	log.SetLogLevels(cfg.DebugLevel)

	if cfg.Metrics {
		go metrics.CollectProcessMetrics(time.Second)
	}

	db, err := headerdb.Open(cfg.DataDir)
	if err != nil {
		mainLog.Errorf("Failed to open header database: %v", err)
		return 1
	}
	defer db.Close()

	chain, err := blockchain.New(&blockchain.Config{
		ChainParams: par,
		HeaderStore: db,
	})
	if err != nil {
		mainLog.Errorf("Failed to initialize chain: %v", err)
		return 1
	}

	if err := rebuildIndex(chain, db); err != nil {
		mainLog.Errorf("Failed to rebuild block index: %v", err)
		return 1
	}

	report(chain, cfg)

	if cfg.Metrics {
		fmt.Println("\nProcess metrics:")
		gometrics.WriteOnce(gometrics.DefaultRegistry, os.Stdout)
	}
	return 0
}

// rebuildIndex feeds every stored header into the chain.  The store iterates
// in hash order, so headers are applied in passes until a pass connects
// nothing new; headers whose ancestors never appear are reported and skipped.
func rebuildIndex(chain *blockchain.BlockChain, db *headerdb.DB) error {
	pending := make(map[hash.Hash]*types.BlockHeader)
	err := db.ForEachHeader(func(header *types.BlockHeader) error {
		blockHash := header.BlockHash()
		if !chain.HaveBlock(&blockHash) {
			pending[blockHash] = header
		}
		return nil
	})
	if err != nil {
		return err
	}

	connected := 0
	for len(pending) > 0 {
		progress := false
		for blockHash, header := range pending {
			if !chain.HaveBlock(&header.ParentRoot) {
				continue
			}
			if err := chain.ProcessBlockHeader(header); err != nil {
				return err
			}
			delete(pending, blockHash)
			connected++
			progress = true
		}
		if !progress {
			break
		}
	}
	mainLog.Infof("Connected %d stored headers, %d unconnectable",
		connected, len(pending))
	return nil
}

// report prints the work state of the main chain.  The work-as-time line
// covers the configured height range, clamped to the chain tip.
func report(chain *blockchain.BlockChain, cfg *config) {
	par := chain.ChainParams()
	state := chain.BestSnapshot()
	fmt.Printf("Network:       %s\n", par.Name)
	fmt.Printf("Best block:    %v\n", state.Hash)
	fmt.Printf("Height:        %d\n", state.Height)
	fmt.Printf("Algorithm:     %s\n", pow.GetAlgoName(state.Algo))
	fmt.Printf("Chain work:    %v\n", state.TotalWork)
	fmt.Printf("Median time:   %v\n", state.MedianTime)

	startHeight := cfg.StartHeight
	endHeight := cfg.EndHeight
	if endHeight < 0 || endHeight > state.Height {
		endHeight = state.Height
	}
	if startHeight <= endHeight {
		fromHash, fromErr := chain.BlockHashByHeight(startHeight)
		toHash, toErr := chain.BlockHashByHeight(endHeight)
		if fromErr == nil && toErr == nil {
			secs, err := chain.BlockProofEquivalentTime(toHash, fromHash,
				&state.Hash)
			if err == nil {
				fmt.Printf("Work as time:  %ds between heights %d and %d "+
					"at current tip difficulty\n", secs, startHeight, endHeight)
			}
		}
	}

	fmt.Println("\nMost recent block per algorithm:")
	for i := 0; i < pow.AlgoCountImpl; i++ {
		algo := pow.PowType(i)
		last := chain.LastBlockForAlgo(&state.Hash, algo)
		if last == nil {
			fmt.Printf("  %-9s none\n", pow.GetAlgoName(algo))
			continue
		}
		height, err := chain.BlockHeightByHash(last)
		if err != nil {
			continue
		}
		proof, err := chain.BlockProof(last)
		if err != nil {
			continue
		}
		fmt.Printf("  %-9s height %-8d proof %v\n",
			pow.GetAlgoName(algo), height, proof)
	}

	locator, err := chain.LatestBlockLocator()
	if err != nil {
		return
	}
	fmt.Println("\nBlock locator:")
	for _, h := range locator {
		fmt.Printf("  %v\n", h)
	}
}
