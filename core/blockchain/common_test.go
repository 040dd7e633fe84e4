// Copyright (c) 2017-2019 The mynt developers
package blockchain

import (
	"encoding/binary"
	"math/big"
	"time"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types"
	"github.com/myntproject/mynt/core/types/pow"
	"github.com/myntproject/mynt/params"
)

// testNoncePool provides unique nonces so every fake or real test header
// hashes to a distinct block hash.
var testNoncePool uint32

// nextTestNonce returns a process-wide unique nonce.
func nextTestNonce() uint32 {
	testNoncePool++
	return testNoncePool
}

// newFakeNode creates a block node with the minimum state needed by the tree
// and view logic.  The hash is synthesized from a unique nonce rather than by
// hashing a header, which keeps large test chains cheap to build.  The workSum
// accumulates the raw work of the difficulty bits.
func newFakeNode(parent *blockNode, blockVersion uint32, bits uint32, timestamp int64) *blockNode {
	node := &blockNode{
		blockVersion: blockVersion,
		bits:         bits,
		timestamp:    timestamp,
		timeMax:      timestamp,
		nonce:        nextTestNonce(),
		powType:      types.VersionToAlgo(blockVersion),
		workSum:      pow.CalcWork(bits),
	}
	binary.LittleEndian.PutUint32(node.hash[0:4], node.nonce)
	if parent != nil {
		node.parent = parent
		node.height = parent.height + 1
		node.skip = parent.Ancestor(calcSkipHeight(node.height))
		node.workSum.Add(node.workSum, parent.workSum)
		if parent.timeMax > node.timeMax {
			node.timeMax = parent.timeMax
		}
	}
	return node
}

// fakeChain builds a linear chain of numNodes fake nodes on top of the given
// parent, one second apart, and returns them indexed by position.
func fakeChain(parent *blockNode, numNodes int, blockVersion uint32, bits uint32) []*blockNode {
	nodes := make([]*blockNode, numNodes)
	tip := parent
	timestamp := int64(1534567890)
	if parent != nil {
		timestamp = parent.timestamp + 1
	}
	for i := 0; i < numNodes; i++ {
		tip = newFakeNode(tip, blockVersion, bits, timestamp)
		nodes[i] = tip
		timestamp++
	}
	return nodes
}

// newTestHeader returns a solvable-looking header on top of the given parent
// hash with a unique nonce.
func newTestHeader(parentHash *hash.Hash, version uint32, bits uint32, timestamp int64, aux []byte) *types.BlockHeader {
	return &types.BlockHeader{
		Version:    version,
		ParentRoot: *parentHash,
		TxRoot:     hash.ZeroHash,
		Timestamp:  time.Unix(timestamp, 0),
		Difficulty: bits,
		Nonce:      nextTestNonce(),
		AuxData:    aux,
	}
}

// newTestParams returns chain parameters with compressed work-model epochs so
// tests can cross every threshold within a short chain.  The proof of work
// limit value is an exact power of two to keep expected work values exact.
func newTestParams() *params.Params {
	genesis := &types.BlockHeader{
		Version:    types.BlockVersionDefault,
		ParentRoot: hash.ZeroHash,
		TxRoot:     hash.ZeroHash,
		Timestamp:  time.Unix(1534567890, 0),
		Difficulty: 0x0300ffff,
		Nonce:      nextTestNonce(),
	}
	genesisHash := genesis.BlockHash()
	return &params.Params{
		Name:                               "unittest",
		GenesisHeader:                      genesis,
		GenesisHash:                        &genesisHash,
		PowLimit:                           new(big.Int).Lsh(big.NewInt(1), 240),
		PowLimitBits:                       0x0300ffff,
		BlockAlgoWorkWeightStart:           10,
		BlockAlgoNormalisedWorkStart:       20,
		BlockAlgoNormalisedWorkDecayStart1: 60,
		BlockAlgoNormalisedWorkDecayStart2: 100,
		GeoAvgWorkStart:                    140,
		PowTargetSpacing:                   60 * time.Second,
	}
}
