// Copyright (c) 2017-2019 The mynt developers
// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package blockchain

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/common/util"
	"github.com/myntproject/mynt/core/types"
	"github.com/myntproject/mynt/core/types/pow"
	"github.com/myntproject/mynt/params"
)

const (
	// medianTimeBlocks is the number of previous blocks which should be
	// used to calculate the median time used to validate block timestamps.
	medianTimeBlocks = 11
)

// blockStatus is a bit field representing the validation state of the block.
type blockStatus byte

// The following constants specify possible status bit flags for a block.
//
// NOTE: This section specifically does not use iota since the block status is
// serialized and must be stable for long-term storage.
const (
	// statusNone indicates that the block has no validation state flags set.
	statusNone blockStatus = 0

	// statusDataStored indicates that the block's payload is stored on disk.
	statusDataStored blockStatus = 1 << 0

	// statusValid indicates that the block has been fully validated.
	statusValid blockStatus = 1 << 1

	// statusValidateFailed indicates that the block has failed validation.
	statusValidateFailed blockStatus = 1 << 2

	// statusInvalidAncestor indicates that one of the ancestors of the block
	// has failed validation, thus the block is also invalid.
	statusInvalidAncestor blockStatus = 1 << 3
)

// HaveData returns whether the full block data is stored in the database.  This
// will return false for a block node where only the header is known.
func (status blockStatus) HaveData() bool {
	return status&statusDataStored != 0
}

// KnownValid returns whether the block is known to be valid.  This will return
// false for a valid block that has not been fully validated yet.
func (status blockStatus) KnownValid() bool {
	return status&statusValid != 0
}

// KnownInvalid returns whether the block is known to be invalid.  This will
// return false for invalid blocks that have not been proven invalid yet.
func (status blockStatus) KnownInvalid() bool {
	return status&(statusValidateFailed|statusInvalidAncestor) != 0
}

// blockNode represents a block within the block tree and is primarily used to
// aid in selecting the best chain to be the main chain.  Nodes form a tree
// rooted at the genesis block, with each node holding a pointer to its parent
// and a skip pointer to a deterministic ancestor so that arbitrary ancestors
// can be reached in a logarithmic number of hops.
type blockNode struct {
	// NOTE: Additions, deletions, or modifications to the order of the
	// definitions in this struct should not be changed without considering
	// how it affects alignment on 64-bit platforms.  The current order is
	// specifically crafted to result in minimal padding.  There will be
	// hundreds of thousands of these in memory, so a few extra bytes of
	// padding adds up.

	// parent is the parent block for this node.
	parent *blockNode

	// skip is the ancestor this node jumps to when walking far back in the
	// tree.  It is assigned once when the node is linked and never changes.
	skip *blockNode

	// hash is the hash of the block this node represents.
	hash hash.Hash

	// workSum is the total amount of work in the chain up to and including
	// this node.
	workSum *big.Int

	// Some fields from block headers to aid in selection and reconstructing
	// headers from memory.  They are kept here to avoid needing to load the
	// full header from the database.
	height       int32
	blockVersion uint32
	bits         uint32
	timestamp    int64
	txRoot       hash.Hash
	nonce        uint32

	// timeMax is the maximum timestamp of this node and all of its
	// ancestors.  It keeps FindEarliestAtLeast monotonic even when block
	// timestamps are not.
	timeMax int64

	// powType caches the algorithm decoded from blockVersion.
	powType pow.PowType

	// status is a bitfield representing the validation state of the block.
	status blockStatus
}

// initBlockNode initializes a block node from the given header and parent
// node, calculating the height and workSum from the respective fields on the
// parent.  The parent must be linked before the work contribution is
// calculated since the work model in effect at the node's height consults the
// recent work of the other algorithms through the parent pointers.
//
// This function is NOT safe for concurrent access.  It must only be called
// when initially creating a node.
func initBlockNode(node *blockNode, blockHeader *types.BlockHeader, parent *blockNode, par *params.Params) {
	*node = blockNode{
		hash:         blockHeader.BlockHash(),
		blockVersion: blockHeader.Version,
		bits:         blockHeader.Difficulty,
		timestamp:    blockHeader.Timestamp.Unix(),
		txRoot:       blockHeader.TxRoot,
		nonce:        blockHeader.Nonce,
		powType:      blockHeader.Algo(),
	}
	node.timeMax = node.timestamp
	if parent != nil {
		node.parent = parent
		node.height = parent.height + 1
		node.skip = parent.Ancestor(calcSkipHeight(node.height))
		if parent.timeMax > node.timeMax {
			node.timeMax = parent.timeMax
		}
	}
	node.workSum = GetBlockProof(node, par)
	if parent != nil {
		node.workSum.Add(node.workSum, parent.workSum)
	}
}

// newBlockNode returns a new block node for the given block header and parent
// node.  When the parent is nil the workSum value is just the work
// contribution of the passed block.
func newBlockNode(blockHeader *types.BlockHeader, parent *blockNode, par *params.Params) *blockNode {
	var node blockNode
	initBlockNode(&node, blockHeader, parent, par)
	return &node
}

// GetHash returns the hash of the block this node represents.
func (node *blockNode) GetHash() *hash.Hash {
	return &node.hash
}

// GetHeight returns the height of the block this node represents.
func (node *blockNode) GetHeight() int32 {
	return node.height
}

// GetPowType returns the proof of work algorithm of the block this node
// represents.
func (node *blockNode) GetPowType() pow.PowType {
	return node.powType
}

// Header constructs a block header from the node and returns it.  Headers
// carrying auxiliary proof data cannot be rebuilt from node fields alone, so
// callers wanting the full header for such a node must go through the block
// index which consults the header store.
//
// This function is safe for concurrent access.
func (node *blockNode) Header() types.BlockHeader {
	// No lock is needed because all accessed fields are immutable.
	prevHash := &hash.ZeroHash
	if node.parent != nil {
		prevHash = &node.parent.hash
	}
	return types.BlockHeader{
		Version:    node.blockVersion,
		ParentRoot: *prevHash,
		TxRoot:     node.txRoot,
		Timestamp:  time.Unix(node.timestamp, 0),
		Difficulty: node.bits,
		Nonce:      node.nonce,
	}
}

// invertLowestOne turns the lowest set bit of n off.
func invertLowestOne(n int32) int32 {
	return n & (n - 1)
}

// calcSkipHeight returns the height of the ancestor the skip pointer of a node
// at the given height refers to.  Heights below two have no useful skip target
// and map to the genesis block.
func calcSkipHeight(height int32) int32 {
	if height < 2 {
		return 0
	}

	// Determine which height to jump back to.  Any number strictly lower
	// than height is acceptable, but the following expression seems to
	// perform well in simulations (max 110 steps to go back up to 2**18
	// blocks).
	if height&1 == 1 {
		return invertLowestOne(invertLowestOne(height-1)) + 1
	}
	return invertLowestOne(height)
}

// Ancestor returns the ancestor block node at the provided height by following
// the chain backwards from this node, using skip pointers to cut the walk to a
// logarithmic number of hops.  The returned block will be nil when a height is
// requested that is after the height of the passed node.
//
// Every node above the requested height must be linked to a parent, so running
// out of parents mid-walk means the block tree is corrupted and the walk
// panics rather than letting a nil flow into chain decisions.
//
// This function is safe for concurrent access.
func (node *blockNode) Ancestor(height int32) *blockNode {
	if height < 0 || height > node.height {
		return nil
	}

	n := node
	for n.height != height {
		// Follow the skip pointer whenever it does not overshoot and
		// walking parent by parent would not reach the target in fewer
		// hops than jumping does.
		heightSkip := int32(0)
		heightSkipPrev := int32(0)
		if n.skip != nil {
			heightSkip = n.skip.height
			heightSkipPrev = calcSkipHeight(n.height - 1)
		}
		if n.skip != nil &&
			(heightSkip == height ||
				(heightSkip > height && !(heightSkipPrev < heightSkip-2 &&
					heightSkipPrev >= height))) {
			n = n.skip
			continue
		}
		if n.parent == nil {
			panic(AssertError(fmt.Sprintf("block node %v at height %d "+
				"has no parent", n.hash, n.height)))
		}
		n = n.parent
	}

	return n
}

// RelativeAncestor returns the ancestor block node a relative 'distance'
// blocks before this node.  This is equivalent to calling Ancestor with the
// node's height minus provided distance.
//
// This function is safe for concurrent access.
func (node *blockNode) RelativeAncestor(distance int32) *blockNode {
	return node.Ancestor(node.height - distance)
}

// CalcPastMedianTime calculates the median time of the previous few blocks
// prior to, and including, the block node.
//
// This function is safe for concurrent access.
func (node *blockNode) CalcPastMedianTime() time.Time {
	// Create a slice of the previous few block timestamps used to calculate
	// the median per the number defined by the constant medianTimeBlocks.
	timestamps := make([]int64, medianTimeBlocks)
	numNodes := 0
	iterNode := node
	for i := 0; i < medianTimeBlocks && iterNode != nil; i++ {
		timestamps[i] = iterNode.timestamp
		numNodes++

		iterNode = iterNode.parent
	}

	// Prune the slice to the actual number of available timestamps which
	// will be fewer than desired near the beginning of the block chain
	// and sort them.
	timestamps = timestamps[:numNodes]
	sort.Sort(util.TimeSorter(timestamps))

	// NOTE: The consensus rules incorporate the median of an even number of
	// timestamps by choosing the element at index numNodes/2 of the sorted
	// slice rather than averaging the two middle elements.  This behavior
	// is kept for compatibility.
	medianTimestamp := timestamps[numNodes/2]
	return time.Unix(medianTimestamp, 0)
}

// getLastNodeForAlgo returns the most recent ancestor of the passed node,
// including the node itself, whose block was mined with the given proof of
// work algorithm.  It returns nil when no ancestor used the algorithm.
//
// This function is safe for concurrent access.
func getLastNodeForAlgo(node *blockNode, algo pow.PowType) *blockNode {
	for n := node; n != nil; n = n.parent {
		if n.powType == algo {
			return n
		}
	}
	return nil
}
