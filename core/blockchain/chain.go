// Copyright (c) 2017-2019 The mynt developers
// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types"
	"github.com/myntproject/mynt/core/types/pow"
	"github.com/myntproject/mynt/metrics"
	"github.com/myntproject/mynt/params"
)

var (
	headerMeter = metrics.NewMeter("chain/headers")
	headerTimer = metrics.NewTimer("chain/headertime")
	reorgMeter  = metrics.NewCounter("chain/reorgs")
)

// Config is a descriptor which specifies the blockchain instance configuration.
type Config struct {
	// ChainParams identifies which chain parameters the chain is associated
	// with.
	//
	// This field is required.
	ChainParams *params.Params

	// HeaderStore provides persistence for full block headers.  The chain
	// stores headers carrying an auxiliary proof payload in it on accept
	// and reads them back when such a header is requested, since the block
	// index does not keep the payload in memory.
	//
	// This field can be nil if the caller never submits such headers and
	// never asks for them back.
	HeaderStore HeaderStore
}

// BestState houses information about the current best block and other info
// related to the state of the main chain as it exists from the point of view
// of the current best block.
//
// The BestSnapshot method can be used to obtain access to this information in
// a concurrent safe manner and the data will not be changed out from under the
// caller when chain state changes occur as the function name implies.
// However, the returned snapshot must be treated as immutable since it is
// shared by all callers.
type BestState struct {
	Hash       hash.Hash   // The hash of the block.
	Height     int32       // The height of the block.
	Bits       uint32      // The difficulty bits of the block.
	Algo       pow.PowType // The proof of work algorithm of the block.
	TotalWork  *big.Int    // The cumulative work of the chain.
	MedianTime time.Time   // Median time as per CalcPastMedianTime.
}

// newBestState returns a new best state instance for the given block node.
func newBestState(node *blockNode) *BestState {
	return &BestState{
		Hash:       node.hash,
		Height:     node.height,
		Bits:       node.bits,
		Algo:       node.powType,
		TotalWork:  new(big.Int).Set(node.workSum),
		MedianTime: node.CalcPastMedianTime(),
	}
}

// BlockChain provides functions for working with the block tree and the main
// chain selected from it.  It accepts block headers, organizes them into a
// tree with cumulative multi-algorithm work, and maintains the branch with the
// most work as the main chain.
type BlockChain struct {
	// The following fields are set when the instance is created and can't
	// be changed afterwards, so there is no need to protect them with a
	// separate mutex.
	params      *params.Params
	headerStore HeaderStore

	// chainLock protects concurrent access to the vast majority of the
	// fields in this struct below this point.
	chainLock sync.RWMutex

	// These fields are related to the memory block index.  They both have
	// their own locks, however they are often also protected by the chain
	// lock to help prevent logic races when blocks are being processed.
	index     *blockIndex
	bestChain *chainView

	// These fields are related to the best state snapshot.
	stateLock     sync.RWMutex
	stateSnapshot *BestState
}

// New returns a BlockChain instance using the provided configuration details.
func New(config *Config) (*BlockChain, error) {
	if config.ChainParams == nil {
		return nil, AssertError("blockchain.New chain parameters nil")
	}

	par := config.ChainParams
	b := BlockChain{
		params:      par,
		headerStore: config.HeaderStore,
		index:       newBlockIndex(par),
	}

	// Both the index and the main chain start out with only the genesis
	// block.
	genesisNode := newBlockNode(par.GenesisHeader, nil, par)
	if !genesisNode.hash.IsEqual(par.GenesisHash) {
		return nil, AssertError(fmt.Sprintf("genesis block hash mismatch: "+
			"expected %v, got %v", par.GenesisHash, genesisNode.hash))
	}
	genesisNode.status = statusDataStored | statusValid
	b.index.addNode(genesisNode)
	b.bestChain = newChainView(genesisNode)
	b.stateSnapshot = newBestState(genesisNode)

	log.Infof("Chain state (height %d, hash %v, work %v)",
		genesisNode.height, genesisNode.hash, genesisNode.workSum)

	return &b, nil
}

// BestSnapshot returns information about the current best chain block and
// related state as of the current point in time.  The returned instance must
// be treated as immutable since it is shared by all callers.
//
// This function is safe for concurrent access.
func (b *BlockChain) BestSnapshot() *BestState {
	b.stateLock.RLock()
	snapshot := b.stateSnapshot
	b.stateLock.RUnlock()
	return snapshot
}

// ChainParams returns the network parameters of the chain.
func (b *BlockChain) ChainParams() *params.Params {
	return b.params
}

// ProcessBlockHeader accepts the passed block header, connects it into the
// block tree and, when the resulting branch has more cumulative work than the
// current main chain, promotes that branch to be the main chain.
//
// Headers whose parent is not part of the block index are rejected with
// ErrMissingParent; there is no orphan pool at this layer.  Duplicate headers
// are rejected with ErrDuplicateBlock, headers whose version bits select an
// algorithm that does not exist with ErrBadAlgo, and headers extending an
// invalidated branch with ErrInvalidAncestor.
//
// This function is safe for concurrent access.
func (b *BlockChain) ProcessBlockHeader(header *types.BlockHeader) error {
	defer headerTimer.UpdateSince(time.Now())

	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	if v := header.Version & types.BlockVersionAlgo; v > types.BlockVersionYescrypt {
		str := fmt.Sprintf("block version %#08x selects an unknown proof "+
			"of work algorithm", header.Version)
		return ruleError(ErrBadAlgo, str)
	}

	blockHash := header.BlockHash()
	if b.index.HaveBlock(&blockHash) {
		str := fmt.Sprintf("already have block %v", blockHash)
		return ruleError(ErrDuplicateBlock, str)
	}

	parent := b.index.LookupNode(&header.ParentRoot)
	if parent == nil {
		str := fmt.Sprintf("previous block %s is unknown", header.ParentRoot)
		return ruleError(ErrMissingParent, str)
	}
	if b.index.NodeStatus(parent).KnownInvalid() {
		str := fmt.Sprintf("previous block %s is an invalid block or a "+
			"descendant of one", header.ParentRoot)
		return ruleError(ErrInvalidAncestor, str)
	}

	// Headers carrying an auxiliary proof payload cannot be rebuilt from
	// index memory, so persist the full serialized form before the node
	// becomes reachable.
	status := statusValid
	if header.IsAuxpow() && b.headerStore != nil {
		if err := b.headerStore.PutBlockHeader(header); err != nil {
			return err
		}
		status |= statusDataStored
	}

	node := newBlockNode(header, parent, b.params)
	node.status = status
	b.index.AddNode(node)
	headerMeter.Mark(1)

	log.Tracef("Accepted block header %v (height %d, algo %s)",
		node.hash, node.height, pow.GetAlgoName(node.powType))

	b.maybeUpdateBestChain(node)
	return nil
}

// maybeUpdateBestChain promotes the branch ending in the passed node to be
// the main chain when it has strictly more cumulative work than the current
// one.
//
// This function MUST be called with the chain state lock held (for writes).
func (b *BlockChain) maybeUpdateBestChain(node *blockNode) {
	tip := b.bestChain.Tip()
	if node.workSum.Cmp(tip.workSum) <= 0 {
		return
	}

	if node.parent != tip {
		fork := b.bestChain.FindFork(node)
		forkHeight := int32(-1)
		if fork != nil {
			forkHeight = fork.height
		}
		reorgMeter.Inc(1)
		log.Infof("Chain reorganization: old tip %v (height %d), new tip %v "+
			"(height %d), fork at height %d", tip.hash, tip.height,
			node.hash, node.height, forkHeight)
	}

	b.setBestChain(node)
}

// setBestChain commits the passed node as the new main chain tip and refreshes
// the best state snapshot.
//
// This function MUST be called with the chain state lock held (for writes).
func (b *BlockChain) setBestChain(node *blockNode) {
	b.bestChain.SetTip(node)

	state := newBestState(node)
	b.stateLock.Lock()
	b.stateSnapshot = state
	b.stateLock.Unlock()
}

// reselectBestChain rescans the block tree for the chain with the most
// cumulative work among those that do not contain a known invalid block and
// commits it as the main chain.  For branches ending in an invalid block the
// last valid ancestor is considered instead of the tip.
//
// This function MUST be called with the chain state lock held (for writes).
func (b *BlockChain) reselectBestChain() {
	var best *blockNode
	for _, tip := range b.index.Tips() {
		n := tip
		for n != nil && b.index.NodeStatus(n).KnownInvalid() {
			n = n.parent
		}
		if n == nil {
			continue
		}
		if best == nil || n.workSum.Cmp(best.workSum) > 0 {
			best = n
		}
	}

	tip := b.bestChain.Tip()
	if best == nil || best == tip {
		return
	}

	reorgMeter.Inc(1)
	log.Infof("Chain reselection: old tip %v (height %d), new tip %v "+
		"(height %d)", tip.hash, tip.height, best.hash, best.height)
	b.setBestChain(best)
}

// InvalidateBlock marks the block with the given hash as having failed
// validation and all of its descendants as having an invalid ancestor, then
// re-evaluates the main chain so it no longer includes any of them.  Headers
// extending an invalidated branch are rejected until the block is reconsidered.
//
// This function is safe for concurrent access.
func (b *BlockChain) InvalidateBlock(h *hash.Hash) error {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	node := b.index.LookupNode(h)
	if node == nil {
		return HashError(h.String())
	}
	if node.parent == nil {
		return fmt.Errorf("the genesis block cannot be invalidated")
	}

	b.index.SetStatusFlags(node, statusValidateFailed)
	b.index.markDescendantsInvalid(node)
	b.reselectBestChain()
	return nil
}

// ReconsiderBlock removes the validation failure flags from the block with the
// given hash and all of its descendants, then re-evaluates the main chain with
// the branch eligible again.
//
// This function is safe for concurrent access.
func (b *BlockChain) ReconsiderBlock(h *hash.Hash) error {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	node := b.index.LookupNode(h)
	if node == nil {
		return HashError(h.String())
	}

	b.index.UnsetStatusFlags(node, statusValidateFailed|statusInvalidAncestor)
	b.index.clearDescendantsInvalid(node)
	b.reselectBestChain()
	return nil
}

// HaveBlock returns whether or not the chain instance has the block
// represented by the passed hash, on any branch.
//
// This function is safe for concurrent access.
func (b *BlockChain) HaveBlock(h *hash.Hash) bool {
	return b.index.HaveBlock(h)
}

// MainChainHasBlock returns whether or not the block with the given hash is in
// the main chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) MainChainHasBlock(h *hash.Hash) bool {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	node := b.index.LookupNode(h)
	return node != nil && b.bestChain.Contains(node)
}

// BlockHeightByHash returns the height of the block with the given hash in the
// main chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockHeightByHash(h *hash.Hash) (int32, error) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	node := b.index.LookupNode(h)
	if node == nil || !b.bestChain.Contains(node) {
		return 0, HashError(h.String())
	}
	return node.height, nil
}

// BlockHashByHeight returns the hash of the block at the given height in the
// main chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockHashByHeight(height int32) (*hash.Hash, error) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	node := b.bestChain.NodeByHeight(height)
	if node == nil {
		return nil, fmt.Errorf("no block at height %d exists", height)
	}
	return &node.hash, nil
}

// HeaderByHash returns the full block header identified by the given hash,
// regardless of whether it is on the main chain.  Headers carrying an
// auxiliary proof payload are fetched from the header store since the index
// does not keep the payload in memory.
//
// This function is safe for concurrent access.
func (b *BlockChain) HeaderByHash(h *hash.Hash) (*types.BlockHeader, error) {
	node := b.index.LookupNode(h)
	if node == nil {
		return nil, HashError(h.String())
	}
	return b.index.reconstructHeader(node, b.headerStore)
}

// FindFork returns the hash of the final common block between the branch
// ending in the given block and the main chain.  It returns nil when the
// block is unknown.
//
// This function is safe for concurrent access.
func (b *BlockChain) FindFork(h *hash.Hash) *hash.Hash {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	node := b.index.LookupNode(h)
	fork := b.bestChain.FindFork(node)
	if fork == nil {
		return nil
	}
	return &fork.hash
}

// FindEarliestAtLeast returns the hash and height of the earliest main chain
// block whose maximum past timestamp is greater than or equal to the given
// time.  It returns nil when every main chain block is earlier.
//
// This function is safe for concurrent access.
func (b *BlockChain) FindEarliestAtLeast(t time.Time) (*hash.Hash, int32) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	node := b.bestChain.FindEarliestAtLeast(t.Unix())
	if node == nil {
		return nil, -1
	}
	return &node.hash, node.height
}

// Ancestor returns the hash of the ancestor at the given height of the block
// identified by the passed hash, following the branch the block is on.  It
// returns nil when the block is unknown or the height is out of range.
//
// This function is safe for concurrent access.
func (b *BlockChain) Ancestor(h *hash.Hash, height int32) *hash.Hash {
	node := b.index.LookupNode(h)
	if node == nil {
		return nil
	}
	ancestor := node.Ancestor(height)
	if ancestor == nil {
		return nil
	}
	return &ancestor.hash
}

// PastMedianTime returns the median time of the several blocks prior to, and
// including, the block with the given hash.
//
// This function is safe for concurrent access.
func (b *BlockChain) PastMedianTime(h *hash.Hash) (time.Time, error) {
	node := b.index.LookupNode(h)
	if node == nil {
		return time.Time{}, HashError(h.String())
	}
	return node.CalcPastMedianTime(), nil
}

// BlockProof returns the amount of chain work the block with the given hash
// contributes under the work model active at its height.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockProof(h *hash.Hash) (*big.Int, error) {
	node := b.index.LookupNode(h)
	if node == nil {
		return nil, HashError(h.String())
	}
	return GetBlockProof(node, b.params), nil
}

// ChainWork returns the cumulative work of the chain up to and including the
// block with the given hash.
//
// This function is safe for concurrent access.
func (b *BlockChain) ChainWork(h *hash.Hash) (*big.Int, error) {
	node := b.index.LookupNode(h)
	if node == nil {
		return nil, HashError(h.String())
	}
	return new(big.Int).Set(node.workSum), nil
}

// BlockProofEquivalentTime returns the expected time it would take to mine
// the amount of work separating the two given blocks at the difficulty of the
// block identified by tipHash.  The result is negative when the block
// identified by toHash has less cumulative work, and saturates at the int64
// range.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockProofEquivalentTime(toHash, fromHash, tipHash *hash.Hash) (int64, error) {
	to := b.index.LookupNode(toHash)
	if to == nil {
		return 0, HashError(toHash.String())
	}
	from := b.index.LookupNode(fromHash)
	if from == nil {
		return 0, HashError(fromHash.String())
	}
	tip := b.index.LookupNode(tipHash)
	if tip == nil {
		return 0, HashError(tipHash.String())
	}
	return getBlockProofEquivalentTime(to, from, tip, b.params), nil
}

// LastBlockForAlgo returns the hash of the most recent block mined with the
// given algorithm at or before the block identified by the passed hash,
// following the branch the block is on.  It returns nil when no such block
// exists.
//
// This function is safe for concurrent access.
func (b *BlockChain) LastBlockForAlgo(h *hash.Hash, algo pow.PowType) *hash.Hash {
	node := b.index.LookupNode(h)
	if node == nil {
		return nil
	}
	last := getLastNodeForAlgo(node, algo)
	if last == nil {
		return nil
	}
	return &last.hash
}

// TipHashes returns the hashes of all current leaf blocks of the block tree.
// The main chain tip is among them.
//
// This function is safe for concurrent access.
func (b *BlockChain) TipHashes() []*hash.Hash {
	tips := b.index.Tips()
	hashes := make([]*hash.Hash, 0, len(tips))
	for _, tip := range tips {
		hashes = append(hashes, &tip.hash)
	}
	return hashes
}
