// Copyright (c) 2017-2019 The mynt developers
package blockchain

import (
	"sync"

	"github.com/deckarep/golang-set"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types"
	"github.com/myntproject/mynt/params"
)

// HeaderStore provides access to full block headers keyed by block hash.  The
// block index keeps only the fixed header fields in memory, so headers which
// carry an auxiliary proof payload must be fetched from a store when the
// complete serialized form is needed again.
type HeaderStore interface {
	// FetchBlockHeader returns the full header for the given block hash.
	FetchBlockHeader(h *hash.Hash) (*types.BlockHeader, error)

	// PutBlockHeader stores the full serialized form of the given header.
	PutBlockHeader(header *types.BlockHeader) error
}

// blockIndex provides facilities for keeping track of an in-memory index of
// the block tree.  Although the name block chain suggests a single chain of
// blocks, it is actually a tree-shaped structure where any node can have
// multiple children.  However, there can only be one active branch which does
// indeed form a chain from the tip all the way back to the genesis block.
type blockIndex struct {
	// The following fields are set when the instance is created and can't
	// be changed afterwards, so there is no need to protect them with a
	// separate mutex.
	params *params.Params

	sync.RWMutex
	index map[hash.Hash]*blockNode

	// tips tracks the leaf nodes of the tree, i.e. nodes which no other
	// indexed node references as a parent.
	tips mapset.Set
}

// newBlockIndex returns a new empty instance of a block index.  The index will
// be dynamically populated as block nodes are loaded from the database and
// manually added.
func newBlockIndex(par *params.Params) *blockIndex {
	return &blockIndex{
		params: par,
		index:  make(map[hash.Hash]*blockNode),
		tips:   mapset.NewSet(),
	}
}

// HaveBlock returns whether or not the block index contains the provided hash.
//
// This function is safe for concurrent access.
func (bi *blockIndex) HaveBlock(h *hash.Hash) bool {
	bi.RLock()
	_, hasBlock := bi.index[*h]
	bi.RUnlock()
	return hasBlock
}

// LookupNode returns the block node identified by the provided hash.  It will
// return nil if there is no entry for the hash.
//
// This function is safe for concurrent access.
func (bi *blockIndex) LookupNode(h *hash.Hash) *blockNode {
	bi.RLock()
	node := bi.index[*h]
	bi.RUnlock()
	return node
}

// AddNode adds the provided node to the block index.  Duplicate entries are
// not checked so it is up to the caller to avoid adding them.
//
// This function is safe for concurrent access.
func (bi *blockIndex) AddNode(node *blockNode) {
	bi.Lock()
	bi.addNode(node)
	bi.Unlock()
}

// addNode adds the provided node to the block index.  This can be used while
// initializing the block index.
//
// This function is NOT safe for concurrent access.
func (bi *blockIndex) addNode(node *blockNode) {
	bi.index[node.hash] = node
	if node.parent != nil {
		bi.tips.Remove(node.parent)
	}
	bi.tips.Add(node)
}

// Tips returns the current leaf nodes of the block tree.
//
// This function is safe for concurrent access.
func (bi *blockIndex) Tips() []*blockNode {
	bi.RLock()
	defer bi.RUnlock()
	tips := make([]*blockNode, 0, bi.tips.Cardinality())
	for _, v := range bi.tips.ToSlice() {
		tips = append(tips, v.(*blockNode))
	}
	return tips
}

// NodeStatus provides concurrent-safe access to the status field of a node.
//
// This function is safe for concurrent access.
func (bi *blockIndex) NodeStatus(node *blockNode) blockStatus {
	bi.RLock()
	status := node.status
	bi.RUnlock()
	return status
}

// SetStatusFlags flips the provided status flags on the block node to on,
// regardless of whether they were on or off previously.
//
// This function is safe for concurrent access.
func (bi *blockIndex) SetStatusFlags(node *blockNode, flags blockStatus) {
	bi.Lock()
	node.status |= flags
	bi.Unlock()
}

// UnsetStatusFlags flips the provided status flags on the block node to off,
// regardless of whether they were on or off previously.
//
// This function is safe for concurrent access.
func (bi *blockIndex) UnsetStatusFlags(node *blockNode, flags blockStatus) {
	bi.Lock()
	node.status &^= flags
	bi.Unlock()
}

// markDescendantsInvalid sets the invalid ancestor flag on every indexed
// descendant of the given node.
//
// This function is safe for concurrent access.
func (bi *blockIndex) markDescendantsInvalid(node *blockNode) {
	bi.Lock()
	for _, n := range bi.index {
		if n.height > node.height && n.Ancestor(node.height) == node {
			n.status |= statusInvalidAncestor
		}
	}
	bi.Unlock()
}

// clearDescendantsInvalid removes the validation failure flags from every
// indexed descendant of the given node.
//
// This function is safe for concurrent access.
func (bi *blockIndex) clearDescendantsInvalid(node *blockNode) {
	bi.Lock()
	for _, n := range bi.index {
		if n.height > node.height && n.Ancestor(node.height) == node {
			n.status &^= statusValidateFailed | statusInvalidAncestor
		}
	}
	bi.Unlock()
}

// reconstructHeader rebuilds the full header for the given node.  Headers
// without an auxiliary proof payload are rebuilt entirely from the fields
// cached on the node.  Headers that carry one cannot be, since the index does
// not keep the payload in memory, so those are fetched from the header store
// instead.  It returns errHeaderStoreRequired when the node needs the store
// and none was provided.
func (bi *blockIndex) reconstructHeader(node *blockNode, store HeaderStore) (*types.BlockHeader, error) {
	if !types.VersionHasAuxpow(node.blockVersion) {
		header := node.Header()
		return &header, nil
	}
	if store == nil || !bi.NodeStatus(node).HaveData() {
		return nil, errHeaderStoreRequired
	}
	return store.FetchBlockHeader(&node.hash)
}
