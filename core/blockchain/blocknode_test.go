// Copyright (c) 2017-2019 The mynt developers
package blockchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/myntproject/mynt/core/types"
)

func TestCalcSkipHeight(t *testing.T) {
	tests := []struct {
		height int32
		want   int32
	}{
		{0, 0},
		{1, 0},
		{2, 0},
		{3, 1},
		{4, 0},
		{5, 1},
		{6, 4},
		{7, 1},
		{8, 0},
		{9, 1},
		{10, 8},
		{12, 8},
		{14, 12},
		{15, 9},
		{16, 0},
		{17, 1},
	}
	for _, test := range tests {
		got := calcSkipHeight(test.height)
		assert.Equal(t, test.want, got, "height %d", test.height)
		// Whatever the exact target, it must be strictly below the
		// node for heights that have a meaningful skip.
		if test.height >= 2 {
			assert.True(t, got < test.height)
		}
	}
}

// ancestorSteps mirrors the pointer walk Ancestor performs and returns the
// number of hops taken.
func ancestorSteps(node *blockNode, height int32) int {
	steps := 0
	n := node
	for n != nil && n.height != height {
		steps++
		if n.skip != nil {
			heightSkip := n.skip.height
			heightSkipPrev := calcSkipHeight(n.height - 1)
			if heightSkip == height ||
				(heightSkip > height && !(heightSkipPrev < heightSkip-2 &&
					heightSkipPrev >= height)) {
				n = n.skip
				continue
			}
		}
		n = n.parent
	}
	return steps
}

func TestAncestor(t *testing.T) {
	// A linear chain means the ancestor at a height is exactly the node
	// built at that height.
	const chainLen = 1 << 18
	nodes := fakeChain(nil, chainLen, types.BlockVersionDefault, 0x207fffff)
	tip := nodes[chainLen-1]

	// Out of range requests.
	assert.Nil(t, tip.Ancestor(-1))
	assert.Nil(t, tip.Ancestor(tip.height+1))

	// Every node is its own ancestor at its height.
	assert.Equal(t, tip, tip.Ancestor(tip.height))
	assert.Equal(t, nodes[0], nodes[0].Ancestor(nodes[0].height))

	// Spot check exact resolution across the whole range, from both the
	// tip and interior nodes.
	for _, from := range []*blockNode{tip, nodes[chainLen/2], nodes[1<<10]} {
		for _, target := range []int32{0, 1, 2, 3, 100, 255, 256, 1 << 9,
			(1 << 12) - 1, 1 << 15, from.height - 1, from.height} {
			if target > from.height {
				continue
			}
			assert.Equal(t, nodes[target], from.Ancestor(target),
				"from %d to %d", from.height, target)
		}
	}
}

func TestAncestorCorruptedTree(t *testing.T) {
	// A node above the target height with no parent link means the block
	// tree is corrupted, which must abort the walk rather than be reported
	// as a plain out-of-range miss.
	node := &blockNode{height: 5}
	assert.Panics(t, func() { node.Ancestor(2) })

	// Out-of-range requests and self lookups still behave as usual.
	assert.Nil(t, node.Ancestor(6))
	assert.Equal(t, node, node.Ancestor(5))
}

func TestAncestorStepBound(t *testing.T) {
	// The skip pointer layout guarantees at most 110 hops for any walk of
	// up to 2**18 blocks.
	const chainLen = 1 << 18
	nodes := fakeChain(nil, chainLen, types.BlockVersionDefault, 0x207fffff)
	tip := nodes[chainLen-1]

	maxSteps := 0
	for height := int32(0); height < chainLen; height += 97 {
		steps := ancestorSteps(tip, height)
		if steps > maxSteps {
			maxSteps = steps
		}
		assert.Equal(t, nodes[height], tip.Ancestor(height))
	}
	// Also probe the heights adjacent to powers of two where the walk
	// degenerates.
	for shift := uint(1); shift < 18; shift++ {
		for delta := int32(-1); delta <= 1; delta++ {
			height := int32(1<<shift) + delta
			if height < 0 || height >= chainLen {
				continue
			}
			steps := ancestorSteps(tip, height)
			if steps > maxSteps {
				maxSteps = steps
			}
		}
	}
	assert.True(t, maxSteps <= 110, "max steps %d", maxSteps)
}

func TestRelativeAncestor(t *testing.T) {
	nodes := fakeChain(nil, 64, types.BlockVersionDefault, 0x207fffff)
	tip := nodes[63]
	assert.Equal(t, nodes[53], tip.RelativeAncestor(10))
	assert.Equal(t, nodes[0], tip.RelativeAncestor(tip.height))
	assert.Nil(t, tip.RelativeAncestor(tip.height+1))
}

func TestCalcPastMedianTime(t *testing.T) {
	// Build a chain whose timestamps are deliberately out of order and
	// verify the median of the most recent 11 is selected.
	timestamps := []int64{
		1000, 1100, 1050, 1200, 1150, 1300, 1250, 1400, 1350, 1500,
		1450, 1600, 1550,
	}
	var tip *blockNode
	for _, ts := range timestamps {
		tip = newFakeNode(tip, types.BlockVersionDefault, 0x207fffff, ts)
	}

	// The most recent 11 timestamps sorted are 1100..1600 in steps of 50;
	// the element at index 11/2 is 1350.
	assert.Equal(t, time.Unix(1350, 0), tip.CalcPastMedianTime())

	// With fewer nodes than the window the median uses what exists.
	short := newFakeNode(nil, types.BlockVersionDefault, 0x207fffff, 9999)
	assert.Equal(t, time.Unix(9999, 0), short.CalcPastMedianTime())
}

func TestGetLastNodeForAlgo(t *testing.T) {
	// sha256d genesis, then alternating scrypt/skein, ending with scrypt.
	n0 := newFakeNode(nil, types.BlockVersionDefault, 0x207fffff, 1000)
	n1 := newFakeNode(n0, types.BlockVersionDefault|types.BlockVersionScrypt, 0x207fffff, 1001)
	n2 := newFakeNode(n1, types.BlockVersionDefault|types.BlockVersionSkein, 0x207fffff, 1002)
	n3 := newFakeNode(n2, types.BlockVersionDefault|types.BlockVersionScrypt, 0x207fffff, 1003)

	assert.Equal(t, n3, getLastNodeForAlgo(n3, n3.powType))
	assert.Equal(t, n2, getLastNodeForAlgo(n3, n2.powType))
	assert.Equal(t, n0, getLastNodeForAlgo(n3, n0.powType))
	assert.Nil(t, getLastNodeForAlgo(n3, types.VersionToAlgo(types.BlockVersionQubit)))
	assert.Nil(t, getLastNodeForAlgo(nil, n0.powType))
}

func TestHeaderRoundTrip(t *testing.T) {
	parent := newFakeNode(nil, types.BlockVersionDefault, 0x207fffff, 1000)
	header := newTestHeader(&parent.hash, types.BlockVersionDefault|types.BlockVersionQubit,
		0x1d00ffff, 1001, nil)
	node := newBlockNode(header, parent, newTestParams())

	rebuilt := node.Header()
	assert.Equal(t, header.Version, rebuilt.Version)
	assert.Equal(t, parent.hash, rebuilt.ParentRoot)
	assert.Equal(t, header.Difficulty, rebuilt.Difficulty)
	assert.Equal(t, header.Nonce, rebuilt.Nonce)
	assert.Equal(t, header.BlockHash(), rebuilt.BlockHash())
}
