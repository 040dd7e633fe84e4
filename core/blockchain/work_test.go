// Copyright (c) 2017-2019 The mynt developers
package blockchain

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/myntproject/mynt/core/types"
	"github.com/myntproject/mynt/core/types/pow"
)

// bitsEasy yields a work of exactly 2^240 and equals the test params proof of
// work limit.  bitsHard yields 2^248.
const (
	bitsEasy uint32 = 0x0300ffff
	bitsHard uint32 = 0x0200ffff
)

func bigPow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func TestNthRoot(t *testing.T) {
	// Exact roots.
	assert.Equal(t, bigPow2(48), nthRoot(5, bigPow2(240)))
	assert.Equal(t, bigPow2(30), nthRoot(2, bigPow2(60)))
	assert.Equal(t, big.NewInt(10), nthRoot(3, big.NewInt(1000)))
	assert.Equal(t, big.NewInt(0), nthRoot(5, big.NewInt(0)))
	assert.Equal(t, big.NewInt(1), nthRoot(2, big.NewInt(2)))

	// Floor semantics.
	assert.Equal(t, big.NewInt(2), nthRoot(3, big.NewInt(26)))
	assert.Equal(t, big.NewInt(3), nthRoot(3, big.NewInt(27)))
	assert.Equal(t, big.NewInt(3), nthRoot(3, big.NewInt(63)))

	// The floor property r^n <= x < (r+1)^n over a spread of magnitudes.
	values := []*big.Int{
		big.NewInt(12345678),
		new(big.Int).Sub(bigPow2(100), big.NewInt(1)),
		new(big.Int).Add(bigPow2(200), big.NewInt(987654321)),
		new(big.Int).Sub(bigPow2(256), big.NewInt(1)),
	}
	for _, x := range values {
		for _, root := range []int{2, 3, 5, 7} {
			r := nthRoot(root, x)
			lower := new(big.Int).Exp(r, big.NewInt(int64(root)), nil)
			upper := new(big.Int).Exp(new(big.Int).Add(r, big.NewInt(1)),
				big.NewInt(int64(root)), nil)
			assert.True(t, lower.Cmp(x) <= 0, "root %d of %v too big", root, x)
			assert.True(t, upper.Cmp(x) > 0, "root %d of %v too small", root, x)
		}
	}
}

func TestBlockProofRawEpoch(t *testing.T) {
	par := newTestParams()
	nodes := fakeChain(nil, 5, types.BlockVersionDefault, bitsEasy)
	// Below every threshold the proof is the raw work regardless of algo.
	assert.Equal(t, bigPow2(240), GetBlockProof(nodes[4], par))

	scrypt := newFakeNode(nodes[4], types.BlockVersionDefault|types.BlockVersionScrypt,
		bitsEasy, 2000)
	assert.Equal(t, bigPow2(240), GetBlockProof(scrypt, par))
}

func TestBlockProofWeightedEpoch(t *testing.T) {
	par := newTestParams()
	nodes := fakeChain(nil, 15, types.BlockVersionDefault, bitsEasy)

	tests := []struct {
		version uint32
		factor  int64
	}{
		{types.BlockVersionDefault, 1},
		{types.BlockVersionDefault | types.BlockVersionScrypt, 1024 * 4},
		{types.BlockVersionDefault | types.BlockVersionGroestl, 64 * 8},
		{types.BlockVersionDefault | types.BlockVersionSkein, 4 * 6},
		{types.BlockVersionDefault | types.BlockVersionQubit, 128 * 8},
		{types.BlockVersionDefault | types.BlockVersionYescrypt, 1},
	}
	for _, test := range tests {
		node := newFakeNode(nodes[11], test.version, bitsEasy, 3000)
		want := new(big.Int).Mul(bigPow2(240), big.NewInt(test.factor))
		assert.Equal(t, want, GetBlockProof(node, par), "factor %d", test.factor)
	}
}

func TestBlockProofWeightedTransition(t *testing.T) {
	par := newTestParams()

	// Two algos interleaved across the weighted threshold at height 10.
	tip := (*blockNode)(nil)
	nodes := make([]*blockNode, 0, 20)
	timestamp := int64(1534567890)
	for i := 0; i < 20; i++ {
		version := types.BlockVersionDefault
		if i%2 == 1 {
			version |= types.BlockVersionScrypt
		}
		tip = newFakeNode(tip, version, bitsEasy, timestamp)
		nodes = append(nodes, tip)
		timestamp++
	}

	scryptFactor := big.NewInt(pow.GetAlgoWorkFactor(pow.SCRYPT))
	for _, node := range nodes {
		want := bigPow2(240)
		if node.height >= par.BlockAlgoWorkWeightStart && node.powType == pow.SCRYPT {
			want = new(big.Int).Mul(want, scryptFactor)
		}
		assert.Equal(t, want, GetBlockProof(node, par), "height %d", node.height)
	}
}

func TestBlockProofMonotonicInTarget(t *testing.T) {
	par := newTestParams()
	nodes := fakeChain(nil, 15, types.BlockVersionDefault, bitsEasy)

	// A lower target always contributes more proof than a higher one within
	// the same regime: raw below the weighted threshold, weighted above it.
	for _, parent := range []*blockNode{nodes[5], nodes[12]} {
		easy := newFakeNode(parent, types.BlockVersionDefault, bitsEasy, 3000)
		hard := newFakeNode(parent, types.BlockVersionDefault, bitsHard, 3000)
		assert.Equal(t, 1, GetBlockProof(hard, par).Cmp(GetBlockProof(easy, par)),
			"height %d", easy.height)
	}
}

func TestBlockProofNormalisedEpoch(t *testing.T) {
	par := newTestParams()
	nodes := fakeChain(nil, 25, types.BlockVersionDefault, bitsEasy)
	tip := nodes[24]

	// With no other algorithm ever mined every absent algorithm falls back
	// to the proof of work limit value, which the test params pin to the
	// sha256d work, so the average collapses to exactly that work.
	assert.Equal(t, bigPow2(240), GetBlockProof(tip, par))

	// Mine one harder scrypt block and extend with a sha256d block.  The
	// average now mixes the scrypt work in undecayed.
	scrypt := newFakeNode(tip, types.BlockVersionDefault|types.BlockVersionScrypt,
		bitsHard, 3000)
	sha := newFakeNode(scrypt, types.BlockVersionDefault, bitsEasy, 3001)

	want := new(big.Int).Mul(bigPow2(240), big.NewInt(4)) // own + 3 fallbacks
	want.Add(want, bigPow2(248))                          // scrypt
	want.Div(want, big.NewInt(5))
	assert.Equal(t, want, GetBlockProof(sha, par))

	// Yescrypt is outside the averaged set, so mining it changes nothing
	// for a later sha256d block in this epoch.
	yescrypt := newFakeNode(sha, types.BlockVersionDefault|types.BlockVersionYescrypt,
		bitsHard, 3002)
	sha2 := newFakeNode(yescrypt, types.BlockVersionDefault, bitsEasy, 3003)
	want2 := new(big.Int).Mul(bigPow2(240), big.NewInt(4))
	want2.Add(want2, bigPow2(248))
	want2.Div(want2, big.NewInt(5))
	assert.Equal(t, want2, GetBlockProof(sha2, par))
}

func TestBlockProofDecayEpochs(t *testing.T) {
	par := newTestParams()

	// Height 60 starts the first decay window: a scrypt block 16 back
	// contributes half its work, and anything further back than 32 blocks
	// decays to the proof of work limit floor.
	nodes := fakeChain(nil, 50, types.BlockVersionDefault, bitsEasy)
	scrypt := newFakeNode(nodes[49], types.BlockVersionDefault|types.BlockVersionScrypt,
		bitsHard, 3000)
	chain := fakeChain(scrypt, 16, types.BlockVersionDefault, bitsEasy)
	tip := chain[15] // height 66, scrypt at distance 16

	want := new(big.Int).Mul(bigPow2(240), big.NewInt(4))
	want.Add(want, bigPow2(247)) // 2^248 * (32-16)/32
	want.Div(want, big.NewInt(5))
	assert.Equal(t, want, GetBlockProof(tip, par))

	// Push the scrypt block outside the window; it now counts as the
	// floor just like the absent algorithms.
	chain = fakeChain(tip, 20, types.BlockVersionDefault, bitsEasy)
	far := chain[19]
	assert.Equal(t, bigPow2(240), GetBlockProof(far, par))

	// Height 100 starts the second decay window, where the floor is zero:
	// with no other recent algorithms the average is a fifth of the own
	// work.
	nodes = fakeChain(nil, 105, types.BlockVersionDefault, bitsEasy)
	want = new(big.Int).Div(bigPow2(240), big.NewInt(5))
	assert.Equal(t, want, GetBlockProof(nodes[104], par))
}

func TestBlockProofGeometricEpoch(t *testing.T) {
	par := newTestParams()
	nodes := fakeChain(nil, 145, types.BlockVersionDefault, bitsEasy)
	tip := nodes[144]

	// All other algorithms are absent, so the product is just the own work
	// and the fifth root is scaled up by 2^8.
	assert.Equal(t, bigPow2(56), GetBlockProof(tip, par))

	// A recent scrypt block folds its decayed work into the product.  At
	// distance 4 the decay multiplier is 96/100.
	scrypt := newFakeNode(tip, types.BlockVersionDefault|types.BlockVersionScrypt,
		bitsHard, 3000)
	chain := fakeChain(scrypt, 4, types.BlockVersionDefault, bitsEasy)
	geoTip := chain[3]

	product := new(big.Int).Mul(bigPow2(240), bigPow2(248))
	product.Mul(product, big.NewInt(96))
	product.Div(product, big.NewInt(100))
	want := nthRoot(5, product)
	want.Lsh(want, 8)
	assert.Equal(t, want, GetBlockProof(geoTip, par))
}

func TestBlockProofEquivalentTime(t *testing.T) {
	par := newTestParams()

	// Craft nodes with explicit cumulative work.  The tip contributes
	// 2^240 per block and the spacing is 60 seconds, so ten blocks of
	// work difference is exactly ten minutes.
	from := newFakeNode(nil, types.BlockVersionDefault, bitsEasy, 1000)
	to := newFakeNode(from, types.BlockVersionDefault, bitsEasy, 1060)
	tip := to
	to.workSum = new(big.Int).Add(from.workSum,
		new(big.Int).Mul(bigPow2(240), big.NewInt(10)))

	assert.Equal(t, int64(600), getBlockProofEquivalentTime(to, from, tip, par))
	assert.Equal(t, int64(-600), getBlockProofEquivalentTime(from, to, tip, par))
	assert.Equal(t, int64(0), getBlockProofEquivalentTime(to, to, tip, par))

	// When the scaled work difference no longer fits an int64 the result
	// saturates instead of wrapping.
	far := newFakeNode(from, types.BlockVersionDefault, 0x207fffff, 1060)
	far.workSum = new(big.Int).Add(from.workSum, bigPow2(100))
	assert.Equal(t, int64(math.MaxInt64),
		getBlockProofEquivalentTime(far, from, far, par))
	assert.Equal(t, int64(-math.MaxInt64),
		getBlockProofEquivalentTime(from, far, far, par))
}

func TestPrevWorkFallbacks(t *testing.T) {
	par := newTestParams()
	node := newFakeNode(nil, types.BlockVersionDefault, bitsEasy, 1000)

	// Absent algorithms fall back to the proof of work limit value for the
	// plain and first decay variants, and to zero beyond that.
	assert.Equal(t, par.PowLimit, getPrevWorkForAlgo(node, pow.SCRYPT, par))
	assert.Equal(t, par.PowLimit, getPrevWorkForAlgoWithDecay(node, pow.SCRYPT, par))
	assert.Equal(t, big.NewInt(0), getPrevWorkForAlgoWithDecay2(node, pow.SCRYPT))
	assert.Equal(t, big.NewInt(0), getPrevWorkForAlgoWithDecay3(node, pow.SCRYPT))

	// The present algorithm resolves to its own raw work in every variant.
	assert.Equal(t, bigPow2(240), getPrevWorkForAlgo(node, pow.SHA256D, par))
	assert.Equal(t, bigPow2(240), getPrevWorkForAlgoWithDecay3(node, pow.SHA256D))
}
