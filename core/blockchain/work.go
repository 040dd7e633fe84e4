// Copyright (c) 2017-2019 The mynt developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math"
	"math/big"

	"github.com/myntproject/mynt/core/types/pow"
	"github.com/myntproject/mynt/params"
)

var bigOne = big.NewInt(1)

// GetBlockProofBase returns the raw amount of work the block represents, i.e.
// the expected number of hashes required to find a hash at or below the
// target encoded in its difficulty bits, without any multi-algorithm
// adjustment.
func GetBlockProofBase(node *blockNode) *big.Int {
	return pow.CalcWork(node.bits)
}

// getPrevWorkForAlgo returns the raw work of the most recent ancestor of the
// passed node, including the node itself, mined with the given algorithm.
// When no ancestor used the algorithm the proof of work limit value itself is
// returned, which keeps historical chain work sums reproducible even though it
// is not a work quantity.
func getPrevWorkForAlgo(node *blockNode, algo pow.PowType, par *params.Params) *big.Int {
	for n := node; n != nil; n = n.parent {
		if n.powType == algo {
			return GetBlockProofBase(n)
		}
	}
	return new(big.Int).Set(par.PowLimit)
}

// getPrevWorkForAlgoWithDecay works like getPrevWorkForAlgo except the work of
// the located block is linearly decayed by its distance from the passed node
// over a 32 block window.  The result is floored at the proof of work limit
// value, which is also returned when no block using the algorithm exists
// within the window.
func getPrevWorkForAlgoWithDecay(node *blockNode, algo pow.PowType, par *params.Params) *big.Int {
	distance := int64(0)
	for n := node; n != nil; n = n.parent {
		if distance > 32 {
			return new(big.Int).Set(par.PowLimit)
		}
		if n.powType == algo {
			work := GetBlockProofBase(n)
			work.Mul(work, big.NewInt(32-distance))
			work.Div(work, big.NewInt(32))
			if work.Cmp(par.PowLimit) < 0 {
				return new(big.Int).Set(par.PowLimit)
			}
			return work
		}
		distance++
	}
	return new(big.Int).Set(par.PowLimit)
}

// getPrevWorkForAlgoWithDecay2 works like getPrevWorkForAlgoWithDecay except
// the decayed work is not floored and zero is returned when no block using the
// algorithm exists within the 32 block window.
func getPrevWorkForAlgoWithDecay2(node *blockNode, algo pow.PowType) *big.Int {
	distance := int64(0)
	for n := node; n != nil; n = n.parent {
		if distance > 32 {
			return big.NewInt(0)
		}
		if n.powType == algo {
			work := GetBlockProofBase(n)
			work.Mul(work, big.NewInt(32-distance))
			work.Div(work, big.NewInt(32))
			return work
		}
		distance++
	}
	return big.NewInt(0)
}

// getPrevWorkForAlgoWithDecay3 works like getPrevWorkForAlgoWithDecay2 with
// the decay window widened to 100 blocks.  It feeds the geometric mean work
// calculation.
func getPrevWorkForAlgoWithDecay3(node *blockNode, algo pow.PowType) *big.Int {
	distance := int64(0)
	for n := node; n != nil; n = n.parent {
		if distance > 100 {
			return big.NewInt(0)
		}
		if n.powType == algo {
			work := GetBlockProofBase(n)
			work.Mul(work, big.NewInt(100-distance))
			work.Div(work, big.NewInt(100))
			return work
		}
		distance++
	}
	return big.NewInt(0)
}

// nthRoot returns the integer part of the nth root of value.  The root must be
// greater than one and the value must not be negative.
//
// It seeds an approximation from the high bits of the value and then refines
// it with the iteration cur = cur + (value/cur^(root-1) - cur)/root, stepping
// by one near the root and terminating when consecutive single steps
// oscillate.
func nthRoot(root int, value *big.Int) *big.Int {
	if root <= 1 || value.Sign() < 0 {
		panic(AssertError("nthRoot called with invalid arguments"))
	}
	if value.Sign() == 0 {
		return big.NewInt(0)
	}

	// Starting approximation from the top bits of the value.
	rootBits := (value.BitLen() + root - 1) / root
	startingBits := rootBits
	if startingBits > 8 {
		startingBits = 8
	}
	upper := new(big.Int).Rsh(value, uint((rootBits-startingBits)*root))
	cur := big.NewInt(0)
	for i := startingBits - 1; i >= 0; i-- {
		next := new(big.Int).Add(cur, new(big.Int).Lsh(bigOne, uint(i)))
		power := big.NewInt(1)
		for j := 0; j < root; j++ {
			power.Mul(power, next)
		}
		if power.Cmp(upper) <= 0 {
			cur = next
		}
	}
	if rootBits == startingBits {
		return cur
	}
	cur.Lsh(cur, uint(rootBits-startingBits))

	// Iterate: cur = cur + (value/cur^(root-1) - cur)/root.  This should
	// always converge in fewer steps, but limit just in case.
	bigRoot := big.NewInt(int64(root))
	terminate := 0
	negativeDelta := false
	for it := 0; it < 20; it++ {
		denominator := big.NewInt(1)
		for i := 0; i < root-1; i++ {
			denominator.Mul(denominator, cur)
		}
		quotient := new(big.Int).Div(value, denominator)
		cmp := cur.Cmp(quotient)
		if cmp > 0 {
			negativeDelta = true
		}
		if cmp == 0 {
			return cur
		}
		var delta *big.Int
		if negativeDelta {
			delta = new(big.Int).Sub(cur, quotient)
			if terminate == 1 {
				return cur.Sub(cur, bigOne)
			}
			negativeDelta = false
			if delta.Cmp(bigRoot) <= 0 {
				cur.Sub(cur, bigOne)
				terminate = -1
				continue
			}
			negativeDelta = true
		} else {
			delta = new(big.Int).Sub(quotient, cur)
			if terminate == -1 {
				return cur
			}
			if delta.Cmp(bigRoot) <= 0 {
				cur.Add(cur, bigOne)
				terminate = 1
				continue
			}
		}
		delta.Div(delta, bigRoot)
		if negativeDelta {
			cur.Sub(cur, delta)
		} else {
			cur.Add(cur, delta)
		}
		terminate = 0
	}
	return cur
}

// getGeometricMeanPrevWork returns the geometric mean of the work of the
// passed block and the decayed most recent work of every other implemented
// algorithm.  Algorithms with no block inside the decay window contribute
// nothing to the product rather than collapsing it to zero.  The result is
// scaled up to roughly match the magnitude of the older normalised work
// calculation.
func getGeometricMeanPrevWork(node *blockNode) *big.Int {
	blockWork := GetBlockProofBase(node)
	algo := node.powType

	for i := 0; i < pow.AlgoCountImpl; i++ {
		other := pow.PowType(i)
		if other == algo {
			continue
		}
		altWork := getPrevWorkForAlgoWithDecay3(node, other)
		if altWork.Sign() != 0 {
			blockWork.Mul(blockWork, altWork)
		}
	}

	res := nthRoot(pow.AlgoCount, blockWork)
	res.Lsh(res, 8)
	return res
}

// GetBlockProof returns the amount of chain work the passed block contributes,
// according to the work model active at its height:
//
//   - below BlockAlgoWorkWeightStart the raw work is used directly
//   - from BlockAlgoWorkWeightStart the raw work is scaled by a fixed per
//     algorithm factor
//   - from BlockAlgoNormalisedWorkStart the work is the average of the block's
//     own work and the most recent work of each other algorithm, with the two
//     decay start heights switching how the other algorithms' work decays
//   - from GeoAvgWorkStart the geometric mean across algorithms is used
func GetBlockProof(node *blockNode, par *params.Params) *big.Int {
	height := node.height
	algo := node.powType

	if height >= par.GeoAvgWorkStart {
		return getGeometricMeanPrevWork(node)
	}
	if height >= par.BlockAlgoNormalisedWorkStart {
		blockWork := GetBlockProofBase(node)
		for i := 0; i < pow.AlgoCount; i++ {
			other := pow.PowType(i)
			if other == algo {
				continue
			}
			switch {
			case height >= par.BlockAlgoNormalisedWorkDecayStart2:
				blockWork.Add(blockWork, getPrevWorkForAlgoWithDecay2(node, other))
			case height >= par.BlockAlgoNormalisedWorkDecayStart1:
				blockWork.Add(blockWork, getPrevWorkForAlgoWithDecay(node, other, par))
			default:
				blockWork.Add(blockWork, getPrevWorkForAlgo(node, other, par))
			}
		}
		return blockWork.Div(blockWork, big.NewInt(pow.AlgoCount))
	}
	if height >= par.BlockAlgoWorkWeightStart {
		blockWork := GetBlockProofBase(node)
		factor := big.NewInt(pow.GetAlgoWorkFactor(algo))
		return blockWork.Mul(blockWork, factor)
	}
	return GetBlockProofBase(node)
}

// getBlockProofEquivalentTime returns the expected time it would take to mine
// the work between the from and to nodes at the difficulty of the tip node.
// The result is negative when the to node has less cumulative work than the
// from node, and saturates at the int64 range when the work difference is too
// large to express.
func getBlockProofEquivalentTime(to, from, tip *blockNode, par *params.Params) int64 {
	var r *big.Int
	sign := int64(1)
	if to.workSum.Cmp(from.workSum) > 0 {
		r = new(big.Int).Sub(to.workSum, from.workSum)
	} else {
		r = new(big.Int).Sub(from.workSum, to.workSum)
		sign = -1
	}
	spacing := big.NewInt(int64(par.PowTargetSpacing.Seconds()))
	r.Mul(r, spacing)
	r.Div(r, GetBlockProof(tip, par))
	if r.BitLen() > 63 {
		return sign * math.MaxInt64
	}
	return sign * r.Int64()
}
