// Copyright (c) 2017-2019 The mynt developers
// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

import (
	"math/big"
	"time"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types"
)

// Network defines the magic bytes used to identify a mynt network.
type Network uint32

// Constants used to indicate the network.
const (
	// MainNet represents the main network.
	MainNet Network = 0xb4c6d1a7

	// TestNet represents the public test network.
	TestNet Network = 0x2f8a71e4

	// PrivNet represents the private test network used for regression
	// style testing.
	PrivNet Network = 0xe3d04b9c
)

// Params defines a mynt network by its parameters.  These parameters may be
// used by mynt applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net Network

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// GenesisHeader defines the header of the first block of the chain.
	GenesisHeader *types.BlockHeader

	// GenesisHash is the starting block hash.
	GenesisHash *hash.Hash

	// PowLimit defines the highest allowed proof of work value for a
	// block as a uint256.  It doubles as the per-algorithm floor used by
	// the normalised chain-work formulas.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// BlockAlgoWorkWeightStart is the height at which chain work switches
	// from the raw per-block work to the per-algorithm weighted work.
	BlockAlgoWorkWeightStart int32

	// BlockAlgoNormalisedWorkStart is the height at which chain work
	// switches to the normalised average across all active algorithms.
	BlockAlgoNormalisedWorkStart int32

	// BlockAlgoNormalisedWorkDecayStart1 is the height at which the
	// normalised average starts decaying stale per-algorithm work over a
	// 32 block window, floored at PowLimit.
	BlockAlgoNormalisedWorkDecayStart1 int32

	// BlockAlgoNormalisedWorkDecayStart2 is the height at which the decay
	// floor drops from PowLimit to zero.
	BlockAlgoNormalisedWorkDecayStart2 int32

	// GeoAvgWorkStart is the height at which chain work switches to the
	// geometric mean of the per-algorithm work over a 100 block window.
	GeoAvgWorkStart int32

	// PowTargetSpacing is the desired amount of time between blocks,
	// across all algorithms.  It calibrates the work-to-time equivalence.
	PowTargetSpacing time.Duration
}
