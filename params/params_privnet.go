// Copyright (c) 2017-2019 The mynt developers
// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

import (
	"math/big"
	"time"
)

// privNetPowLimit is the highest proof of work value a block can have for the
// private test network.  It is the value 2^255 - 1.
var privNetPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))

// PrivNetParams defines the network parameters for the private test network.
var PrivNetParams = Params{
	Name:        "privnet",
	Net:         PrivNet,
	DefaultPort: "29433",

	// Chain parameters
	GenesisHeader: &privNetGenesisHeader,
	GenesisHash:   &privNetGenesisHash,
	PowLimit:      privNetPowLimit,
	PowLimitBits:  0x207fffff,

	// All chain-work epochs are reachable within a few dozen blocks so
	// every formula can be covered by functional tests.
	BlockAlgoWorkWeightStart:           16,
	BlockAlgoNormalisedWorkStart:       32,
	BlockAlgoNormalisedWorkDecayStart1: 48,
	BlockAlgoNormalisedWorkDecayStart2: 64,
	GeoAvgWorkStart:                    80,

	PowTargetSpacing: time.Second * 60,
}
