// Copyright (c) 2017-2019 The mynt developers
// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

import (
	"math/big"
	"time"
)

// testNetPowLimit is the highest proof of work value a block can have for the
// test network.  It is the value 2^232 - 1.
var testNetPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 232), big.NewInt(1))

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:        "testnet",
	Net:         TestNet,
	DefaultPort: "19433",

	// Chain parameters
	GenesisHeader: &testNetGenesisHeader,
	GenesisHash:   &testNetGenesisHash,
	PowLimit:      testNetPowLimit,
	PowLimitBits:  0x1e0ffff0,

	// The test network replays the chain-work epochs at low heights so
	// fork logic can be exercised shortly after a reset.
	BlockAlgoWorkWeightStart:           1500,
	BlockAlgoNormalisedWorkStart:       3000,
	BlockAlgoNormalisedWorkDecayStart1: 4500,
	BlockAlgoNormalisedWorkDecayStart2: 6000,
	GeoAvgWorkStart:                    7500,

	PowTargetSpacing: time.Second * 60,
}
