// Copyright (c) 2017-2019 The mynt developers
// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

import (
	"math/big"
	"time"
)

// mainPowLimit is the highest proof of work value a block can have for the
// main network.  It is the value 2^224 - 1.
var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 224), big.NewInt(1))

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         MainNet,
	DefaultPort: "9433",

	// Chain parameters
	GenesisHeader: &genesisHeader,
	GenesisHash:   &genesisHash,
	PowLimit:      mainPowLimit,
	PowLimitBits:  0x1d00ffff,

	// Chain-work formula epochs.  Each threshold enables the next
	// normalisation rule; the heights are consensus constants and must
	// never change once the network has passed them.
	BlockAlgoWorkWeightStart:           142000,
	BlockAlgoNormalisedWorkStart:       740000,
	BlockAlgoNormalisedWorkDecayStart1: 866000,
	BlockAlgoNormalisedWorkDecayStart2: 932000,
	GeoAvgWorkStart:                    1402000,

	PowTargetSpacing: time.Second * 60,
}
