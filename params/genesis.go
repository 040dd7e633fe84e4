// Copyright (c) 2017-2019 The mynt developers
// license that can be found in the LICENSE file.

package params

import (
	"time"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types"
)

// genesisTxRoot is the merkle root of the single coinbase transaction of the
// genesis block, shared by all networks.
var genesisTxRoot = hash.MustHexToDecodedHash(
	"7a0f86ad1a1cd54c0c3a794fdc39dfc91a908cbdae03618e1d353c5b50c0a042")

// genesisHeader is the header of the first block of the main network.
var genesisHeader = types.BlockHeader{
	Version:    types.BlockVersionDefault,
	ParentRoot: hash.ZeroHash,
	TxRoot:     genesisTxRoot,
	Timestamp:  time.Unix(1393164095, 0),
	Difficulty: 0x1d00ffff,
	Nonce:      2092903893,
}

// genesisHash is the block identity of genesisHeader.  It is derived rather
// than hard-coded so the header definition stays authoritative.
var genesisHash = genesisHeader.BlockHash()

// testNetGenesisHeader is the header of the first block of the test network.
var testNetGenesisHeader = types.BlockHeader{
	Version:    types.BlockVersionDefault,
	ParentRoot: hash.ZeroHash,
	TxRoot:     genesisTxRoot,
	Timestamp:  time.Unix(1392876393, 0),
	Difficulty: 0x1e0ffff0,
	Nonce:      416875379,
}

var testNetGenesisHash = testNetGenesisHeader.BlockHash()

// privNetGenesisHeader is the header of the first block of the private
// regression test network.
var privNetGenesisHeader = types.BlockHeader{
	Version:    types.BlockVersionDefault,
	ParentRoot: hash.ZeroHash,
	TxRoot:     genesisTxRoot,
	Timestamp:  time.Unix(1417713337, 0),
	Difficulty: 0x207fffff,
	Nonce:      1096447,
}

var privNetGenesisHash = privNetGenesisHeader.BlockHash()
