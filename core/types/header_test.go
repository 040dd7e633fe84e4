// Copyright (c) 2017-2019 The mynt developers
package types

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types/pow"
)

func TestVersionAlgoBits(t *testing.T) {
	for _, algo := range []pow.PowType{pow.SHA256D, pow.SCRYPT, pow.GROESTL,
		pow.SKEIN, pow.QUBIT, pow.YESCRYPT} {
		v := BlockVersionDefault | AlgoToVersion(algo)
		assert.Equal(t, algo, VersionToAlgo(v))
		assert.False(t, VersionHasAuxpow(v))
		assert.True(t, VersionHasAuxpow(v|BlockVersionAuxpow))
	}
}

func TestHeaderSerializeAuxpow(t *testing.T) {
	header := BlockHeader{
		Version:    BlockVersionDefault | BlockVersionScrypt | BlockVersionAuxpow,
		ParentRoot: hash.MustHexToDecodedHash("0000000000000000000000000000000000000000000000000000000000000001"),
		TxRoot:     hash.MustHexToDecodedHash("0000000000000000000000000000000000000000000000000000000000000002"),
		Timestamp:  time.Unix(0x5b50c1a0, 0),
		Difficulty: 0x1d00ffff,
		Nonce:      0x12345678,
		AuxData:    []byte{0xde, 0xad, 0xbe, 0xef},
	}

	var buf bytes.Buffer
	assert.NoError(t, header.Serialize(&buf))
	assert.Equal(t, MaxBlockHeaderPayload+1+len(header.AuxData), buf.Len())

	var got BlockHeader
	assert.NoError(t, got.Deserialize(&buf))
	assert.Equal(t, header.Version, got.Version)
	assert.True(t, header.ParentRoot.IsEqual(&got.ParentRoot))
	assert.Equal(t, header.Timestamp.Unix(), got.Timestamp.Unix())
	assert.Equal(t, header.AuxData, got.AuxData)
	assert.Equal(t, pow.SCRYPT, got.Algo())

	// The aux payload must not influence the block identity.
	stripped := header
	stripped.AuxData = nil
	h1 := header.BlockHash()
	h2 := stripped.BlockHash()
	assert.True(t, h1.IsEqual(&h2))
}
