// Copyright (c) 2017-2019 The mynt developers

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	h := MustHexToDecodedHash("000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f")
	assert.Equal(t, "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f", h.String())

	// The in-memory order is the byte reverse of the display order.
	assert.Equal(t, byte(0x6f), h[0])
	assert.Equal(t, byte(0x00), h[HashSize-1])
}

func TestHashSetBytes(t *testing.T) {
	var h Hash
	err := h.SetBytes(make([]byte, HashSize-1))
	assert.Error(t, err)

	buf := make([]byte, HashSize)
	buf[0] = 0x01
	assert.NoError(t, h.SetBytes(buf))
	assert.Equal(t, byte(0x01), h[0])

	h2, err := NewHash(buf)
	assert.NoError(t, err)
	assert.True(t, h.IsEqual(h2))
	assert.False(t, h.IsEqual(&ZeroHash))
}

func TestDoubleHashH(t *testing.T) {
	// sha256d of the empty string.
	want := MustHexToDecodedHash("56944c5d3f98413ef45cf54545538103cc9f298e0575820ad3591376e2e0f65d")
	got := DoubleHashH(nil)
	assert.True(t, want.IsEqual(&got))
}
