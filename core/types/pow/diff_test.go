// Copyright (c) 2017-2019 The mynt developers
package pow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactRoundTrip(t *testing.T) {
	bits := []uint32{0x1d00ffff, 0x1b0404cb, 0x0300ffff, 0x207fffff}
	for _, b := range bits {
		assert.Equal(t, b, BigToCompact(CompactToBig(b)))
	}
}

func TestCalcWork(t *testing.T) {
	// target 0xffff => work 2^256/0x10000 = 2^240
	want := new(big.Int).Lsh(big.NewInt(1), 240)
	assert.Equal(t, 0, want.Cmp(CalcWork(0x0300ffff)))

	// Negative target contributes no work.
	assert.Equal(t, 0, CalcWork(0x03800001).Sign())

	// Zero target contributes no work.
	assert.Equal(t, 0, CalcWork(0).Sign())

	// Overflowed target (exponent pushes the value past 256 bits)
	// contributes no work.
	assert.Equal(t, 0, CalcWork(0xff00ffff).Sign())
}

func TestCalcWorkMonotonic(t *testing.T) {
	// A lower target must always yield more work.
	lower := CalcWork(0x1b0404cb)
	higher := CalcWork(0x1d00ffff)
	assert.Equal(t, 1, lower.Cmp(higher))
}

func TestGetAlgoName(t *testing.T) {
	assert.Equal(t, "sha256d", GetAlgoName(SHA256D))
	assert.Equal(t, "scrypt", GetAlgoName(SCRYPT))
	assert.Equal(t, "groestl", GetAlgoName(GROESTL))
	assert.Equal(t, "skein", GetAlgoName(SKEIN))
	assert.Equal(t, "qubit", GetAlgoName(QUBIT))
	assert.Equal(t, "yescrypt", GetAlgoName(YESCRYPT))
	assert.Equal(t, "unknown", GetAlgoName(PowType(0xab)))
}

func TestGetAlgoWorkFactor(t *testing.T) {
	assert.Equal(t, int64(1), GetAlgoWorkFactor(SHA256D))
	assert.Equal(t, int64(4096), GetAlgoWorkFactor(SCRYPT))
	assert.Equal(t, int64(512), GetAlgoWorkFactor(GROESTL))
	assert.Equal(t, int64(24), GetAlgoWorkFactor(SKEIN))
	assert.Equal(t, int64(1024), GetAlgoWorkFactor(QUBIT))
	assert.Equal(t, int64(1), GetAlgoWorkFactor(YESCRYPT))
}
