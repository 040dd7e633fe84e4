// Copyright (c) 2017-2019 The mynt developers
// license that can be found in the LICENSE file.
package pow

// PowType identifies which of the supported proof-of-work algorithms secured
// a given block.
type PowType byte

const (
	// pow type enum
	SHA256D  PowType = 0
	SCRYPT   PowType = 1
	GROESTL  PowType = 2
	SKEIN    PowType = 3
	QUBIT    PowType = 4
	YESCRYPT PowType = 5
)

const (
	// AlgoCount is the number of algorithms participating in the averaged
	// and weighted chain-work formulas, and the degree of the root taken
	// by the geometric-mean formula.
	AlgoCount = 5

	// AlgoCountImpl is the number of implemented algorithm tags.  The
	// geometric-mean formula folds the most recent work of every
	// implemented algorithm into its product, including tags beyond
	// AlgoCount.  The asymmetry is consensus-defined and must not be
	// unified.
	AlgoCountImpl = 6
)

var powMapString = map[PowType]string{
	SHA256D:  "sha256d",
	SCRYPT:   "scrypt",
	GROESTL:  "groestl",
	SKEIN:    "skein",
	QUBIT:    "qubit",
	YESCRYPT: "yescrypt",
}

// GetAlgoName returns the display name of the passed algorithm tag, or
// "unknown" for any unrecognized tag.  It is used for display and logging
// only, never for consensus decisions.
func GetAlgoName(powType PowType) string {
	name, ok := powMapString[powType]
	if !ok {
		return "unknown"
	}
	return name
}

// GetAlgoWorkFactor returns the fixed per-algorithm weight constant applied
// by the weighted chain-work formula.  The values are protocol constants
// calibrated as absolute work ratio times an optimisation factor.
func GetAlgoWorkFactor(powType PowType) int64 {
	switch powType {
	case SHA256D:
		return 1
	case SCRYPT:
		return 1024 * 4
	case GROESTL:
		return 64 * 8
	case SKEIN:
		return 4 * 6
	case QUBIT:
		return 128 * 8
	default:
		return 1
	}
}
