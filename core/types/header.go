// Copyright (c) 2017-2019 The mynt developers
package types

import (
	"bytes"
	"io"
	"time"

	"github.com/myntproject/mynt/common/hash"
	s "github.com/myntproject/mynt/core/serialization"
	"github.com/myntproject/mynt/core/types/pow"
)

// MaxBlockHeaderPayload is the number of bytes a hashed block header can be.
// Version 4 bytes + ParentRoot 32 bytes + TxRoot 32 bytes + Timestamp 4 bytes
// + Difficulty 4 bytes + Nonce 4 bytes.
// --> Total 80 bytes.
const MaxBlockHeaderPayload = 4 + (hash.HashSize * 2) + 4 + 4 + 4

// MaxAuxDataPayload is the maximum number of bytes the opaque auxiliary
// proof payload of a merge-mined header may occupy when serialized.
const MaxAuxDataPayload = 1024 * 1024

const (
	// BlockVersionDefault is the version of a freshly mined non-merge-mined
	// sha256d block.
	BlockVersionDefault uint32 = 2

	// BlockVersionAuxpow is the version flag that marks a block as carrying
	// an auxiliary proof of work (merge mining).  The aux proof itself is
	// not part of the hashed header.
	BlockVersionAuxpow uint32 = 1 << 8

	// BlockVersionAlgo masks the bits of the version that carry the
	// algorithm selector.
	BlockVersionAlgo uint32 = 15 << 9

	// The per-algorithm selector values within BlockVersionAlgo.  The zero
	// selector is sha256d.
	BlockVersionScrypt   uint32 = 1 << 9
	BlockVersionGroestl  uint32 = 2 << 9
	BlockVersionSkein    uint32 = 3 << 9
	BlockVersionQubit    uint32 = 4 << 9
	BlockVersionYescrypt uint32 = 5 << 9
)

// VersionToAlgo extracts the proof-of-work algorithm tag encoded in a block
// version.  An unrecognized selector decodes as sha256d, matching the
// behavior for pre-multi-algorithm blocks whose selector bits are zero.
func VersionToAlgo(version uint32) pow.PowType {
	switch version & BlockVersionAlgo {
	case BlockVersionScrypt:
		return pow.SCRYPT
	case BlockVersionGroestl:
		return pow.GROESTL
	case BlockVersionSkein:
		return pow.SKEIN
	case BlockVersionQubit:
		return pow.QUBIT
	case BlockVersionYescrypt:
		return pow.YESCRYPT
	default:
		return pow.SHA256D
	}
}

// AlgoToVersion returns the version selector bits for the passed algorithm
// tag.
func AlgoToVersion(algo pow.PowType) uint32 {
	switch algo {
	case pow.SCRYPT:
		return BlockVersionScrypt
	case pow.GROESTL:
		return BlockVersionGroestl
	case pow.SKEIN:
		return BlockVersionSkein
	case pow.QUBIT:
		return BlockVersionQubit
	case pow.YESCRYPT:
		return BlockVersionYescrypt
	default:
		return 0
	}
}

// VersionHasAuxpow returns whether the passed block version carries the
// auxiliary proof-of-work flag.
func VersionHasAuxpow(version uint32) bool {
	return version&BlockVersionAuxpow != 0
}

// BlockHeader defines information about a block and is used in the block
// index as well as the headers database.
type BlockHeader struct {
	// Version of the block.  Besides the protocol version it carries the
	// algorithm selector bits and the auxpow flag.
	Version uint32

	// Hash of the previous block header in the block chain.
	ParentRoot hash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	TxRoot hash.Hash

	// Time the block was created.  Encoded as uint32 on the wire.
	Timestamp time.Time

	// Difficulty target for the block in compact form.
	Difficulty uint32

	// Nonce used to generate the block.
	Nonce uint32

	// AuxData is the opaque auxiliary proof payload of a merge-mined
	// block.  It is empty unless the version auxpow flag is set, and it is
	// never part of the block hash.
	AuxData []byte
}

// IsAuxpow returns whether the header carries an auxiliary proof of work.
func (h *BlockHeader) IsAuxpow() bool {
	return VersionHasAuxpow(h.Version)
}

// Algo returns the proof-of-work algorithm tag encoded in the header
// version.
func (h *BlockHeader) Algo() pow.PowType {
	return VersionToAlgo(h.Version)
}

// BlockHash computes the block identifier hash for the given block header.
// The auxiliary proof payload is intentionally excluded; the identity of a
// merge-mined block is the sha256d of its 80 hashed bytes only.
func (h *BlockHeader) BlockHash() hash.Hash {
	// Encode the header and hash256 everything.  Ignore the error returns
	// since there is no way the encode could fail except being out of
	// memory which would cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, MaxBlockHeaderPayload))
	_ = writeBlockHeader(buf, h)
	return hash.DoubleHashH(buf.Bytes())
}

// Serialize encodes a block header from w into the receiver, including the
// auxiliary proof payload when the auxpow version flag is set.
func (h *BlockHeader) Serialize(w io.Writer) error {
	err := writeBlockHeader(w, h)
	if err != nil {
		return err
	}
	if h.IsAuxpow() {
		return s.WriteVarBytes(w, h.AuxData)
	}
	return nil
}

// Deserialize decodes a block header from r into the receiver, including the
// auxiliary proof payload when the auxpow version flag is set.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	err := readBlockHeader(r, h)
	if err != nil {
		return err
	}
	if h.IsAuxpow() {
		h.AuxData, err = s.ReadVarBytes(r, MaxAuxDataPayload, "auxdata")
		return err
	}
	h.AuxData = nil
	return nil
}

// readBlockHeader reads the hashed portion of a block header from r.
func readBlockHeader(r io.Reader, bh *BlockHeader) error {
	return s.ReadElements(r, &bh.Version, &bh.ParentRoot, &bh.TxRoot,
		(*s.Uint32Time)(&bh.Timestamp), &bh.Difficulty, &bh.Nonce)
}

// writeBlockHeader writes the hashed portion of a block header to w.
func writeBlockHeader(w io.Writer, bh *BlockHeader) error {
	sec := uint32(bh.Timestamp.Unix())
	return s.WriteElements(w, bh.Version, &bh.ParentRoot, &bh.TxRoot,
		sec, bh.Difficulty, bh.Nonce)
}
