// Copyright (c) 2017-2019 The mynt developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package headerdb provides persistent storage for full block headers keyed
// by block hash, backed by leveldb.  The chain keeps only the fixed header
// fields in its in-memory index, so headers carrying an auxiliary proof
// payload are stored here in their full serialized form.
package headerdb

import (
	"bytes"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/myntproject/mynt/common/hash"
	"github.com/myntproject/mynt/core/types"
)

// ErrHeaderNotFound means that no header with the requested hash exists in
// the database.
var ErrHeaderNotFound = fmt.Errorf("headerdb: header not found")

// headerBucket prefixes every header key.
var headerBucket = []byte("hdr-")

// DB is a block header database.
type DB struct {
	ldb *leveldb.DB
}

// Open opens the header database at the given path, creating it when needed.
// A corrupted database is recovered rather than rejected.
func Open(path string) (*DB, error) {
	opts := &opt.Options{
		OpenFilesCacheCapacity: 16,
		Strict:                 opt.DefaultStrict,
		Compression:            opt.NoCompression,
		BlockCacheCapacity:     8 * opt.MiB,
		WriteBuffer:            4 * opt.MiB,
	}
	ldb, err := leveldb.OpenFile(path, opts)
	if err != nil {
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, fmt.Errorf("headerdb: open %s: %v", path, err)
		}
	}
	return &DB{ldb: ldb}, nil
}

// OpenMem returns a header database backed entirely by memory.  It is mainly
// useful for tests and for tools which rebuild their state on every run.
func OpenMem() (*DB, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &DB{ldb: ldb}, nil
}

// Close releases the underlying database.
func (db *DB) Close() error {
	return db.ldb.Close()
}

// headerKey returns the database key for the header with the given block
// hash.
func headerKey(h *hash.Hash) []byte {
	key := make([]byte, 0, len(headerBucket)+hash.HashSize)
	key = append(key, headerBucket...)
	key = append(key, h.Bytes()...)
	return key
}

// PutBlockHeader stores the full serialized form of the given header, keyed
// by its block hash.  Storing the same header again is a no-op.
func (db *DB) PutBlockHeader(header *types.BlockHeader) error {
	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		return err
	}
	blockHash := header.BlockHash()
	return db.ldb.Put(headerKey(&blockHash), buf.Bytes(), nil)
}

// FetchBlockHeader returns the header stored under the given block hash.  It
// returns ErrHeaderNotFound when no such header exists.
func (db *DB) FetchBlockHeader(h *hash.Hash) (*types.BlockHeader, error) {
	serialized, err := db.ldb.Get(headerKey(h), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrHeaderNotFound
	}
	if err != nil {
		return nil, err
	}
	var header types.BlockHeader
	if err := header.Deserialize(bytes.NewReader(serialized)); err != nil {
		return nil, err
	}
	return &header, nil
}

// HasBlockHeader returns whether a header with the given block hash exists.
func (db *DB) HasBlockHeader(h *hash.Hash) (bool, error) {
	return db.ldb.Has(headerKey(h), nil)
}

// ForEachHeader invokes the given function for every stored header.  The
// iteration order is by block hash, not by height, so callers wanting a
// topological order must arrange it themselves.  Iteration stops at the
// first error, which is returned.
func (db *DB) ForEachHeader(fn func(header *types.BlockHeader) error) error {
	iter := db.ldb.NewIterator(util.BytesPrefix(headerBucket), nil)
	defer iter.Release()
	for iter.Next() {
		var header types.BlockHeader
		if err := header.Deserialize(bytes.NewReader(iter.Value())); err != nil {
			return err
		}
		if err := fn(&header); err != nil {
			return err
		}
	}
	return iter.Error()
}
