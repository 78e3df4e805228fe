// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package rawdb

import (
	"encoding/binary"
	"os"
	"sync"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/golang/snappy"
	"github.com/inconshreveable/log15"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ArtifactDB is the persistent compilation cache. It supports concurrent
// readers and a single writer behind a read-write lock. Execution counts are
// read-modify-written under the write lock; PublishArtifact and DeleteArtifact
// make both of their writes under one hold of it, and the Iterate methods hold
// the read lock for the whole scan.
type ArtifactDB struct {
	db   *leveldb.DB
	lock sync.RWMutex
	log  log15.Logger
}

// NewArtifactDB opens (or creates) the compilation cache at path.
func NewArtifactDB(path string) (*ArtifactDB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		OpenFilesCacheCapacity: 64,
		BlockCacheCapacity:     8 * opt.MiB,
		WriteBuffer:            4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return &ArtifactDB{db: db, log: log15.New("module", "artifactdb")}, nil
}

// NewMemoryArtifactDB returns a cache backed by an in-memory store, used by
// the tests and by VMs constructed without a database directory.
func NewMemoryArtifactDB() *ArtifactDB {
	db, _ := leveldb.Open(storage.NewMemStorage(), nil)
	return &ArtifactDB{db: db, log: log15.New("module", "artifactdb")}
}

// Close flushes and releases the underlying store.
func (a *ArtifactDB) Close() error {
	return a.db.Close()
}

// Count returns the recorded execution count for hash, zero if absent or on
// a read failure.
func (a *ArtifactDB) Count(hash common.Hash) uint64 {
	a.lock.RLock()
	defer a.lock.RUnlock()
	return a.count(hash)
}

func (a *ArtifactDB) count(hash common.Hash) uint64 {
	data, err := a.db.Get(countKey(hash), nil)
	if err != nil || len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// IncCount bumps the execution count for hash and returns the new value.
// Counts are persisted big-endian and never decrease within a process.
func (a *ArtifactDB) IncCount(hash common.Hash) (uint64, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	count := a.count(hash) + 1
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], count)
	if err := a.db.Put(countKey(hash), enc[:], nil); err != nil {
		return 0, err
	}
	return count, nil
}

// PutBytecode records the observed bytecode for hash so a restarted process
// can resume promotion without re-observing the contract. The blob is snappy
// compressed; deployed code is capped well below the raw block size limit.
func (a *ArtifactDB) PutBytecode(hash common.Hash, code []byte) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.db.Put(bytecodeKey(hash), snappy.Encode(nil, code), nil)
}

// Bytecode returns the recorded bytecode for hash.
func (a *ArtifactDB) Bytecode(hash common.Hash) ([]byte, bool) {
	a.lock.RLock()
	data, err := a.db.Get(bytecodeKey(hash), nil)
	a.lock.RUnlock()
	if err != nil {
		return nil, false
	}
	code, err := snappy.Decode(nil, data)
	if err != nil {
		a.log.Warn("Corrupt bytecode entry", "hash", hash, "err", err)
		return nil, false
	}
	return code, true
}

// PublishArtifact commits a compiled shared object for hash. The symbol label
// is written before the artifact path: readers treat the path as the commit
// marker, so a label without a path is an in-progress publish, never the
// reverse.
func (a *ArtifactDB) PublishArtifact(hash common.Hash, label string, path string) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.db.Put(labelKey(hash), []byte(label), nil); err != nil {
		return err
	}
	return a.db.Put(artifactKey(hash), []byte(path), nil)
}

// ArtifactPath returns the shared object path published for hash.
func (a *ArtifactDB) ArtifactPath(hash common.Hash) (string, bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	data, err := a.db.Get(artifactKey(hash), nil)
	if err != nil {
		if err != leveldb.ErrNotFound {
			a.log.Warn("Artifact path read failed", "hash", hash, "err", err)
		}
		return "", false
	}
	return string(data), true
}

// SymbolLabel returns the exported symbol name published for hash.
func (a *ArtifactDB) SymbolLabel(hash common.Hash) (string, bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	data, err := a.db.Get(labelKey(hash), nil)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// HasArtifact reports whether a committed artifact exists for hash.
func (a *ArtifactDB) HasArtifact(hash common.Hash) bool {
	_, ok := a.ArtifactPath(hash)
	return ok
}

// DeleteArtifact removes a published artifact record, path first so that
// concurrent readers never observe a path without its label.
func (a *ArtifactDB) DeleteArtifact(hash common.Hash) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.db.Delete(artifactKey(hash), nil); err != nil {
		return err
	}
	return a.db.Delete(labelKey(hash), nil)
}

// IterateCounts invokes fn for every recorded execution count. Returning
// false from fn stops the iteration.
func (a *ArtifactDB) IterateCounts(fn func(hash common.Hash, count uint64) bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	it := a.db.NewIterator(util.BytesPrefix(countPrefix), nil)
	defer it.Release()
	for it.Next() {
		if len(it.Value()) != 8 {
			continue
		}
		if !fn(hashOfKey(it.Key()), binary.BigEndian.Uint64(it.Value())) {
			return
		}
	}
}

// IterateArtifacts invokes fn for every committed artifact record.
func (a *ArtifactDB) IterateArtifacts(fn func(hash common.Hash, path string) bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	it := a.db.NewIterator(util.BytesPrefix(artifactPrefix), nil)
	defer it.Release()
	for it.Next() {
		if !fn(hashOfKey(it.Key()), string(it.Value())) {
			return
		}
	}
}

// PruneStaleArtifacts drops artifact records whose shared object no longer
// exists on disk. Records from prior runs stay valid as long as their file
// still loads; everything else degrades back to the interpreter.
func (a *ArtifactDB) PruneStaleArtifacts() int {
	type record struct {
		hash common.Hash
		path string
	}
	var stale []record
	a.IterateArtifacts(func(hash common.Hash, path string) bool {
		if _, err := os.Stat(path); err != nil {
			stale = append(stale, record{hash, path})
		}
		return true
	})
	for _, rec := range stale {
		if err := a.DeleteArtifact(rec.hash); err != nil {
			a.log.Warn("Failed to prune stale artifact", "hash", rec.hash, "err", err)
			continue
		}
		a.log.Debug("Pruned stale artifact", "hash", rec.hash, "path", rec.path)
	}
	return len(stale)
}
