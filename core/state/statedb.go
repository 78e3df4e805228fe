// Copyright 2014 The go-ethereum Authors
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

package state

import (
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/types"
	"github.com/TevmFoundation/tevm-chain/crypto"
	"github.com/VictoriaMetrics/fastcache"
	"github.com/holiman/uint256"
)

func newZero() *uint256.Int { return new(uint256.Int) }

// emptyCodeHash is the known hash of the empty EVM bytecode.
var emptyCodeHash = crypto.Keccak256Hash(nil)

// codeCacheSize bounds the read-through bytecode cache of one StateDB.
const codeCacheSize = 32 * 1024 * 1024

// stateObject is the in-memory representation of one account while it is
// being modified.
type stateObject struct {
	account *Account
	code    []byte
	storage map[common.Hash]common.Hash
	dirty   map[common.Hash]common.Hash
	deleted bool
}

func (so *stateObject) copy() *stateObject {
	cpy := &stateObject{
		account: &Account{
			Balance:  so.account.Balance.Clone(),
			Nonce:    so.account.Nonce,
			CodeHash: so.account.CodeHash,
		},
		code:    so.code,
		storage: make(map[common.Hash]common.Hash, len(so.storage)),
		dirty:   make(map[common.Hash]common.Hash, len(so.dirty)),
		deleted: so.deleted,
	}
	for k, v := range so.storage {
		cpy.storage[k] = v
	}
	for k, v := range so.dirty {
		cpy.dirty[k] = v
	}
	return cpy
}

// StateDB buffers state mutations of one transaction on top of the host
// Storage collaborator. Account, storage and code reads fall through to the
// host on first access and are cached; block hashes are read from the host on
// every call. Nothing is written back until Commit.
type StateDB struct {
	backend Storage

	objects  map[common.Address]*stateObject
	codes    map[common.Hash][]byte // codes deployed in this transaction
	logs     []*types.Log
	refund   uint64
	readErr  error // first backend failure, checked by the transition
	snapshot int

	snapshots []*stateSnapshot

	codeCache *fastcache.Cache
}

type stateSnapshot struct {
	id      int
	objects map[common.Address]*stateObject
	logs    int
	refund  uint64
}

// New creates a transaction-scoped state over the given backend.
func New(backend Storage) *StateDB {
	return &StateDB{
		backend:   backend,
		objects:   make(map[common.Address]*stateObject),
		codes:     make(map[common.Hash][]byte),
		codeCache: fastcache.New(codeCacheSize),
	}
}

// Reset drops all buffered state so the instance can host the next
// transaction. The bytecode cache survives, it is keyed by content hash.
func (s *StateDB) Reset(backend Storage) {
	s.backend = backend
	s.objects = make(map[common.Address]*stateObject)
	s.codes = make(map[common.Hash][]byte)
	s.logs = nil
	s.refund = 0
	s.readErr = nil
	s.snapshot = 0
	s.snapshots = nil
}

// Error returns the first backend read failure observed, if any.
func (s *StateDB) Error() error { return s.readErr }

func (s *StateDB) setReadErr(err error) {
	if s.readErr == nil {
		s.readErr = err
	}
}

func (s *StateDB) getObject(addr common.Address) *stateObject {
	if so, ok := s.objects[addr]; ok {
		if so.deleted {
			return nil
		}
		return so
	}
	acc, err := s.backend.GetAccount(addr)
	if err != nil {
		s.setReadErr(&BackendError{Op: "get_account", Err: err})
		return nil
	}
	if acc == nil {
		return nil
	}
	if acc.Balance == nil {
		acc.Balance = newZero()
	}
	so := &stateObject{
		account: acc,
		storage: make(map[common.Hash]common.Hash),
		dirty:   make(map[common.Hash]common.Hash),
	}
	s.objects[addr] = so
	return so
}

func (s *StateDB) getOrNewObject(addr common.Address) *stateObject {
	if so := s.getObject(addr); so != nil {
		return so
	}
	so := &stateObject{
		account: &Account{Balance: newZero(), CodeHash: emptyCodeHash},
		storage: make(map[common.Hash]common.Hash),
		dirty:   make(map[common.Hash]common.Hash),
	}
	s.objects[addr] = so
	return so
}

// Exist reports whether an account is present in the state.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getObject(addr) != nil
}

// Empty reports whether the account is non-existent or empty per EIP-161.
func (s *StateDB) Empty(addr common.Address) bool {
	so := s.getObject(addr)
	return so == nil || (so.account.Nonce == 0 && so.account.Balance.IsZero() && (so.account.CodeHash == emptyCodeHash || so.account.CodeHash.IsZero()))
}

// CreateAccount makes a fresh account at addr, carrying over any balance.
func (s *StateDB) CreateAccount(addr common.Address) {
	prev := s.getObject(addr)
	so := &stateObject{
		account: &Account{Balance: newZero(), CodeHash: emptyCodeHash},
		storage: make(map[common.Hash]common.Hash),
		dirty:   make(map[common.Hash]common.Hash),
	}
	if prev != nil {
		so.account.Balance = prev.account.Balance.Clone()
	}
	s.objects[addr] = so
}
