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

// Package state implements the read-through state wrapper over the host's
// backing store.
package state

import (
	"encoding/binary"
	"fmt"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/holiman/uint256"
)

// BackendError wraps a failure reported by the host-side store.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("storage backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Account is the decoded account record held by the backing store.
type Account struct {
	Balance  *uint256.Int
	Nonce    uint64
	CodeHash common.Hash
}

// Storage is the host collaborator backing the VM's state reads, and the sink
// for committed state changes.
type Storage interface {
	// GetAccount returns the account record for addr, or nil if absent.
	GetAccount(addr common.Address) (*Account, error)
	// GetCodeByHash returns the contract bytecode stored under hash.
	GetCodeByHash(hash common.Hash) ([]byte, error)
	// GetStorage returns the 32-byte storage word at (addr, index).
	GetStorage(addr common.Address, index common.Hash) (common.Hash, error)
	// GetBlockHash returns the hash of the block with the given number.
	GetBlockHash(number uint64) (common.Hash, error)
	// Commit applies the accumulated state changes of one transaction.
	Commit(accounts map[common.Address]*Account, storages map[common.Address]map[common.Hash]common.Hash, codes map[common.Hash][]byte, deleted []common.Address) error
}

// Store key layout shared with the host:
//
//	accountPrefix(B1) + address(B20)              => account record
//	codePrefix(B1)    + code_hash(B32)            => contract bytecode
//	storagePrefix(B1) + address(B20) + index(B32) => storage word
//	blockPrefix(B1)   + block_num(B8)             => block hash
const (
	accountPrefix byte = 1
	codePrefix    byte = 2
	storagePrefix byte = 3
	blockPrefix   byte = 4
)

// AccountKey encodes the store key of an account record.
func AccountKey(addr common.Address) []byte {
	return append([]byte{accountPrefix}, addr.Bytes()...)
}

// CodeKey encodes the store key of a bytecode blob.
func CodeKey(hash common.Hash) []byte {
	return append([]byte{codePrefix}, hash.Bytes()...)
}

// StorageKey encodes the store key of a storage word.
func StorageKey(addr common.Address, index common.Hash) []byte {
	key := make([]byte, 0, 1+common.AddressLength+common.HashLength)
	key = append(key, storagePrefix)
	key = append(key, addr.Bytes()...)
	return append(key, index.Bytes()...)
}

// BlockKey encodes the store key of a block hash record.
func BlockKey(number uint64) []byte {
	key := make([]byte, 9)
	key[0] = blockPrefix
	binary.BigEndian.PutUint64(key[1:], number)
	return key
}

// Account records are a fixed 72-byte layout: balance(32) | nonce(8) | code_hash(32).
const accountRecordSize = 32 + 8 + common.HashLength

// EncodeAccount serializes an account record for the backing store.
func EncodeAccount(acc *Account) []byte {
	out := make([]byte, accountRecordSize)
	balance := acc.Balance
	if balance == nil {
		balance = new(uint256.Int)
	}
	b := balance.Bytes32()
	copy(out[:32], b[:])
	binary.BigEndian.PutUint64(out[32:40], acc.Nonce)
	copy(out[40:], acc.CodeHash.Bytes())
	return out
}

// DecodeAccount parses an account record from the backing store.
func DecodeAccount(data []byte) (*Account, error) {
	if len(data) != accountRecordSize {
		return nil, fmt.Errorf("invalid account record size %d", len(data))
	}
	return &Account{
		Balance:  new(uint256.Int).SetBytes(data[:32]),
		Nonce:    binary.BigEndian.Uint64(data[32:40]),
		CodeHash: common.BytesToHash(data[40:]),
	}, nil
}
