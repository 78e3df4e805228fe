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
	"sync"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/crypto"
)

// MemStorage is an in-process Storage backend over a flat key-value map,
// using the shared prefix layout. It stands in for the host store in tests
// and in the offline tooling.
type MemStorage struct {
	lock sync.RWMutex
	kv   map[string][]byte
}

// NewMemStorage creates an empty in-memory backend.
func NewMemStorage() *MemStorage {
	return &MemStorage{kv: make(map[string][]byte)}
}

// SetAccount seeds an account record.
func (m *MemStorage) SetAccount(addr common.Address, acc *Account) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.kv[string(AccountKey(addr))] = EncodeAccount(acc)
}

// SetCode seeds a bytecode blob and returns its code hash.
func (m *MemStorage) SetCode(code []byte) common.Hash {
	hash := crypto.Keccak256Hash(code)
	m.lock.Lock()
	defer m.lock.Unlock()
	m.kv[string(CodeKey(hash))] = common.CopyBytes(code)
	return hash
}

// SetBlockHash seeds a block number to hash mapping.
func (m *MemStorage) SetBlockHash(number uint64, hash common.Hash) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.kv[string(BlockKey(number))] = hash.Bytes()
}

// DeployContract seeds an account with the given runtime code.
func (m *MemStorage) DeployContract(addr common.Address, code []byte) common.Hash {
	hash := m.SetCode(code)
	m.SetAccount(addr, &Account{Balance: newZero(), CodeHash: hash})
	return hash
}

func (m *MemStorage) GetAccount(addr common.Address) (*Account, error) {
	m.lock.RLock()
	data, ok := m.kv[string(AccountKey(addr))]
	m.lock.RUnlock()
	if !ok {
		return nil, nil
	}
	return DecodeAccount(data)
}

func (m *MemStorage) GetCodeByHash(hash common.Hash) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return common.CopyBytes(m.kv[string(CodeKey(hash))]), nil
}

func (m *MemStorage) GetStorage(addr common.Address, index common.Hash) (common.Hash, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return common.BytesToHash(m.kv[string(StorageKey(addr, index))]), nil
}

func (m *MemStorage) GetBlockHash(number uint64) (common.Hash, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return common.BytesToHash(m.kv[string(BlockKey(number))]), nil
}

func (m *MemStorage) Commit(accounts map[common.Address]*Account, storages map[common.Address]map[common.Hash]common.Hash, codes map[common.Hash][]byte, deleted []common.Address) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for addr, acc := range accounts {
		m.kv[string(AccountKey(addr))] = EncodeAccount(acc)
	}
	for addr, slots := range storages {
		for index, value := range slots {
			m.kv[string(StorageKey(addr, index))] = value.Bytes()
		}
	}
	for hash, code := range codes {
		m.kv[string(CodeKey(hash))] = common.CopyBytes(code)
	}
	for _, addr := range deleted {
		delete(m.kv, string(AccountKey(addr)))
	}
	return nil
}
