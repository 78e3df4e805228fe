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
	"github.com/holiman/uint256"
)

// GetBalance retrieves the balance of addr, or zero if the account is absent.
func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if so := s.getObject(addr); so != nil {
		return so.account.Balance
	}
	return newZero()
}

// AddBalance adds amount to the balance of addr.
func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	so := s.getOrNewObject(addr)
	so.account.Balance = new(uint256.Int).Add(so.account.Balance, amount)
}

// SubBalance subtracts amount from the balance of addr.
func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	so := s.getOrNewObject(addr)
	so.account.Balance = new(uint256.Int).Sub(so.account.Balance, amount)
}

// GetNonce retrieves the nonce of addr, or zero if the account is absent.
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if so := s.getObject(addr); so != nil {
		return so.account.Nonce
	}
	return 0
}

// SetNonce sets the nonce of addr.
func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	s.getOrNewObject(addr).account.Nonce = nonce
}

// GetCodeHash returns the code hash of addr, or the zero hash if absent.
func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if so := s.getObject(addr); so != nil {
		return so.account.CodeHash
	}
	return common.Hash{}
}

// GetCode returns the bytecode deployed at addr.
func (s *StateDB) GetCode(addr common.Address) []byte {
	so := s.getObject(addr)
	if so == nil {
		return nil
	}
	if so.code != nil {
		return so.code
	}
	if so.account.CodeHash == emptyCodeHash || so.account.CodeHash.IsZero() {
		return nil
	}
	so.code = s.GetCodeByHash(so.account.CodeHash)
	return so.code
}

// GetCodeByHash returns the bytecode stored under hash, consulting the
// StateDB's read-through cache before the backend.
func (s *StateDB) GetCodeByHash(hash common.Hash) []byte {
	if hash == emptyCodeHash || hash.IsZero() {
		return nil
	}
	if code, ok := s.codes[hash]; ok {
		return code
	}
	if code := s.codeCache.Get(nil, hash.Bytes()); len(code) > 0 {
		return code
	}
	code, err := s.backend.GetCodeByHash(hash)
	if err != nil {
		s.setReadErr(&BackendError{Op: "get_code_by_hash", Err: err})
		return nil
	}
	if len(code) > 0 {
		s.codeCache.Set(hash.Bytes(), code)
	}
	return code
}

// SetCode deploys code at addr.
func (s *StateDB) SetCode(addr common.Address, code []byte, hash common.Hash) {
	so := s.getOrNewObject(addr)
	so.account.CodeHash = hash
	so.code = code
	s.codes[hash] = code
}

// GetState returns the storage word of addr at index.
func (s *StateDB) GetState(addr common.Address, index common.Hash) common.Hash {
	so := s.getObject(addr)
	if so == nil {
		return common.Hash{}
	}
	if value, ok := so.dirty[index]; ok {
		return value
	}
	if value, ok := so.storage[index]; ok {
		return value
	}
	value, err := s.backend.GetStorage(addr, index)
	if err != nil {
		s.setReadErr(&BackendError{Op: "get_storage", Err: err})
		return common.Hash{}
	}
	so.storage[index] = value
	return value
}

// GetCommittedState returns the storage word as held by the backend,
// ignoring dirty writes of the current transaction.
func (s *StateDB) GetCommittedState(addr common.Address, index common.Hash) common.Hash {
	so := s.getObject(addr)
	if so == nil {
		return common.Hash{}
	}
	if value, ok := so.storage[index]; ok {
		return value
	}
	value, err := s.backend.GetStorage(addr, index)
	if err != nil {
		s.setReadErr(&BackendError{Op: "get_storage", Err: err})
		return common.Hash{}
	}
	so.storage[index] = value
	return value
}

// SetState writes a storage word of addr at index.
func (s *StateDB) SetState(addr common.Address, index, value common.Hash) {
	s.getOrNewObject(addr).dirty[index] = value
}

// GetBlockHash resolves a block number to its hash through the backend.
func (s *StateDB) GetBlockHash(number uint64) common.Hash {
	hash, err := s.backend.GetBlockHash(number)
	if err != nil {
		s.setReadErr(&BackendError{Op: "get_block_hash", Err: err})
		return common.Hash{}
	}
	return hash
}

// AddLog appends a log record emitted by the current execution.
func (s *StateDB) AddLog(log *types.Log) {
	s.logs = append(s.logs, log)
}

// Logs returns the logs accumulated so far.
func (s *StateDB) Logs() []*types.Log { return s.logs }

// AddRefund adds gas to the refund counter.
func (s *StateDB) AddRefund(gas uint64) { s.refund += gas }

// SubRefund removes gas from the refund counter.
func (s *StateDB) SubRefund(gas uint64) {
	if gas > s.refund {
		gas = s.refund
	}
	s.refund -= gas
}

// GetRefund returns the current refund counter.
func (s *StateDB) GetRefund() uint64 { return s.refund }

// Snapshot captures the current revision of the state.
func (s *StateDB) Snapshot() int {
	s.snapshot++
	snap := &stateSnapshot{
		id:      s.snapshot,
		objects: make(map[common.Address]*stateObject, len(s.objects)),
		logs:    len(s.logs),
		refund:  s.refund,
	}
	for addr, so := range s.objects {
		snap.objects[addr] = so.copy()
	}
	s.snapshots = append(s.snapshots, snap)
	return snap.id
}

// RevertToSnapshot rolls the state back to a revision captured by Snapshot.
func (s *StateDB) RevertToSnapshot(id int) {
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].id == id {
			snap := s.snapshots[i]
			s.objects = snap.objects
			s.logs = s.logs[:snap.logs]
			s.refund = snap.refund
			s.snapshots = s.snapshots[:i]
			return
		}
	}
}

// Commit pushes every buffered mutation into the backend store.
func (s *StateDB) Commit() error {
	accounts := make(map[common.Address]*Account)
	storages := make(map[common.Address]map[common.Hash]common.Hash)
	var deleted []common.Address
	for addr, so := range s.objects {
		if so.deleted {
			deleted = append(deleted, addr)
			continue
		}
		accounts[addr] = so.account
		if len(so.dirty) > 0 {
			dirty := make(map[common.Hash]common.Hash, len(so.dirty))
			for k, v := range so.dirty {
				dirty[k] = v
			}
			storages[addr] = dirty
		}
	}
	if err := s.backend.Commit(accounts, storages, s.codes, deleted); err != nil {
		return &BackendError{Op: "commit", Err: err}
	}
	return nil
}
