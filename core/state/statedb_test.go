// Copyright 2016 The go-ethereum Authors
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
	"bytes"
	"testing"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/holiman/uint256"
)

func TestAccountCodec(t *testing.T) {
	acc := &Account{
		Balance:  uint256.NewInt(123456789),
		Nonce:    42,
		CodeHash: common.HexToHash("0xdeadbeef"),
	}
	decoded, err := DecodeAccount(EncodeAccount(acc))
	if err != nil {
		t.Fatalf("DecodeAccount: %v", err)
	}
	if decoded.Balance.Cmp(acc.Balance) != 0 || decoded.Nonce != acc.Nonce || decoded.CodeHash != acc.CodeHash {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if _, err := DecodeAccount([]byte{1, 2, 3}); err == nil {
		t.Fatal("short record accepted")
	}
}

func TestStorageKeys(t *testing.T) {
	addr := common.HexToAddress("0x0102")
	index := common.HexToHash("0x03")
	if key := AccountKey(addr); key[0] != 1 || len(key) != 21 {
		t.Fatalf("account key % x", key)
	}
	if key := CodeKey(common.Hash{}); key[0] != 2 || len(key) != 33 {
		t.Fatalf("code key % x", key)
	}
	if key := StorageKey(addr, index); key[0] != 3 || len(key) != 53 {
		t.Fatalf("storage key % x", key)
	}
	if key := BlockKey(7); key[0] != 4 || len(key) != 9 || key[8] != 7 {
		t.Fatalf("block key % x", key)
	}
}

func TestReadThrough(t *testing.T) {
	storage := NewMemStorage()
	addr := common.HexToAddress("0xabcd")
	code := []byte{0x60, 0x01, 0x00}
	hash := storage.DeployContract(addr, code)

	s := New(storage)
	if !s.Exist(addr) {
		t.Fatal("deployed account missing")
	}
	if got := s.GetCode(addr); !bytes.Equal(got, code) {
		t.Fatalf("code = % x, want % x", got, code)
	}
	if got := s.GetCodeHash(addr); got != hash {
		t.Fatalf("code hash = %v, want %v", got, hash)
	}
	// A second statedb starts with its own empty cache and reads the code
	// through from the backend; same data.
	s2 := New(storage)
	if got := s2.GetCodeByHash(hash); !bytes.Equal(got, code) {
		t.Fatalf("cached code = % x", got)
	}
}

func TestSnapshotRevert(t *testing.T) {
	storage := NewMemStorage()
	addr := common.HexToAddress("0xabcd")
	s := New(storage)

	s.CreateAccount(addr)
	s.AddBalance(addr, uint256.NewInt(100))
	snap := s.Snapshot()

	s.AddBalance(addr, uint256.NewInt(50))
	s.SetState(addr, common.HexToHash("0x01"), common.HexToHash("0x02"))
	s.AddRefund(777)

	s.RevertToSnapshot(snap)
	if got := s.GetBalance(addr); got.Uint64() != 100 {
		t.Fatalf("balance = %d after revert, want 100", got.Uint64())
	}
	if got := s.GetState(addr, common.HexToHash("0x01")); !got.IsZero() {
		t.Fatalf("storage write survived revert: %v", got)
	}
	if s.GetRefund() != 0 {
		t.Fatalf("refund survived revert: %d", s.GetRefund())
	}
}

func TestCommitRoundTrip(t *testing.T) {
	storage := NewMemStorage()
	addr := common.HexToAddress("0xabcd")

	s := New(storage)
	s.CreateAccount(addr)
	s.AddBalance(addr, uint256.NewInt(42))
	s.SetNonce(addr, 7)
	s.SetState(addr, common.HexToHash("0x01"), common.HexToHash("0xff"))
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// A fresh state over the same backend sees the committed values.
	s2 := New(storage)
	if got := s2.GetBalance(addr); got.Uint64() != 42 {
		t.Fatalf("balance = %d, want 42", got.Uint64())
	}
	if got := s2.GetNonce(addr); got != 7 {
		t.Fatalf("nonce = %d, want 7", got)
	}
	if got := s2.GetState(addr, common.HexToHash("0x01")); got != common.HexToHash("0xff") {
		t.Fatalf("slot = %v, want 0xff", got)
	}
}
