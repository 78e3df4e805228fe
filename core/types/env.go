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

package types

import (
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/holiman/uint256"
)

// BlockEnv carries the block-level execution environment decoded from the
// host-provided view.
type BlockEnv struct {
	Number        *uint256.Int
	Coinbase      common.Address
	Timestamp     *uint256.Int
	GasLimit      *uint256.Int
	BaseFee       *uint256.Int
	Difficulty    *uint256.Int
	PrevRandao    *common.Hash
	ExcessBlobGas uint64
}

// TxEnv carries the transaction-level execution environment decoded from the
// host-provided view. A nil To denotes contract creation.
type TxEnv struct {
	Caller   common.Address
	To       *common.Address
	Value    *uint256.Int
	Data     []byte
	GasLimit uint64
	GasPrice *uint256.Int
	Nonce    uint64
}

// IsCreate reports whether the transaction deploys a new contract.
func (tx *TxEnv) IsCreate() bool {
	return tx.To == nil
}
