// Copyright 2015 The go-ethereum Authors
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

package vm

import (
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/holiman/uint256"
)

// Contract represents an ethereum contract in the state database. It contains
// the contract code, calling arguments.
type Contract struct {
	// CallerAddress is the result of the caller which initialised this
	// contract.
	CallerAddress common.Address
	address       common.Address

	jumpdests map[common.Hash][]bool // Aggregated result of JUMPDEST analysis.
	analysis  []bool                 // Locally cached result of JUMPDEST analysis

	Code     []byte
	CodeHash common.Hash
	Input    []byte

	value *uint256.Int
	Gas   uint64
}

// NewContract returns a new contract environment for the execution of EVM.
func NewContract(caller common.Address, address common.Address, value *uint256.Int, gas uint64) *Contract {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Contract{
		CallerAddress: caller,
		address:       address,
		value:         value,
		Gas:           gas,
		jumpdests:     make(map[common.Hash][]bool),
	}
}

// SetCallCode sets the code of the contract and its hash.
func (c *Contract) SetCallCode(hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
}

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	// PC cannot go beyond len(code) and certainly can't be bigger than 64 bits.
	// Don't bother checking for JUMPDEST in that case.
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	// Only JUMPDESTs allowed for destinations
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	if c.CodeHash != (common.Hash{}) {
		// Does parent context have the analysis?
		analysis, exist := c.jumpdests[c.CodeHash]
		if !exist {
			// Do the analysis and save in parent context
			analysis = codeBitmap(c.Code)
			c.jumpdests[c.CodeHash] = analysis
		}
		return analysis[udest]
	}
	// We don't have the code hash, most likely a piece of initcode not already
	// in state trie. In that case, we do an analysis, and save it locally.
	if c.analysis == nil {
		c.analysis = codeBitmap(c.Code)
	}
	return c.analysis[udest]
}

// codeBitmap collects data locations in code: an entry is true where the byte
// is an opcode, false where it is push data.
func codeBitmap(code []byte) []bool {
	bits := make([]bool, len(code))
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		bits[pc] = true
		if op.IsPush() {
			pc += int(op-PUSH1) + 2
		} else {
			pc++
		}
	}
	return bits
}

// GetOp returns the n'th element in the contract's byte array.
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// UseGas attempts the use gas and subtracts it and returns true on success.
func (c *Contract) UseGas(gas uint64) (ok bool) {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// Address returns the contract's address.
func (c *Contract) Address() common.Address {
	return c.address
}

// Value returns the contract's value (sent to it from its caller).
func (c *Contract) Value() *uint256.Int {
	return c.value
}
