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

package params

import "fmt"

// SpecId identifies a post-merge EVM revision. It governs opcode availability
// and pricing for both the interpreter and the native backend, and is fixed for
// the lifetime of a VM instance.
type SpecId uint8

const (
	MergeSpec SpecId = iota
	ShanghaiSpec
	CancunSpec
	PragueSpec
	OsakaSpec
)

var specNames = map[SpecId]string{
	MergeSpec:    "merge",
	ShanghaiSpec: "shanghai",
	CancunSpec:   "cancun",
	PragueSpec:   "prague",
	OsakaSpec:    "osaka",
}

func (s SpecId) String() string {
	if name, ok := specNames[s]; ok {
		return name
	}
	return fmt.Sprintf("spec(%d)", uint8(s))
}

// Valid reports whether s names a known revision.
func (s SpecId) Valid() bool {
	_, ok := specNames[s]
	return ok
}

// SpecFromUint8 maps a host-provided revision byte to a SpecId, falling back
// to Cancun for unknown values.
func SpecFromUint8(v uint8) SpecId {
	s := SpecId(v)
	if !s.Valid() {
		return CancunSpec
	}
	return s
}

const (
	// CompileThreshold is the default number of observed executions of one
	// bytecode before it is handed to the background compiler.
	CompileThreshold = 10

	// MaxConcurrentCompilations is the default ceiling on simultaneously
	// running background compilations.
	MaxConcurrentCompilations = 2

	// MaxCodeSize is the maximum bytecode size accepted for deployed contracts.
	MaxCodeSize = 24576

	// CallCreateDepth is the maximum call/create stack depth.
	CallCreateDepth = 1024

	// StackLimit is the maximum size of the EVM operand stack.
	StackLimit = 1024
)

// Gas cost parameters for the interpreter. The subset matches the operations
// the jump table implements.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	SloadGas          uint64 = 800
	SstoreSetGas      uint64 = 20000
	SstoreResetGas    uint64 = 5000
	JumpdestGas       uint64 = 1
	LogGas            uint64 = 375
	LogTopicGas       uint64 = 375
	LogDataGas        uint64 = 8
	MemoryGas         uint64 = 3
	QuadCoeffDiv      uint64 = 512
	CopyGas           uint64 = 3
	Keccak256Gas      uint64 = 30
	Keccak256WordGas  uint64 = 6
	CreateGas         uint64 = 32000
	CreateDataGas     uint64 = 200
	CallValueTransfer uint64 = 9000
	CallNewAccountGas uint64 = 25000
	TxGas             uint64 = 21000
	TxDataZeroGas     uint64 = 4
	TxDataNonZeroGas  uint64 = 16
	BalanceGas        uint64 = 700
	ExtcodeHashGas    uint64 = 700
	CallGas           uint64 = 700
)
