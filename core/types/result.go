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

import "github.com/TevmFoundation/tevm-chain/common"

// Log represents a contract log event emitted during execution.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// ResultKind discriminates the three execution outcomes.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultRevert
	ResultHalt
)

// SuccessReason enumerates why an execution completed successfully.
type SuccessReason int

const (
	SuccessStop SuccessReason = iota
	SuccessReturn
	SuccessSelfDestruct
	SuccessEofReturnContract
)

// HaltReason enumerates every cause of an irrecoverable execution halt.
// The values mirror the wire enumeration one to one.
type HaltReason int

const (
	HaltOutOfGasBasic HaltReason = iota
	HaltOutOfGasMemoryLimit
	HaltOutOfGasMemory
	HaltOutOfGasPrecompile
	HaltOutOfGasInvalidOperand
	HaltOpcodeNotFound
	HaltInvalidFeOpcode
	HaltInvalidJump
	HaltNotActivated
	HaltStackUnderflow
	HaltStackOverflow
	HaltOutOfOffset
	HaltCreateCollision
	HaltPrecompileError
	HaltNonceOverflow
	HaltCreateContractSizeLimit
	HaltCreateContractStartingWithEf
	HaltCreateInitCodeSizeLimit
	HaltOverflowPayment
	HaltStateChangeDuringStaticCall
	HaltCallNotAllowedInsideStatic
	HaltOutOfFunds
	HaltCallTooDeep
	HaltEofAuxDataOverflow
	HaltEofAuxDataTooSmall
	HaltEofFunctionStackOverflow
	HaltInvalidExtcallTarget
)

// ExecutionResult is the outcome of one transaction execution. Exactly one of
// the three variants is populated, selected by Kind.
type ExecutionResult struct {
	Kind ResultKind

	// Success fields
	Reason      SuccessReason
	GasRefunded uint64
	Logs        []*Log
	// CreatedAddress is set for successful create transactions.
	CreatedAddress *common.Address

	// Halt field
	HaltReason HaltReason

	// Shared fields
	GasUsed uint64
	// Output holds the call return data, the deployed code for creates, or
	// the revert payload.
	Output []byte
}

// Succeeded reports whether the execution completed without revert or halt.
func (r *ExecutionResult) Succeeded() bool {
	return r.Kind == ResultSuccess
}
