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

// Package core implements transaction processing on top of the EVM.
package core

import (
	"errors"
	"fmt"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/state"
	"github.com/TevmFoundation/tevm-chain/core/types"
	"github.com/TevmFoundation/tevm-chain/core/vm"
	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/holiman/uint256"
)

// Transaction validation errors. These reject the transaction before any EVM
// execution takes place and are surfaced through the caller's error channel.
var (
	ErrNonceTooLow       = errors.New("nonce too low")
	ErrNonceTooHigh      = errors.New("nonce too high")
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")
	ErrIntrinsicGas      = errors.New("intrinsic gas too low")
)

// ExecError wraps a transaction validation failure.
type ExecError struct {
	Err error
}

func (e *ExecError) Error() string { return fmt.Sprintf("invalid transaction: %v", e.Err) }

func (e *ExecError) Unwrap() error { return e.Err }

// refundQuotient is the EIP-3529 cap divisor on gas refunds.
const refundQuotient = 5

// StateTransition represents the application of one transaction to the
// current state.
type StateTransition struct {
	evm        *vm.EVM
	statedb    *state.StateDB
	tx         *types.TxEnv
	gas        uint64
	initialGas uint64
}

// NewStateTransition initialises a transition object.
func NewStateTransition(evm *vm.EVM, statedb *state.StateDB, tx *types.TxEnv) *StateTransition {
	return &StateTransition{
		evm:     evm,
		statedb: statedb,
		tx:      tx,
	}
}

// ApplyTransaction runs tx against the state wired into evm and returns the
// execution result. The buffered state mutations are left in statedb; the
// caller decides whether to commit them.
func ApplyTransaction(evm *vm.EVM, statedb *state.StateDB, tx *types.TxEnv) (*types.ExecutionResult, error) {
	return NewStateTransition(evm, statedb, tx).execute()
}

// intrinsicGas computes the gas consumed before any opcode runs.
func intrinsicGas(data []byte, isCreate bool) (uint64, error) {
	gas := params.TxGas
	if isCreate {
		gas += params.CreateGas
	}
	for _, b := range data {
		if b == 0 {
			gas += params.TxDataZeroGas
		} else {
			gas += params.TxDataNonZeroGas
		}
	}
	return gas, nil
}

func (st *StateTransition) preCheck() error {
	nonce := st.statedb.GetNonce(st.tx.Caller)
	if nonce < st.tx.Nonce {
		return &ExecError{Err: ErrNonceTooHigh}
	} else if nonce > st.tx.Nonce {
		return &ExecError{Err: ErrNonceTooLow}
	}
	// The caller must be able to cover the full gas purchase plus the value.
	cost := new(uint256.Int).Mul(new(uint256.Int).SetUint64(st.tx.GasLimit), st.tx.GasPrice)
	cost.Add(cost, st.tx.Value)
	if st.statedb.GetBalance(st.tx.Caller).Lt(cost) {
		return &ExecError{Err: ErrInsufficientFunds}
	}
	return nil
}

func (st *StateTransition) buyGas() {
	gasCost := new(uint256.Int).Mul(new(uint256.Int).SetUint64(st.tx.GasLimit), st.tx.GasPrice)
	st.statedb.SubBalance(st.tx.Caller, gasCost)
	st.gas = st.tx.GasLimit
	st.initialGas = st.tx.GasLimit
}

func (st *StateTransition) execute() (*types.ExecutionResult, error) {
	if err := st.preCheck(); err != nil {
		return nil, err
	}
	st.buyGas()

	metered := !st.evm.Config().NoGasMetering
	if metered {
		igas, err := intrinsicGas(st.tx.Data, st.tx.IsCreate())
		if err != nil {
			return nil, &ExecError{Err: err}
		}
		if st.gas < igas {
			return nil, &ExecError{Err: ErrIntrinsicGas}
		}
		st.gas -= igas
	}

	var (
		ret         []byte
		leftOverGas uint64
		vmerr       error
		createdAddr *common.Address
	)
	if st.tx.IsCreate() {
		var addr common.Address
		ret, addr, leftOverGas, vmerr = st.evm.Create(st.tx.Caller, st.tx.Data, st.gas, st.tx.Value)
		createdAddr = &addr
	} else {
		st.statedb.SetNonce(st.tx.Caller, st.statedb.GetNonce(st.tx.Caller)+1)
		ret, leftOverGas, vmerr = st.evm.Call(st.tx.Caller, *st.tx.To, st.tx.Data, st.gas, st.tx.Value)
	}
	st.gas = leftOverGas

	// A backend read failure during execution outranks the EVM outcome.
	if err := st.statedb.Error(); err != nil {
		return nil, err
	}

	if vmerr != nil && vmerr != vm.ErrExecutionReverted {
		// Irrecoverable halt: all gas is consumed.
		st.gas = 0
		st.payRemainder()
		return &types.ExecutionResult{
			Kind:       types.ResultHalt,
			HaltReason: haltReason(vmerr),
			GasUsed:    st.initialGas,
		}, nil
	}

	if vmerr == vm.ErrExecutionReverted {
		gasUsed := st.gasUsed()
		st.payRemainder()
		return &types.ExecutionResult{
			Kind:    types.ResultRevert,
			GasUsed: gasUsed,
			Output:  ret,
		}, nil
	}

	// Successful execution: apply the capped refund before paying back.
	refund := st.gasUsed() / refundQuotient
	if sdbRefund := st.statedb.GetRefund(); sdbRefund < refund {
		refund = sdbRefund
	}
	st.gas += refund
	gasUsed := st.gasUsed()
	st.payRemainder()

	res := &types.ExecutionResult{
		Kind:        types.ResultSuccess,
		Reason:      successReason(st.tx, ret),
		GasUsed:     gasUsed,
		GasRefunded: refund,
		Logs:        st.statedb.Logs(),
		Output:      ret,
	}
	if st.tx.IsCreate() {
		res.CreatedAddress = createdAddr
	}
	return res, nil
}

// payRemainder returns the unused gas to the caller and pays the fee of the
// consumed portion to the coinbase.
func (st *StateTransition) payRemainder() {
	remaining := new(uint256.Int).Mul(new(uint256.Int).SetUint64(st.gas), st.tx.GasPrice)
	st.statedb.AddBalance(st.tx.Caller, remaining)
	fee := new(uint256.Int).Mul(new(uint256.Int).SetUint64(st.gasUsed()), st.tx.GasPrice)
	st.statedb.AddBalance(st.evm.Context.Coinbase, fee)
}

// gasUsed returns the amount of gas used up by the state transition.
func (st *StateTransition) gasUsed() uint64 {
	return st.initialGas - st.gas
}

func successReason(tx *types.TxEnv, ret []byte) types.SuccessReason {
	if tx.IsCreate() || len(ret) > 0 {
		return types.SuccessReturn
	}
	return types.SuccessStop
}

// haltReason maps an EVM error onto the wire halt enumeration.
func haltReason(err error) types.HaltReason {
	switch {
	case errors.Is(err, vm.ErrOutOfGas), errors.Is(err, vm.ErrCodeStoreOutOfGas):
		return types.HaltOutOfGasBasic
	case errors.Is(err, vm.ErrGasUintOverflow):
		return types.HaltOutOfGasMemoryLimit
	case errors.Is(err, vm.ErrInvalidJump):
		return types.HaltInvalidJump
	case errors.Is(err, vm.ErrWriteProtection):
		return types.HaltStateChangeDuringStaticCall
	case errors.Is(err, vm.ErrDepth):
		return types.HaltCallTooDeep
	case errors.Is(err, vm.ErrInsufficientBalance):
		return types.HaltOutOfFunds
	case errors.Is(err, vm.ErrContractAddressCollision):
		return types.HaltCreateCollision
	case errors.Is(err, vm.ErrMaxCodeSizeExceeded):
		return types.HaltCreateContractSizeLimit
	case errors.Is(err, vm.ErrInvalidCode):
		return types.HaltCreateContractStartingWithEf
	case errors.Is(err, vm.ErrNonceUintOverflow):
		return types.HaltNonceOverflow
	}
	var underflow *vm.ErrStackUnderflow
	if errors.As(err, &underflow) {
		return types.HaltStackUnderflow
	}
	var overflow *vm.ErrStackOverflow
	if errors.As(err, &overflow) {
		return types.HaltStackOverflow
	}
	var invalid *vm.ErrInvalidOpCode
	if errors.As(err, &invalid) {
		if invalid.OpCode() == vm.INVALID {
			return types.HaltInvalidFeOpcode
		}
		return types.HaltOpcodeNotFound
	}
	return types.HaltPrecompileError
}
