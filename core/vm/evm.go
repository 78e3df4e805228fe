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

package vm

import (
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/crypto"
	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/holiman/uint256"
)

// Context provides the EVM with auxiliary information. Once provided
// it shouldn't be modified.
type Context struct {
	// Message information
	Origin   common.Address // Provides information for ORIGIN
	GasPrice *uint256.Int   // Provides information for GASPRICE

	// Block information
	Coinbase    common.Address // Provides information for COINBASE
	GasLimit    *uint256.Int   // Provides information for GASLIMIT
	BlockNumber *uint256.Int   // Provides information for NUMBER
	Time        *uint256.Int   // Provides information for TIMESTAMP
	Difficulty  *uint256.Int   // Provides information for DIFFICULTY
	BaseFee     *uint256.Int   // Provides information for BASEFEE
	PrevRandao  *common.Hash   // Provides information for PREVRANDAO
}

// ExecuteFrameFunc executes one call frame: the contract's code with the
// given input. It is the extension point the compilation tier hooks into.
type ExecuteFrameFunc func(contract *Contract, input []byte, readOnly bool) ([]byte, error)

// EVM is the Ethereum Virtual Machine base object and provides the necessary
// tools to run a contract on the given state with the provided context. It
// should be noted that any error generated through any of the calls should be
// considered a revert-the-state-and-consume-all-gas operation, no checks on
// specific errors should ever be performed. The interpreter makes sure that
// any errors generated are to be considered faulty code.
//
// The EVM should never be reused and is not thread safe.
type EVM struct {
	// Context provides auxiliary blockchain related information
	Context
	// StateDB gives access to the underlying state
	StateDB StateDB
	// Depth is the current call stack
	depth int

	// chain revision and identity
	spec    params.SpecId
	chainID *uint256.Int

	// virtual machine configuration options used to initialise the evm
	vmConfig Config
	// global ethereum virtual machine used throughout the execution
	interpreter *EVMInterpreter

	// executeFrame runs one call frame. It defaults to the interpreter; the
	// compilation tier wraps it to interpose native dispatch.
	executeFrame ExecuteFrameFunc
}

// NewEVM returns a new EVM. The returned EVM is not thread safe and should
// only ever be used by a single thread.
func NewEVM(ctx Context, statedb StateDB, spec params.SpecId, chainID uint64, vmConfig Config) *EVM {
	evm := &EVM{
		Context:  ctx,
		StateDB:  statedb,
		spec:     spec,
		chainID:  new(uint256.Int).SetUint64(chainID),
		vmConfig: vmConfig,
	}
	evm.interpreter = NewEVMInterpreter(evm, vmConfig)
	evm.executeFrame = func(contract *Contract, input []byte, readOnly bool) ([]byte, error) {
		return evm.interpreter.Run(contract, input, readOnly)
	}
	return evm
}

// Spec returns the EVM revision the instance was built for.
func (evm *EVM) Spec() params.SpecId { return evm.spec }

// Config returns the interpreter configuration.
func (evm *EVM) Config() Config { return evm.vmConfig }

// Interpreter returns the current interpreter
func (evm *EVM) Interpreter() *EVMInterpreter { return evm.interpreter }

// WrapFrameExecutor installs a frame executor produced from the previous one.
// The wrapper receives the prior executor so it can fall through to it; this
// is the registration point of the tiered-execution interposer.
func (evm *EVM) WrapFrameExecutor(wrap func(prev ExecuteFrameFunc) ExecuteFrameFunc) {
	evm.executeFrame = wrap(evm.executeFrame)
}

// SetStateDB rebinds the EVM to a fresh transaction-scoped state.
func (evm *EVM) SetStateDB(statedb StateDB) {
	evm.StateDB = statedb
}

// Call executes the contract associated with addr with the given input as
// parameters. It also handles any necessary value transfer required and takes
// the necessary steps to create accounts and reverses the state in case of an
// execution error.
func (evm *EVM) Call(caller common.Address, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	// Fail if we're trying to transfer more than the available balance
	if value != nil && !value.IsZero() && evm.StateDB.GetBalance(caller).Lt(value) {
		return nil, gas, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(addr) {
		evm.StateDB.CreateAccount(addr)
	}
	transfer(evm.StateDB, caller, addr, value)

	code := evm.StateDB.GetCode(addr)
	codeHash := evm.StateDB.GetCodeHash(addr)

	contract := NewContract(caller, addr, value, gas)
	contract.SetCallCode(codeHash, code)

	ret, err = evm.executeFrame(contract, input, false)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contract.Gas, err
}

// StaticCall executes the contract associated with addr with the given input
// as parameters while disallowing any modifications to the state during the
// call.
func (evm *EVM) StaticCall(caller common.Address, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()

	contract := NewContract(caller, addr, new(uint256.Int), gas)
	contract.SetCallCode(evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))

	ret, err = evm.executeFrame(contract, input, true)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contract.Gas, err
}

// Create creates a new contract using code as deployment code.
func (evm *EVM) Create(caller common.Address, code []byte, gas uint64, value *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, common.Address{}, gas, ErrDepth
	}
	if value != nil && !value.IsZero() && evm.StateDB.GetBalance(caller).Lt(value) {
		return nil, common.Address{}, gas, ErrInsufficientBalance
	}
	nonce := evm.StateDB.GetNonce(caller)
	if nonce+1 < nonce {
		return nil, common.Address{}, gas, ErrNonceUintOverflow
	}
	evm.StateDB.SetNonce(caller, nonce+1)

	contractAddr = crypto.CreateAddress(caller, nonce)
	// Ensure there's no existing contract already at the designated address
	contractHash := evm.StateDB.GetCodeHash(contractAddr)
	if evm.StateDB.GetNonce(contractAddr) != 0 || (contractHash != (common.Hash{}) && contractHash != crypto.Keccak256Hash(nil)) {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}
	// Create a new account on the state
	snapshot := evm.StateDB.Snapshot()
	evm.StateDB.CreateAccount(contractAddr)
	evm.StateDB.SetNonce(contractAddr, 1)
	transfer(evm.StateDB, caller, contractAddr, value)

	contract := NewContract(caller, contractAddr, value, gas)
	contract.SetCallCode(crypto.Keccak256Hash(code), code)

	ret, err = evm.executeFrame(contract, nil, false)

	// Check whether the max code size has been exceeded, assign err if the case.
	if err == nil && len(ret) > params.MaxCodeSize {
		err = ErrMaxCodeSizeExceeded
	}
	// Reject code starting with 0xEF (EIP-3541).
	if err == nil && len(ret) >= 1 && ret[0] == 0xEF {
		err = ErrInvalidCode
	}
	// if the contract creation ran successfully and no errors were returned
	// calculate the gas required to store the code. If the code could not
	// be stored due to not enough gas set an error.
	if err == nil {
		createDataGas := uint64(len(ret)) * params.CreateDataGas
		if evm.vmConfig.NoGasMetering || contract.UseGas(createDataGas) {
			evm.StateDB.SetCode(contractAddr, ret, crypto.Keccak256Hash(ret))
		} else {
			err = ErrCodeStoreOutOfGas
		}
	}
	// When an error was returned by the EVM or when setting the creation code
	// above we revert to the snapshot and consume any gas remaining.
	if err != nil && err != ErrCodeStoreOutOfGas {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contractAddr, contract.Gas, err
}

// transfer subtracts amount from sender and adds amount to recipient using
// the given Db.
func transfer(db StateDB, sender, recipient common.Address, amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		return
	}
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
}
