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
	"github.com/inconshreveable/log15"
)

// Config are the configuration options for the Interpreter
type Config struct {
	// Debug enabled debugging Interpreter options
	Debug bool
	// NoGasMetering disables gas accounting; every operation costs zero.
	// The native backend is built with the matching flag so both tiers stay
	// equivalent.
	NoGasMetering bool
	// NoStackChecks disables operand stack depth validation.
	NoStackChecks bool

	ExtraEips []int // Additional EIPS that are to be enabled
}

// Interpreter is used to run contracts and will utilise the passed
// environment to query external sources for state information. The
// Interpreter will run the byte code VM based on the passed configuration.
type Interpreter interface {
	// Run loops and evaluates the contract's code with the given input data and returns
	// the return byte-slice and an error if one occurred.
	Run(contract *Contract, input []byte, static bool) ([]byte, error)
	// CanRun tells if the contract, passed as an argument, can be
	// run by the current interpreter.
	CanRun([]byte) bool
}

// ScopeContext contains the things that are per-call, such as stack and
// memory, but not transients like pc and gas.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}

// EVMInterpreter represents an EVM interpreter
type EVMInterpreter struct {
	evm *EVM
	cfg Config

	table JumpTable

	hasher    crypto.KeccakState // Keccak256 hasher instance shared across opcodes
	hasherBuf common.Hash        // Keccak256 hasher result array shared across opcodes

	readOnly   bool   // Whether to throw on stateful modifications
	returnData []byte // Last CALL's return data for subsequent reuse
}

// NewEVMInterpreter returns a new instance of the Interpreter.
func NewEVMInterpreter(evm *EVM, cfg Config) *EVMInterpreter {
	table := newInstructionSet(evm.spec)
	for i, eip := range cfg.ExtraEips {
		if err := EnableEIP(eip, &table); err != nil {
			// Disable it, so caller can check if it's activated or not
			cfg.ExtraEips = append(cfg.ExtraEips[:i], cfg.ExtraEips[i+1:]...)
			log15.Error("EIP activation failed", "eip", eip, "error", err)
		}
	}
	return &EVMInterpreter{
		evm:   evm,
		cfg:   cfg,
		table: table,
	}
}

// Run loops and evaluates the contract's code with the given input data and returns
// the return byte-slice and an error if one occurred.
//
// It's important to note that any errors returned by the interpreter should be
// considered a revert-and-consume-all-gas operation except for
// ErrExecutionReverted which means revert-and-keep-gas-left.
func (in *EVMInterpreter) Run(contract *Contract, input []byte, readOnly bool) (ret []byte, err error) {
	// Increment the call depth which is restricted to 1024
	in.evm.depth++
	defer func() { in.evm.depth-- }()

	// Make sure the readOnly is only set if we aren't in readOnly yet.
	// This also makes sure that the readOnly flag isn't removed for child calls.
	if readOnly && !in.readOnly {
		in.readOnly = true
		defer func() { in.readOnly = false }()
	}

	// Reset the previous call's return data. It's unimportant to preserve the old buffer
	// as every returning call will return new data anyway.
	in.returnData = nil

	// Don't bother with the execution if there's no code.
	if len(contract.Code) == 0 {
		return nil, nil
	}

	if in.hasher == nil {
		in.hasher = crypto.NewKeccakState()
	}
	contract.Input = input

	var (
		op          OpCode // current opcode
		mem         = NewMemory()
		stack       = newstack()
		callContext = &ScopeContext{
			Memory:   mem,
			Stack:    stack,
			Contract: contract,
		}
		// For optimisation reason we're using uint64 as the program counter.
		// It's theoretically possible to go above 2^64. The YP defines the PC
		// to be uint256. Practically much less so feasible.
		pc  = uint64(0) // program counter
		res []byte      // result of the opcode execution function
	)
	defer returnStack(stack)

	// The Interpreter main run loop (contextual). This loop runs until either an
	// explicit STOP, RETURN or an error occurs.
	for {
		// Get the operation from the jump table and validate the stack to ensure there are
		// enough stack items available to perform the operation.
		op = contract.GetOp(pc)
		operation := in.table[op]
		if operation == nil {
			return nil, &ErrInvalidOpCode{opcode: op}
		}
		// Validate stack
		if !in.cfg.NoStackChecks {
			if sLen := stack.len(); sLen < operation.minStack {
				return nil, &ErrStackUnderflow{stackLen: sLen, required: operation.minStack}
			} else if sLen > operation.maxStack {
				return nil, &ErrStackOverflow{stackLen: sLen, limit: operation.maxStack}
			}
		}
		if in.readOnly && operation.writes {
			return nil, ErrWriteProtection
		}
		// Static portion of gas
		if !in.cfg.NoGasMetering && !contract.UseGas(operation.constantGas) {
			return nil, ErrOutOfGas
		}

		var memorySize uint64
		// Calculate the new memory size and expand the memory to fit the operation.
		// Memory check needs to be done prior to evaluating the dynamic gas portion,
		// to detect calculation overflows
		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			// memory is expanded in words of 32 bytes. Gas is also calculated in words.
			if memorySize, overflow = overflowSafeMul(toWordSize(memSize), 32); overflow {
				return nil, ErrGasUintOverflow
			}
		}
		// Dynamic portion of gas; consume the gas and return an error if not
		// enough gas is available.
		if operation.dynamicGas != nil {
			dynamicCost, err := operation.dynamicGas(in.evm, contract, stack, mem, memorySize)
			if err != nil {
				return nil, ErrOutOfGas
			}
			if !in.cfg.NoGasMetering && !contract.UseGas(dynamicCost) {
				return nil, ErrOutOfGas
			}
		}
		if memorySize > 0 {
			mem.Resize(memorySize)
		}

		// execute the operation
		res, err = operation.execute(&pc, in, callContext)

		if err != nil {
			break
		}
		// if the operation clears the return data (e.g. it has returning data)
		// set the last return to the result of the operation.
		if operation.returns {
			in.returnData = res
		}

		switch {
		case operation.reverts:
			return res, ErrExecutionReverted
		case operation.halts:
			return res, nil
		case !operation.jumps:
			pc++
		}
	}
	return res, err
}

// CanRun tells if the contract, passed as an argument, can be run by the
// current interpreter.
func (in *EVMInterpreter) CanRun(code []byte) bool {
	return true
}
