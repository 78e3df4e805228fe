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
	"fmt"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/types/evmpb"
	"github.com/golang/protobuf/proto"
	"github.com/holiman/uint256"
)

// DecodeError wraps a failure to decode a host-provided view.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeBlockEnv parses a protobuf-encoded block environment.
func DecodeBlockEnv(data []byte) (*BlockEnv, error) {
	var pb evmpb.Block
	if err := proto.Unmarshal(data, &pb); err != nil {
		return nil, &DecodeError{What: "block env", Err: err}
	}
	env := &BlockEnv{
		Number:        new(uint256.Int).SetBytes(pb.GetNumber()),
		Coinbase:      common.BytesToAddress(pb.GetCoinbase()),
		Timestamp:     new(uint256.Int).SetBytes(pb.GetTimestamp()),
		GasLimit:      new(uint256.Int).SetBytes(pb.GetGasLimit()),
		BaseFee:       new(uint256.Int).SetBytes(pb.GetBasefee()),
		Difficulty:    new(uint256.Int).SetBytes(pb.GetDifficulty()),
		ExcessBlobGas: pb.GetExcessBlobGas(),
	}
	if randao := common.BytesToHash(pb.GetPrevrandao()); !randao.IsZero() {
		env.PrevRandao = &randao
	}
	return env, nil
}

// DecodeTxEnv parses a protobuf-encoded transaction environment.
func DecodeTxEnv(data []byte) (*TxEnv, error) {
	var pb evmpb.Transaction
	if err := proto.Unmarshal(data, &pb); err != nil {
		return nil, &DecodeError{What: "tx env", Err: err}
	}
	env := &TxEnv{
		Caller:   common.BytesToAddress(pb.GetCaller()),
		Value:    new(uint256.Int).SetBytes(pb.GetValue()),
		Data:     common.CopyBytes(pb.GetData()),
		GasLimit: pb.GetGasLimit(),
		GasPrice: new(uint256.Int).SetBytes(pb.GetGasPrice()),
		Nonce:    pb.GetNonce(),
	}
	if to := pb.GetTo(); len(to) > 0 {
		addr := common.BytesToAddress(to)
		env.To = &addr
	}
	return env, nil
}

// EncodeResult serializes an execution result into its wire envelope.
func EncodeResult(res *ExecutionResult) ([]byte, error) {
	pb := &evmpb.EvmResult{}
	switch res.Kind {
	case ResultSuccess:
		pb.Success = &evmpb.Success{
			Reason:      evmpb.SuccessReason(res.Reason),
			GasUsed:     res.GasUsed,
			GasRefunded: res.GasRefunded,
			Logs:        encodeLogs(res.Logs),
			Output:      encodeOutput(res),
		}
	case ResultRevert:
		pb.Revert = &evmpb.Revert{
			GasUsed: res.GasUsed,
			Output:  res.Output,
		}
	case ResultHalt:
		pb.Halt = &evmpb.Halt{
			Reason:  evmpb.HaltReason(res.HaltReason),
			GasUsed: res.GasUsed,
		}
	default:
		return nil, fmt.Errorf("unknown result kind %d", res.Kind)
	}
	return proto.Marshal(pb)
}

// DecodeResult parses a wire envelope back into an execution result. The
// tests use it to compare tiered and interpreted outcomes.
func DecodeResult(data []byte) (*ExecutionResult, error) {
	var pb evmpb.EvmResult
	if err := proto.Unmarshal(data, &pb); err != nil {
		return nil, &DecodeError{What: "evm result", Err: err}
	}
	switch {
	case pb.GetSuccess() != nil:
		s := pb.GetSuccess()
		res := &ExecutionResult{
			Kind:        ResultSuccess,
			Reason:      SuccessReason(s.GetReason()),
			GasUsed:     s.GetGasUsed(),
			GasRefunded: s.GetGasRefunded(),
			Logs:        decodeLogs(s.GetLogs()),
		}
		if out := s.GetOutput(); out != nil {
			if call := out.GetCall(); call != nil {
				res.Output = call.GetCall()
			}
			if create := out.GetCreate(); create != nil {
				res.Output = create.GetCreate()
				addr := common.BytesToAddress(create.GetCreatedAddress())
				res.CreatedAddress = &addr
			}
		}
		return res, nil
	case pb.GetRevert() != nil:
		return &ExecutionResult{
			Kind:    ResultRevert,
			GasUsed: pb.GetRevert().GetGasUsed(),
			Output:  pb.GetRevert().GetOutput(),
		}, nil
	case pb.GetHalt() != nil:
		return &ExecutionResult{
			Kind:       ResultHalt,
			HaltReason: HaltReason(pb.GetHalt().GetReason()),
			GasUsed:    pb.GetHalt().GetGasUsed(),
		}, nil
	}
	return nil, &DecodeError{What: "evm result", Err: fmt.Errorf("empty envelope")}
}

func encodeLogs(logs []*Log) []*evmpb.Log {
	out := make([]*evmpb.Log, 0, len(logs))
	for _, l := range logs {
		topics := make([]*evmpb.Topic, 0, len(l.Topics))
		for _, t := range l.Topics {
			topics = append(topics, &evmpb.Topic{Value: t.Bytes()})
		}
		out = append(out, &evmpb.Log{
			Address: l.Address.Bytes(),
			Data:    &evmpb.LogData{Topics: topics, Data: l.Data},
		})
	}
	return out
}

func decodeLogs(logs []*evmpb.Log) []*Log {
	out := make([]*Log, 0, len(logs))
	for _, l := range logs {
		log := &Log{Address: common.BytesToAddress(l.GetAddress())}
		if data := l.GetData(); data != nil {
			log.Data = data.GetData()
			for _, t := range data.GetTopics() {
				log.Topics = append(log.Topics, common.BytesToHash(t.GetValue()))
			}
		}
		out = append(out, log)
	}
	return out
}

func encodeOutput(res *ExecutionResult) *evmpb.Output {
	if res.CreatedAddress != nil {
		return &evmpb.Output{Create: &evmpb.Create{
			Create:         res.Output,
			CreatedAddress: res.CreatedAddress.Bytes(),
		}}
	}
	return &evmpb.Output{Call: &evmpb.Call{Call: res.Output}}
}
