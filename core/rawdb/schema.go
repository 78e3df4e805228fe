// Copyright 2018 The go-ethereum Authors
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

// Package rawdb contains the compilation cache: a persistent key-value store
// tracking execution counts, observed bytecodes and published native artifacts
// per contract code hash.
package rawdb

import "github.com/TevmFoundation/tevm-chain/common"

// Every key is a one-byte column prefix followed by the 32-byte code hash.
var (
	// countPrefix + hash -> big-endian uint64 execution count
	countPrefix = []byte{0x01}
	// bytecodePrefix + hash -> snappy-compressed contract bytecode
	bytecodePrefix = []byte{0x02}
	// labelPrefix + hash -> exported symbol name inside the shared object
	labelPrefix = []byte{0x03}
	// artifactPrefix + hash -> filesystem path of the linked shared object.
	// Written last; its presence is the commit marker for a published artifact.
	artifactPrefix = []byte{0x04}
)

func countKey(hash common.Hash) []byte {
	return append(append([]byte{}, countPrefix...), hash.Bytes()...)
}

func bytecodeKey(hash common.Hash) []byte {
	return append(append([]byte{}, bytecodePrefix...), hash.Bytes()...)
}

func labelKey(hash common.Hash) []byte {
	return append(append([]byte{}, labelPrefix...), hash.Bytes()...)
}

func artifactKey(hash common.Hash) []byte {
	return append(append([]byte{}, artifactPrefix...), hash.Bytes()...)
}

// hashOfKey recovers the code hash from a prefixed key.
func hashOfKey(key []byte) common.Hash {
	return common.BytesToHash(key[1:])
}
