// Copyright 2024 The go-ethereum Authors
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

import "github.com/TevmFoundation/tevm-chain/compress/fastlz"

// Parameters of the published L1 data cost regression. The estimated
// compressed size of a transaction is a linear function of its FastLZ
// compressed length, scaled by 1e6 and clamped below.
const (
	minTransactionSize       = int64(100)
	estimationScalar         = int64(1e6)
	fastlzCoef               = int64(836_500)
	costIntercept            = int64(-42_585_600)
	minTransactionSizeScaled = minTransactionSize * estimationScalar
)

// EstimatedCompressedSize returns the modeled DA footprint of a serialized
// transaction in bytes, scaled by 1e6. It must agree with the on-chain cost
// function, which is why the FastLZ length below is bit-exact with the
// reference encoder.
func EstimatedCompressedSize(txBytes []byte) uint64 {
	fastlzSize := int64(fastlz.CompressLen(txBytes))
	estimated := costIntercept + fastlzCoef*fastlzSize
	if estimated < minTransactionSizeScaled {
		estimated = minTransactionSizeScaled
	}
	return uint64(estimated)
}

// RollupDataGas converts the size estimate into the L1 calldata gas charge
// at sixteen gas per byte.
func RollupDataGas(txBytes []byte) uint64 {
	return EstimatedCompressedSize(txBytes) * 16 / uint64(estimationScalar)
}
