// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build amd64 && goexperiment.simd

package ellspmv

import "simd/archsimd"

// simdRows is the AVX-512 single-RHS kernel's row-block width: eight
// float64 lanes per 512-bit vector.
const simdRows = 8

// simdSpMV1 computes C[:,0] := A*B[:,0] for rows [rowStart, rowEnd) using
// 8-wide FMA with a masked gather from B, for the gated type tuple
// (float64, float64, float64, int32) and R=1. Grounded on dot_avx512.go's
// BroadcastFloat64x8/LoadFloat64x8Slice/Mul/Add FMA idiom and on
// gather_avx512.go's store/scalar-check/load masked-gather pattern,
// adapted from int64 to int32 column indices.
func simdSpMV1(a *ELL[float64, int32], b *Dense[float64], c *Dense[float64], rowStart, rowEnd int) {
	r := rowStart
	full := rowStart + (rowEnd-rowStart)/simdRows*simdRows

	for ; r < full; r += simdRows {
		partial := archsimd.BroadcastFloat64x8(0)

		for i := 0; i < a.K; i++ {
			rowBase := r + i*a.Stride
			values := archsimd.LoadFloat64x8Slice(a.Values[rowBase:])

			var gathered [simdRows]float64
			for next := 0; next < simdRows; next++ {
				col := a.ColIdxs[rowBase+next]
				// Mask the gather, not the FMA: a padding slot's column
				// index must never be used to address B.
				if col != Invalid[int32]() {
					gathered[next] = b.Values[int(col)*b.Stride]
				}
			}

			gatheredVec := archsimd.LoadFloat64x8Slice(gathered[:])
			partial = values.Mul(gatheredVec).Add(partial)
		}

		var out [simdRows]float64
		partial.StoreSlice(out[:])
		for next := 0; next < simdRows; next++ {
			c.Values[(r+next)*c.Stride] = out[next]
		}
	}

	spmvSmallRHSTail[float64, float64, float64, float64, int32](
		a, b, identityTransform[float64, float64](), c, r, rowEnd,
	)
}
