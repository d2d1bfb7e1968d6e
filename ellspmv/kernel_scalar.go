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

package ellspmv

// blockRows is V, the row-block width used by the small-RHS scalar
// kernel and the SIMD kernel's scalar tail.
const blockRows = 4

// spmvSmallRHS computes rows [rowStart, rowEnd) of C for RHS count
// R in {1,2,3,4} by row-blocks of size blockRows, with a scalar tail
// for rows that don't fill a full block. Grounded on matvec_scalar.go's
// row-accumulation loop, generalized from a single dot product per row
// to R simultaneous dot products sharing the same sparse row.
func spmvSmallRHS[MV, IV, OV, AT Numeric, IT Ints](
	a *ELL[MV, IT], b *Dense[IV], out outputTransform[AT, OV], c *Dense[OV],
	rowStart, rowEnd int,
) {
	r := rowStart
	full := rowStart + (rowEnd-rowStart)/blockRows*blockRows

	var partial [blockRows * 4]AT // V * maxRHS(4), stack-local, no allocation

	for ; r < full; r += blockRows {
		for i := range partial {
			partial[i] = 0
		}
		for i := 0; i < a.K; i++ {
			for next := 0; next < blockRows; next++ {
				row := r + next
				col := a.ColAt(row, i)
				if col == Invalid[IT]() {
					continue
				}
				val := aView[MV, AT](a.Values, row+i*a.Stride)
				for j := 0; j < b.Cols; j++ {
					bv := bView[IV, AT](b, int(col), j)
					partial[next*b.Cols+j] = fma(val, bv, partial[next*b.Cols+j])
				}
			}
		}
		for next := 0; next < blockRows; next++ {
			row := r + next
			for j := 0; j < b.Cols; j++ {
				c.Values[row*c.Stride+j] = out(row, j, partial[next*b.Cols+j])
			}
		}
	}

	spmvSmallRHSTail[MV, IV, OV, AT, IT](a, b, out, c, r, rowEnd)
}

// spmvSmallRHSTail processes rows [rowStart, rowEnd) one at a time,
// with the same masking semantics as the vectorized block above.
func spmvSmallRHSTail[MV, IV, OV, AT Numeric, IT Ints](
	a *ELL[MV, IT], b *Dense[IV], out outputTransform[AT, OV], c *Dense[OV],
	rowStart, rowEnd int,
) {
	var partial [4]AT
	for row := rowStart; row < rowEnd; row++ {
		for j := range partial[:b.Cols] {
			partial[j] = 0
		}
		for i := 0; i < a.K; i++ {
			col := a.ColAt(row, i)
			if col == Invalid[IT]() {
				continue
			}
			val := aView[MV, AT](a.Values, row+i*a.Stride)
			for j := 0; j < b.Cols; j++ {
				bv := bView[IV, AT](b, int(col), j)
				partial[j] = fma(val, bv, partial[j])
			}
		}
		for j := 0; j < b.Cols; j++ {
			c.Values[row*c.Stride+j] = out(row, j, partial[j])
		}
	}
}
