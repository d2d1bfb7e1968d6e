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

// rhsBlockCols is B_col, the RHS-dimension block width used once R is
// large enough that row-blocking stops paying off and RHS-blocking
// takes over instead.
const rhsBlockCols = 4

// spmvBlocked computes rows [rowStart, rowEnd) of C for RHS counts R > 4
// by traversing a sparse row once per RHS block of width rhsBlockCols,
// with a final pass over the remaining columns reusing the same
// accumulator slots. Grounded on matmul_parallel.go's per-row,
// per-column-strip traversal, adapted from dense tiles to ELL rows.
func spmvBlocked[MV, IV, OV, AT Numeric, IT Ints](
	a *ELL[MV, IT], b *Dense[IV], out outputTransform[AT, OV], c *Dense[OV],
	rowStart, rowEnd int,
) {
	rounded := b.Cols / rhsBlockCols * rhsBlockCols
	var acc [rhsBlockCols]AT

	for r := rowStart; r < rowEnd; r++ {
		for base := 0; base < rounded; base += rhsBlockCols {
			acc = [rhsBlockCols]AT{}
			for i := 0; i < a.K; i++ {
				col := a.ColAt(r, i)
				if col == Invalid[IT]() {
					continue
				}
				val := aView[MV, AT](a.Values, r+i*a.Stride)
				for j := 0; j < rhsBlockCols; j++ {
					bv := bView[IV, AT](b, int(col), base+j)
					acc[j] = fma(val, bv, acc[j])
				}
			}
			for j := 0; j < rhsBlockCols; j++ {
				c.Values[r*c.Stride+base+j] = out(r, base+j, acc[j])
			}
		}

		tailWidth := b.Cols - rounded
		if tailWidth == 0 {
			continue
		}
		for j := 0; j < tailWidth; j++ {
			acc[j] = 0
		}
		for i := 0; i < a.K; i++ {
			col := a.ColAt(r, i)
			if col == Invalid[IT]() {
				continue
			}
			val := aView[MV, AT](a.Values, r+i*a.Stride)
			for j := 0; j < tailWidth; j++ {
				bv := bView[IV, AT](b, int(col), rounded+j)
				acc[j] = fma(val, bv, acc[j])
			}
		}
		for j := 0; j < tailWidth; j++ {
			c.Values[r*c.Stride+rounded+j] = out(r, rounded+j, acc[j])
		}
	}
}
