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

// ELL is a row-major ELLPACK sparse matrix: every row stores exactly K
// nonzero slots, padded with Invalid[IT]() column indices where a row has
// fewer than K real entries. Values and ColIdxs are both length
// Rows*Stride, addressed as row r, slot i via r + i*Stride (column-major
// slot layout, matching the reference ELLPACK storage convention).
type ELL[MV Numeric, IT Ints] struct {
	Rows, Cols int
	K          int // num_stored_elements_per_row
	Stride     int
	Values     []MV
	ColIdxs    []IT
}

// Invalid is the sentinel column index marking an unused ELL slot.
func Invalid[IT Ints]() IT {
	return IT(-1)
}

// ValueAt returns the stored value at row r, slot i.
func (a *ELL[MV, IT]) ValueAt(r, i int) MV {
	return a.Values[r+i*a.Stride]
}

// ColAt returns the column index at row r, slot i. It is Invalid[IT]()
// when the slot is unused padding.
func (a *ELL[MV, IT]) ColAt(r, i int) IT {
	return a.ColIdxs[r+i*a.Stride]
}

// Dense is a row-major dense matrix with Rows*Stride backing storage,
// Stride >= Cols allowing for padded/aligned rows.
type Dense[T Numeric] struct {
	Rows, Cols int
	Stride     int
	Values     []T
}

// NewDense allocates a Dense matrix with Stride == Cols.
func NewDense[T Numeric](rows, cols int) *Dense[T] {
	return &Dense[T]{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Values: make([]T, rows*cols),
	}
}

// At returns the value at row i, column j.
func (d *Dense[T]) At(i, j int) T {
	return d.Values[i*d.Stride+j]
}

// Set assigns the value at row i, column j.
func (d *Dense[T]) Set(i, j int, v T) {
	d.Values[i*d.Stride+j] = v
}

// Row returns the backing slice for row i, of length at least d.Cols.
func (d *Dense[T]) Row(i int) []T {
	start := i * d.Stride
	return d.Values[start : start+d.Cols]
}
