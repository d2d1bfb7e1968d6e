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

import (
	"math"
	"math/rand"
	"testing"
)

func denseFromRows(rows [][]float64) *Dense[float64] {
	cols := len(rows[0])
	d := NewDense[float64](len(rows), cols)
	for i, row := range rows {
		copy(d.Row(i), row)
	}
	return d
}

func identityELL(n int) *ELL[float64, int32] {
	values := make([]float64, n)
	cols := make([]int32, n)
	for i := range values {
		values[i] = 1
		cols[i] = int32(i)
	}
	return &ELL[float64, int32]{Rows: n, Cols: n, K: 1, Stride: n, Values: values, ColIdxs: cols}
}

func assertDenseEqual(t *testing.T, got, want *Dense[float64], tol float64) {
	t.Helper()
	if got.Rows != want.Rows || got.Cols != want.Cols {
		t.Fatalf("shape mismatch: got %dx%d want %dx%d", got.Rows, got.Cols, want.Rows, want.Cols)
	}
	for i := 0; i < got.Rows; i++ {
		for j := 0; j < got.Cols; j++ {
			g, w := got.At(i, j), want.At(i, j)
			if math.Abs(g-w) > tol {
				t.Errorf("C[%d,%d] = %v, want %v", i, j, g, w)
			}
		}
	}
}

// E1: 4x4 identity, C = B.
func TestE1Identity(t *testing.T) {
	a := identityELL(4)
	b := denseFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}})
	c := NewDense[float64](4, 2)
	SpMV64(a, b, c)
	assertDenseEqual(t, c, b, 0)
}

// E2: 3x3 with a padding slot that must be ignored.
func TestE2Padding(t *testing.T) {
	a := &ELL[float64, int32]{
		Rows: 3, Cols: 3, K: 2, Stride: 3,
		ColIdxs: []int32{0, 1, 2, 1, -1, 0},
		Values:  []float64{10, 20, 30, 40, 0, 50},
	}
	b := denseFromRows([][]float64{{1}, {2}, {3}})
	c := NewDense[float64](3, 1)
	SpMV64(a, b, c)
	want := denseFromRows([][]float64{{90}, {40}, {140}})
	assertDenseEqual(t, c, want, 1e-12)
}

// E3: 8x8 diagonal, exercises the AVX-512 single-RHS path when eligible
// and the scalar R=1 path otherwise — both must agree with the reference.
func TestE3DiagonalSIMDPath(t *testing.T) {
	n := 8
	values := make([]float64, n)
	cols := make([]int32, n)
	bvals := make([]float64, n)
	want := make([][]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(i + 1)
		cols[i] = int32(i)
		bvals[i] = float64(i + 1)
		want[i] = []float64{float64((i + 1) * (i + 1))}
	}
	a := &ELL[float64, int32]{Rows: n, Cols: n, K: 1, Stride: n, Values: values, ColIdxs: cols}
	b := denseFromRows(toRows(bvals))
	c := NewDense[float64](n, 1)
	SpMV64(a, b, c)
	assertDenseEqual(t, c, denseFromRows(want), 0)
}

func toRows(v []float64) [][]float64 {
	rows := make([][]float64, len(v))
	for i, x := range v {
		rows[i] = []float64{x}
	}
	return rows
}

// E4: 10x10 diagonal, exercises SIMD rows 0..7 plus a scalar tail 8..9.
func TestE4SIMDWithTail(t *testing.T) {
	n := 10
	values := make([]float64, n)
	cols := make([]int32, n)
	bvals := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(i + 1)
		cols[i] = int32(i)
		bvals[i] = float64(i + 1)
	}
	a := &ELL[float64, int32]{Rows: n, Cols: n, K: 1, Stride: n, Values: values, ColIdxs: cols}
	b := denseFromRows(toRows(bvals))

	simdResult := NewDense[float64](n, 1)
	SpMV64(a, b, simdResult)

	scalarResult := NewDense[float64](n, 1)
	spmvSmallRHSTail[float64, float64, float64, float64, int32](
		a, b, identityTransform[float64, float64](), scalarResult, 0, n,
	)

	assertDenseEqual(t, simdResult, scalarResult, 0)
}

// E5: 4x4 identity with R=7 exercises the blocked multi-RHS dispatch
// (rounded=4, tail columns [4,7)).
func TestE5BlockedRHSDispatch(t *testing.T) {
	a := identityELL(4)
	b := NewDense[float64](4, 7)
	for i := 0; i < 4; i++ {
		for j := 0; j < 7; j++ {
			b.Set(i, j, float64(i*7+j))
		}
	}
	c := NewDense[float64](4, 7)
	SpMV64(a, b, c)
	assertDenseEqual(t, c, b, 0)
}

// E6: advanced SpMV, alpha=2, beta=3, identity A, B=ones, C_prev=ones.
func TestE6AdvancedSpMV(t *testing.T) {
	a := identityELL(4)
	b := denseFromRows([][]float64{{1}, {1}, {1}, {1}})
	c := denseFromRows([][]float64{{1}, {1}, {1}, {1}})
	AdvancedSpMV64(2, a, b, 3, c)
	want := denseFromRows([][]float64{{5}, {5}, {5}, {5}})
	assertDenseEqual(t, c, want, 0)
}

// Property 2: padding independence — replacing the padded value with an
// arbitrary (even non-finite) scalar must not change the result.
func TestPaddingIndependence(t *testing.T) {
	base := &ELL[float64, int32]{
		Rows: 3, Cols: 3, K: 2, Stride: 3,
		ColIdxs: []int32{0, 1, 2, 1, -1, 0},
		Values:  []float64{10, 20, 30, 40, 0, 50},
	}
	b := denseFromRows([][]float64{{1}, {2}, {3}})

	c1 := NewDense[float64](3, 1)
	SpMV64(base, b, c1)

	for _, junk := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -999} {
		variant := &ELL[float64, int32]{
			Rows: 3, Cols: 3, K: 2, Stride: 3,
			ColIdxs: append([]int32{}, base.ColIdxs...),
			Values:  append([]float64{}, base.Values...),
		}
		variant.Values[4] = junk // paired with the INVALID slot
		c2 := NewDense[float64](3, 1)
		SpMV64(variant, b, c2)
		assertDenseEqual(t, c2, c1, 0)
	}
}

// Property 3: linearity in B.
func TestLinearityInB(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := randomSparseELL(rng, 12, 9, 3)
	b1 := randomDense(rng, 9, 2)
	b2 := randomDense(rng, 9, 2)
	lambda, mu := 2.0, -0.5

	c1 := NewDense[float64](12, 2)
	SpMV64(a, b1, c1)
	c2 := NewDense[float64](12, 2)
	SpMV64(a, b2, c2)

	combined := NewDense[float64](9, 2)
	for i := range combined.Values {
		combined.Values[i] = lambda*b1.Values[i] + mu*b2.Values[i]
	}
	got := NewDense[float64](12, 2)
	SpMV64(a, combined, got)

	want := NewDense[float64](12, 2)
	for i := range want.Values {
		want.Values[i] = lambda*c1.Values[i] + mu*c2.Values[i]
	}
	assertDenseEqual(t, got, want, 1e-9)
}

// Property 5: zero matrix.
func TestZeroMatrix(t *testing.T) {
	a := &ELL[float64, int32]{
		Rows: 4, Cols: 4, K: 1, Stride: 4,
		ColIdxs: []int32{-1, -1, -1, -1},
		Values:  []float64{0, 0, 0, 0},
	}
	b := randomDense(rand.New(rand.NewSource(1)), 4, 3)
	c := NewDense[float64](4, 3)
	SpMV64(a, b, c)
	for _, v := range c.Values {
		if v != 0 {
			t.Fatalf("expected zero output, got %v", v)
		}
	}

	cPrev := randomDense(rand.New(rand.NewSource(2)), 4, 3)
	want := NewDense[float64](4, 3)
	copy(want.Values, cPrev.Values)
	for i := range want.Values {
		want.Values[i] *= 3
	}
	AdvancedSpMV64(2, a, b, 3, cPrev)
	assertDenseEqual(t, cPrev, want, 1e-12)
}

// Property 6: R in {1,2,3,4} small-RHS kernel agrees with padding to R=5
// and restricting spmvBlocked's output to the first R columns.
func TestRHSDispatchEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := randomSparseELL(rng, 16, 10, 4)
	for r := 1; r <= 4; r++ {
		b := randomDense(rng, 10, r)
		got := NewDense[float64](16, r)
		SpMV64(a, b, got)

		padded := NewDense[float64](10, 5)
		for i := 0; i < 10; i++ {
			for j := 0; j < r; j++ {
				padded.Set(i, j, b.At(i, j))
			}
		}
		paddedOut := NewDense[float64](16, 5)
		blockedOut := outputTransformIdentityDense(a, padded, paddedOut)

		for i := 0; i < 16; i++ {
			for j := 0; j < r; j++ {
				if math.Abs(got.At(i, j)-blockedOut.At(i, j)) > 1e-9 {
					t.Fatalf("R=%d mismatch at (%d,%d): got %v want %v", r, i, j, got.At(i, j), blockedOut.At(i, j))
				}
			}
		}
	}
}

func outputTransformIdentityDense(a *ELL[float64, int32], b, c *Dense[float64]) *Dense[float64] {
	out := identityTransform[float64, float64]()
	spmvBlocked[float64, float64, float64, float64, int32](a, b, out, c, 0, a.Rows)
	return c
}

// Property 8: thread-count invariance.
func TestThreadCountInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	a := randomSparseELL(rng, 200, 150, 6)
	b := randomDense(rng, 150, 3)

	c1 := NewDense[float64](200, 3)
	SpMV64(a, b, c1, WithWorkers(1))
	c4 := NewDense[float64](200, 3)
	SpMV64(a, b, c4, WithWorkers(4))

	assertDenseEqual(t, c1, c4, 0)
}

func randomSparseELL(rng *rand.Rand, rows, cols, k int) *ELL[float64, int32] {
	values := make([]float64, rows*k)
	colIdxs := make([]int32, rows*k)
	for r := 0; r < rows; r++ {
		seen := map[int32]struct{}{}
		for i := 0; i < k; i++ {
			if cols > 0 && rng.Float64() < 0.9 {
				var col int32
				for {
					col = int32(rng.Intn(cols))
					if _, ok := seen[col]; !ok {
						seen[col] = struct{}{}
						break
					}
				}
				colIdxs[r+i*rows] = col
				values[r+i*rows] = rng.NormFloat64()
			} else {
				colIdxs[r+i*rows] = -1
				values[r+i*rows] = rng.NormFloat64() // padding value must be ignored
			}
		}
	}
	return &ELL[float64, int32]{Rows: rows, Cols: cols, K: k, Stride: rows, Values: values, ColIdxs: colIdxs}
}

func randomDense(rng *rand.Rand, rows, cols int) *Dense[float64] {
	d := NewDense[float64](rows, cols)
	for i := range d.Values {
		d.Values[i] = rng.NormFloat64()
	}
	return d
}

func TestShapeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on shape mismatch")
		}
	}()
	a := identityELL(4)
	b := NewDense[float64](3, 1) // wrong rows
	c := NewDense[float64](4, 1)
	SpMV64(a, b, c)
}

// Property 7: HWY_NO_SIMD=1 forces SpMV64 onto the scalar R=1 path; its
// output must be bit-identical to the AVX-512 kernel's, since both share
// the same summation order over i (0..K-1) and gated type tuple.
func TestHWYNoSimdMatchesSIMDPath(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	a := randomSparseELL(rng, 40, 30, 5)
	b := randomDense(rng, 30, 1)

	want := NewDense[float64](40, 1)
	simdSpMV1(a, b, want, 0, a.Rows)

	t.Setenv("HWY_NO_SIMD", "1")
	got := NewDense[float64](40, 1)
	SpMV64(a, b, got)

	assertDenseEqual(t, got, want, 0)
}

func TestZeroRHSIsNoOp(t *testing.T) {
	a := identityELL(4)
	b := &Dense[float64]{Rows: 4, Cols: 0, Stride: 0, Values: nil}
	c := &Dense[float64]{Rows: 4, Cols: 0, Stride: 0, Values: nil}
	SpMV64(a, b, c) // must not panic, must not write anything
}

// naiveSpMV is an independent reference implementation: a plain triple
// nested loop over (row, slot, rhs) using the same accessors the real
// kernels use, skipping padding slots. It shares no code path with
// kernel_scalar.go, kernel_blocked.go, or kernel_simd_avx512.go.
func naiveSpMV[MV, IV, OV, AT Numeric, IT Ints](a *ELL[MV, IT], b *Dense[IV]) *Dense[OV] {
	c := NewDense[OV](a.Rows, b.Cols)
	for r := 0; r < a.Rows; r++ {
		for j := 0; j < b.Cols; j++ {
			var sum AT
			for i := 0; i < a.K; i++ {
				col := a.ColAt(r, i)
				if col == Invalid[IT]() {
					continue
				}
				val := convert[MV, AT](a.ValueAt(r, i))
				bv := convert[IV, AT](b.At(int(col), j))
				sum = sum + val*bv
			}
			c.Set(r, j, convert[AT, OV](sum))
		}
	}
	return c
}

// Property 1: correctness vs. an independent naive reference, across
// random ELL/dense inputs and RHS counts spanning every dispatch branch.
func TestCorrectnessVsNaiveReference(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for _, rhs := range []int{1, 2, 3, 4, 5, 9} {
		a := randomSparseELL(rng, 37, 25, 6)
		b := randomDense(rng, 25, rhs)

		want := naiveSpMV[float64, float64, float64, float64, int32](a, b)

		got := NewDense[float64](37, rhs)
		SpMV64(a, b, got)

		assertDenseEqual(t, got, want, 1e-9)
	}
}

// Mixed-precision policy: matrix values in float32, input/output/
// accumulator in float64. Exercises the generic SpMV entry point with a
// genuinely mixed type tuple, not just the same-precision convenience
// wrappers.
func TestMixedPrecisionPolicy(t *testing.T) {
	rng := rand.New(rand.NewSource(55))

	a32 := randomSparseELL(rng, 20, 15, 3)
	aMixed := &ELL[float32, int32]{
		Rows: a32.Rows, Cols: a32.Cols, K: a32.K, Stride: a32.Stride,
		ColIdxs: a32.ColIdxs,
		Values:  make([]float32, len(a32.Values)),
	}
	for i, v := range a32.Values {
		aMixed.Values[i] = float32(v)
	}

	b := randomDense(rng, 15, 3)
	c := NewDense[float64](20, 3)
	SpMV[float32, float64, float64, float64, int32](aMixed, b, c)

	want := naiveSpMV[float32, float64, float64, float64, int32](aMixed, b)
	assertDenseEqual(t, c, want, 1e-6)
}

// Float32 round trip: every operand and the accumulator in float32.
func TestFloat32RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(77))

	rows, cols, k := 20, 15, 3
	ref := randomSparseELL(rng, rows, cols, k)
	values := make([]float32, len(ref.Values))
	for i, v := range ref.Values {
		values[i] = float32(v)
	}
	a := &ELL[float32, int32]{Rows: rows, Cols: cols, K: k, Stride: ref.Stride, Values: values, ColIdxs: ref.ColIdxs}

	b := NewDense[float32](cols, 2)
	for i := range b.Values {
		b.Values[i] = float32(rng.NormFloat64())
	}

	c := NewDense[float32](rows, 2)
	SpMV32(a, b, c)

	want := naiveSpMV[float32, float32, float32, float32, int32](a, b)
	for i := 0; i < rows; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(float64(c.At(i, j)-want.At(i, j))) > 1e-3 {
				t.Errorf("C[%d,%d] = %v, want %v", i, j, c.At(i, j), want.At(i, j))
			}
		}
	}
}

// §6: "On 64-bit index builds, the SIMD path is not eligible." SpMV64I64
// must never take the AVX-512 kernel even when every other part of the
// type tuple matches, and its (scalar) output must still agree with
// SpMV64's on the int32-indexed equivalent of the same matrix.
func TestInt64ColumnIndicesDisableSIMDPath(t *testing.T) {
	if simdEligible[float64, float64, float64, int64]() {
		t.Fatal("simdEligible[float64, float64, float64, int64]() = true, want false")
	}
	if !simdEligible[float64, float64, float64, int32]() {
		t.Fatal("simdEligible[float64, float64, float64, int32]() = false, want true")
	}

	rng := rand.New(rand.NewSource(314))
	a32 := randomSparseELL(rng, 33, 21, 4)
	a64 := &ELL[float64, int64]{
		Rows: a32.Rows, Cols: a32.Cols, K: a32.K, Stride: a32.Stride,
		Values:  a32.Values,
		ColIdxs: make([]int64, len(a32.ColIdxs)),
	}
	for i, c := range a32.ColIdxs {
		a64.ColIdxs[i] = int64(c)
	}

	b := randomDense(rng, 21, 1)

	want := NewDense[float64](33, 1)
	SpMV64(a32, b, want)

	got := NewDense[float64](33, 1)
	SpMV64I64(a64, b, got)

	assertDenseEqual(t, got, want, 0)
}
