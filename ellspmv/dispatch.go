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

import "github.com/go-highway/ellspmv/hwy"

// avx512Available reports whether the AVX-512 single-RHS kernel may run:
// the process-wide dispatch level must be AVX-512 (decided once at
// startup, see hwy/dispatch*.go, matching §9's "dispatch is a static
// property of the build" guidance) and HWY_NO_SIMD must not be set,
// checked live on every call so the escape hatch works without a
// restart.
func avx512Available() bool {
	if hwy.NoSimdEnv() {
		return false
	}
	return hwy.CurrentLevel() == hwy.DispatchAVX512
}

// checkShapes validates the preconditions shared by SpMV and AdvancedSpMV.
// Grounded on matvec.MatVec/MatVec64's panic-on-bad-shape convention.
func checkShapes[MV, IV, OV Numeric, IT Ints](a *ELL[MV, IT], b *Dense[IV], c *Dense[OV]) {
	if a.Cols != b.Rows {
		panic("ellspmv: A.cols does not match B.rows")
	}
	if a.Rows != c.Rows {
		panic("ellspmv: A.rows does not match C.rows")
	}
	if b.Cols != c.Cols {
		panic("ellspmv: B.cols does not match C.cols")
	}
	if a.K > 0 && len(a.Values) < a.Rows+(a.K-1)*a.Stride {
		panic("ellspmv: A.Values too small for Rows/K/Stride")
	}
	if len(a.ColIdxs) != len(a.Values) {
		panic("ellspmv: A.ColIdxs and A.Values length mismatch")
	}
}

// simdEligible reports whether the exact type tuple gated by the AVX-512
// single-RHS kernel applies: (MV, IV, OV, IT) = (float64, float64,
// float64, int32). Any other tuple falls through to the generic scalar
// kernel — not an error, per the dispatcher's type-gating contract.
func simdEligible[MV, IV, OV Numeric, IT Ints]() bool {
	var mv MV
	var iv IV
	var ov OV
	var it IT
	_, mvOK := any(mv).(float64)
	_, ivOK := any(iv).(float64)
	_, ovOK := any(ov).(float64)
	_, itOK := any(it).(int32)
	return mvOK && ivOK && ovOK && itOK
}

// SpMV computes C := A*B for an arbitrary Numeric type tuple and
// accumulator precision AT, with executor parallelism controlled by opts.
func SpMV[MV, IV, OV, AT Numeric, IT Ints](a *ELL[MV, IT], b *Dense[IV], c *Dense[OV], opts ...Option) {
	checkShapes[MV, IV, OV, IT](a, b, c)
	if b.Cols <= 0 {
		return
	}
	out := identityTransform[AT, OV]()
	dispatchKernel[MV, IV, OV, AT, IT](a, b, out, c, opts, true)
}

// AdvancedSpMV computes C := alpha*A*B + beta*C for an arbitrary Numeric
// type tuple and accumulator precision AT.
func AdvancedSpMV[MV, IV, OV, AT Numeric, IT Ints](alpha OV, a *ELL[MV, IT], b *Dense[IV], beta OV, c *Dense[OV], opts ...Option) {
	checkShapes[MV, IV, OV, IT](a, b, c)
	if b.Cols <= 0 {
		return
	}
	out := advancedTransform[AT, OV](alpha, c, beta)
	dispatchKernel[MV, IV, OV, AT, IT](a, b, out, c, opts, false)
}

// dispatchKernel branches by num_rhs (b.Cols) and, for R=1, by the
// AVX-512 type gate. plain is false for AdvancedSpMV call sites: §4.4's
// contract is out=identity, so the SIMD kernel only ever runs for plain
// SpMV and advanced SpMV with R=1 always takes the scalar path.
func dispatchKernel[MV, IV, OV, AT Numeric, IT Ints](
	a *ELL[MV, IT], b *Dense[IV], out outputTransform[AT, OV], c *Dense[OV], opts []Option, plain bool,
) {
	switch {
	case b.Cols == 1 && plain && simdEligible[MV, IV, OV, IT]() && avx512Available():
		parallelRows(a.Rows, opts, func(start, end int) {
			simdSpMV1(
				any(a).(*ELL[float64, int32]),
				any(b).(*Dense[float64]),
				any(c).(*Dense[float64]),
				start, end,
			)
		})
	case b.Cols >= 1 && b.Cols <= 4:
		parallelRows(a.Rows, opts, func(start, end int) {
			spmvSmallRHS[MV, IV, OV, AT, IT](a, b, out, c, start, end)
		})
	default:
		parallelRows(a.Rows, opts, func(start, end int) {
			spmvBlocked[MV, IV, OV, AT, IT](a, b, out, c, start, end)
		})
	}
}

// SpMV64 computes C := A*B with double matrix values, double B/C, and
// 32-bit column indices — the type tuple eligible for the AVX-512
// single-RHS fast path.
func SpMV64(a *ELL[float64, int32], b, c *Dense[float64], opts ...Option) {
	SpMV[float64, float64, float64, float64, int32](a, b, c, opts...)
}

// SpMV64I64 is SpMV64 with 64-bit column indices, which disqualifies the
// AVX-512 fast path per §6's sentinel note.
func SpMV64I64(a *ELL[float64, int64], b, c *Dense[float64], opts ...Option) {
	SpMV[float64, float64, float64, float64, int64](a, b, c, opts...)
}

// SpMV32 computes C := A*B entirely in float32.
func SpMV32(a *ELL[float32, int32], b, c *Dense[float32], opts ...Option) {
	SpMV[float32, float32, float32, float32, int32](a, b, c, opts...)
}

// SpMV32I64 is SpMV32 with 64-bit column indices.
func SpMV32I64(a *ELL[float32, int64], b, c *Dense[float32], opts ...Option) {
	SpMV[float32, float32, float32, float32, int64](a, b, c, opts...)
}

// AdvancedSpMV64 computes C := alpha*A*B + beta*C entirely in float64.
func AdvancedSpMV64(alpha float64, a *ELL[float64, int32], b *Dense[float64], beta float64, c *Dense[float64], opts ...Option) {
	AdvancedSpMV[float64, float64, float64, float64, int32](alpha, a, b, beta, c, opts...)
}

// AdvancedSpMV64I64 is AdvancedSpMV64 with 64-bit column indices.
func AdvancedSpMV64I64(alpha float64, a *ELL[float64, int64], b *Dense[float64], beta float64, c *Dense[float64], opts ...Option) {
	AdvancedSpMV[float64, float64, float64, float64, int64](alpha, a, b, beta, c, opts...)
}

// AdvancedSpMV32 computes C := alpha*A*B + beta*C entirely in float32.
func AdvancedSpMV32(alpha float32, a *ELL[float32, int32], b *Dense[float32], beta float32, c *Dense[float32], opts ...Option) {
	AdvancedSpMV[float32, float32, float32, float32, int32](alpha, a, b, beta, c, opts...)
}

// AdvancedSpMV32I64 is AdvancedSpMV32 with 64-bit column indices.
func AdvancedSpMV32I64(alpha float32, a *ELL[float32, int64], b *Dense[float32], beta float32, c *Dense[float32], opts ...Option) {
	AdvancedSpMV[float32, float32, float32, float32, int64](alpha, a, b, beta, c, opts...)
}
