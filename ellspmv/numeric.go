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

// Numeric is the set of value types the ELL SpMM kernel accepts for
// matrix values, dense input/output values, and the accumulator type.
// The matrix, the dense operands, and the accumulator are each free to
// pick their own Numeric type; toPivot/fromPivot convert between them.
type Numeric interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// Ints is the set of index types accepted for ELL column indices.
type Ints interface {
	~int32 | ~int64
}

// toPivot converts any Numeric value to complex128, the common pivot
// type used to move values between two independently-chosen Numeric
// type parameters without Go generics supporting a direct T1->T2 cast.
func toPivot[T Numeric](v T) complex128 {
	switch x := any(v).(type) {
	case float32:
		return complex(float64(x), 0)
	case float64:
		return complex(x, 0)
	case complex64:
		return complex128(x)
	case complex128:
		return x
	default:
		return 0
	}
}

// fromPivot converts a complex128 pivot value back to a concrete Numeric
// type. Converting to a real type discards the imaginary part, matching
// Go's own complex-to-float conversion rule.
func fromPivot[T Numeric](v complex128) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(float32(real(v))).(T)
	case float64:
		return any(real(v)).(T)
	case complex64:
		return any(complex64(v)).(T)
	case complex128:
		return any(v).(T)
	default:
		return zero
	}
}

// convert converts a value of one Numeric type to another, pivoting
// through complex128. Grounded on the any(x).(type) switch idiom used
// by the teacher's fmaScalar/fmsScalar helpers for cross-type scalar
// arithmetic.
func convert[From, To Numeric](v From) To {
	return fromPivot[To](toPivot(v))
}

// fma computes a*b+c in the accumulator precision AT, converting a and b
// up from their own Numeric types first. Mirrors fmaScalar's per-element
// fused multiply-add, generalized to three independent type parameters.
func fma[A, B, AT Numeric](a A, b B, c AT) AT {
	pa := toPivot(a)
	pb := toPivot(b)
	pc := toPivot(c)
	return fromPivot[AT](pa*pb + pc)
}
