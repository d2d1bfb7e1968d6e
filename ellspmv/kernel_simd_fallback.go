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

//go:build !amd64 || !goexperiment.simd

package ellspmv

// simdSpMV1 is never reached on this build: avx512Available() always
// reports false outside amd64+GOEXPERIMENT=simd builds, so dispatchKernel
// never calls it. It still needs a body so the package builds without
// the experiment enabled.
func simdSpMV1(a *ELL[float64, int32], b *Dense[float64], c *Dense[float64], rowStart, rowEnd int) {
	spmvSmallRHSTail[float64, float64, float64, float64, int32](
		a, b, identityTransform[float64, float64](), c, rowStart, rowEnd,
	)
}
