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

// outputTransform post-processes one computed cell (r, j, partial) into
// the value written to C[r,j]. It is captured by value and called from
// inside every kernel's inner loop, never through an interface, so the
// compiler can inline it.
type outputTransform[AT, OV Numeric] func(r, j int, partial AT) OV

// identityTransform implements plain SpMV's out(r,j,v) = v.
func identityTransform[AT, OV Numeric]() outputTransform[AT, OV] {
	return func(_, _ int, partial AT) OV {
		return convert[AT, OV](partial)
	}
}

// advancedTransform implements advanced SpMV's out(r,j,v) = α·v + β·C[r,j],
// reading the prior value of C[r,j] before the kernel has written to it.
// Safe without synchronization because each (r,j) is written by exactly
// one worker (see parallel.go).
func advancedTransform[AT, OV Numeric](alpha OV, c *Dense[OV], beta OV) outputTransform[AT, OV] {
	alphaAT := convert[OV, AT](alpha)
	betaAT := convert[OV, AT](beta)
	return func(r, j int, partial AT) OV {
		prev := convert[OV, AT](c.Values[r*c.Stride+j])
		return convert[AT, OV](alphaAT*partial + betaAT*prev)
	}
}
