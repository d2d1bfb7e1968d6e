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

// aView and bView are thin, bounds-check-free translators between raw ELL
// / Dense storage and the working precision AT. They own no memory and
// perform no allocation; callers must already have validated shapes via
// checkSpMVShapes before constructing one.

// aView reads a.Values[idx] promoted to AT.
func aView[MV, AT Numeric](a []MV, idx int) AT {
	return convert[MV, AT](a[idx])
}

// bView reads B[r, j] promoted to AT.
func bView[IV, AT Numeric](b *Dense[IV], r, j int) AT {
	return convert[IV, AT](b.Values[r*b.Stride+j])
}
