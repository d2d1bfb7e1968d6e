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

// Package main reports whether the running machine is eligible for the
// ELL SpMM AVX-512 single-RHS fast path, and prints the dispatch level
// ellspmv chose at startup.
package main

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/go-highway/ellspmv/hwy"
)

func main() {
	fmt.Printf("GOOS: %s\n", runtime.GOOS)
	fmt.Printf("GOARCH: %s\n", runtime.GOARCH)
	fmt.Printf("NumCPU: %d\n", runtime.NumCPU())
	fmt.Println()

	fmt.Printf("ellspmv dispatch level: %s\n", hwy.CurrentLevel())
	fmt.Printf("ellspmv dispatch width: %d bytes\n", hwy.CurrentWidth())
	fmt.Printf("ellspmv dispatch name:  %s\n", hwy.CurrentName())
	fmt.Printf("HWY_NO_SIMD forced scalar mode: %v\n", hwy.NoSimdEnv())
	fmt.Println()

	eligible := printEligibility()

	fmt.Println()
	fmt.Printf("AVX-512 single-RHS fast path eligible: %v\n", eligible)
}

// printEligibility prints only the CPU feature bits the AVX-512
// single-RHS kernel actually depends on (AVX512F for the 512-bit FMA,
// AVX512DQ for the masked gather's 64-bit element ops) and reports
// whether the fast path is reachable on this machine. ARM64 has no
// AVX-512 equivalent to probe for, so it's reported as ineligible
// outright rather than dumping an unrelated NEON/SVE/crypto feature
// list that has nothing to do with this kernel's single specialization.
func printEligibility() bool {
	if runtime.GOARCH != "amd64" {
		fmt.Printf("GOARCH %s has no AVX-512 equivalent; fast path unavailable\n", runtime.GOARCH)
		return false
	}

	fmt.Println("=== golang.org/x/sys/cpu.X86 (fast-path-relevant bits) ===")
	fmt.Printf("  HasAVX512F:  %v (512-bit FMA)\n", cpu.X86.HasAVX512F)
	fmt.Printf("  HasAVX512DQ: %v (masked 64-bit gather)\n", cpu.X86.HasAVX512DQ)

	return cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ && hwy.CurrentLevel() == hwy.DispatchAVX512
}
