//go:build amd64 && goexperiment.simd

package hwy

import "simd/archsimd"

// This is the build that actually matters for ellspmv: the SIMD
// single-RHS kernel's build tag requires amd64+goexperiment.simd too, so
// DispatchAVX512 detected here is what flips kernel_simd_avx512.go on at
// dispatch.go's avx512Available() check.

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	detectCPUFeatures()
}

func detectCPUFeatures() {
	// AVX without AVX2, and the absence of AVX entirely, both fall back to
	// SSE2: ellspmv's only non-scalar fast path checks for DispatchAVX512
	// specifically, so there is no second level worth distinguishing below
	// AVX2.
	switch {
	case archsimd.X86.AVX512():
		currentLevel = DispatchAVX512
		currentWidth = 64
		currentName = "avx512"
	case archsimd.X86.AVX2():
		currentLevel = DispatchAVX2
		currentWidth = 32
		currentName = "avx2"
	default:
		currentLevel = DispatchSSE2
		currentWidth = 16
		currentName = "sse2"
	}
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // keep vector width reporting consistent even in scalar mode
	currentName = "scalar"
}
