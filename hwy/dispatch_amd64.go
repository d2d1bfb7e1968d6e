//go:build amd64 && !goexperiment.simd

package hwy

// This build lacks simd/archsimd, so there is no way to probe for AVX-512
// at runtime. ellspmv's SIMD single-RHS kernel is gated on
// DispatchAVX512 specifically (see kernel_simd_avx512.go's build tag,
// which also requires goexperiment.simd), so reporting SSE2 here is
// enough to keep the kernel dispatcher on the portable scalar/blocked
// path without misreporting a level we can't actually confirm. Rebuild
// with GOEXPERIMENT=simd to make the AVX-512 fast path reachable.

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	detectCPUFeatures()
}

func detectCPUFeatures() {
	// SSE2 is baseline for every amd64 CPU; without archsimd there is no
	// cheap way to tell AVX2/AVX-512 apart, and the SIMD kernel only ever
	// checks for DispatchAVX512 anyway, so SSE2 is a safe, conservative
	// default that never falsely enables a fast path this build can't run.
	currentLevel = DispatchSSE2
	currentWidth = 16
	currentName = "sse2"
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // keep vector width reporting consistent even in scalar mode
	currentName = "scalar"
}
