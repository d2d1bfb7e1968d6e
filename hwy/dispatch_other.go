//go:build !amd64

package hwy

func init() {
	// Non-amd64 architectures (including arm64) fall back to scalar mode.
	// The ELL SpMM kernel's only SIMD specialization targets AVX-512; every
	// other platform runs the portable scalar/blocked kernels, which are
	// correct everywhere, just not vector-accelerated.
	currentLevel = DispatchScalar
	currentWidth = 16 // Use 16-byte vectors even in scalar mode for consistency
	currentName = "scalar"
}
