// Package hwy carries the CPU-dispatch level that the ellspmv kernels use
// to decide whether the AVX-512 fast path is eligible on the running
// machine. The actual detection logic lives in the build-tag-gated
// dispatch_amd64.go / dispatch_amd64_simd.go / dispatch_other.go files.
package hwy

import (
	"os"
	"strconv"
)

// DispatchLevel identifies the SIMD instruction set level chosen at
// process startup.
type DispatchLevel int

const (
	DispatchScalar DispatchLevel = iota
	DispatchSSE2
	DispatchAVX2
	DispatchAVX512
	DispatchNEON
	DispatchSVE
	DispatchSME
)

func (l DispatchLevel) String() string {
	switch l {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	case DispatchSVE:
		return "sve"
	case DispatchSME:
		return "sme"
	default:
		return "unknown"
	}
}

var (
	currentLevel DispatchLevel
	currentWidth int
	currentName  string
)

// CurrentLevel returns the SIMD dispatch level chosen at process startup.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the native vector width in bytes for the current
// dispatch level.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a short human-readable name for the current
// dispatch level, e.g. "avx512".
func CurrentName() string {
	return currentName
}

// NoSimdEnv reports whether HWY_NO_SIMD is set to a truthy value, forcing
// every kernel onto its scalar path regardless of detected CPU features.
func NoSimdEnv() bool {
	v := os.Getenv("HWY_NO_SIMD")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
