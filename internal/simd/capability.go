package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA represents a SIMD instruction set architecture.
type ISA uint8

const (
	// Generic represents pure Go kernels without a preferred vector width.
	Generic ISA = iota
	// NEON represents ARM64 NEON (128-bit registers).
	NEON
	// SVE2 represents ARM64 SVE2 (scalable vectors, 128-bit minimum).
	SVE2
	// AVX2 represents x86-64 AVX2 (256-bit registers).
	AVX2
	// AVX512 represents x86-64 AVX-512 (512-bit registers).
	AVX512
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// VectorBytes returns the register width of the ISA in bytes, or 0 for Generic.
func (i ISA) VectorBytes() int {
	switch i {
	case NEON, SVE2:
		return 16
	case AVX2:
		return 32
	case AVX512:
		return 64
	default:
		return 0
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "neon":
		return NEON, true
	case "sve2":
		return SVE2, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	default:
		return Generic, false
	}
}

// features holds the CPU extensions that decide the scratch alignment.
type features struct {
	asimd    bool
	sve2     bool
	avx2     bool
	avx512f  bool
	avx512bw bool
}

func (f features) has(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return f.asimd
	case SVE2:
		return f.sve2
	case AVX2:
		return f.avx2
	case AVX512:
		return f.avx512f && f.avx512bw
	default:
		return false
	}
}

// best picks the widest ISA f supports on goarch. SVE2 is not used on darwin.
func (f features) best(goarch, goos string) ISA {
	switch goarch {
	case "arm64":
		if f.sve2 && goos != "darwin" {
			return SVE2
		}
		if f.asimd {
			return NEON
		}
	case "amd64":
		if f.has(AVX512) {
			return AVX512
		}
		if f.avx2 {
			return AVX2
		}
	}
	return Generic
}

// Set once at init.
var (
	cpuFeatures features
	activeISA   ISA
	hasOverride bool
)

func init() {
	cpuFeatures = detectCPU()
	activeISA, hasOverride = resolveISA(cpuFeatures, os.Getenv("BITAGG_SIMD"), runtime.GOARCH, runtime.GOOS)
}

// resolveISA applies an override when it names an available ISA and falls
// back to the best detected one otherwise. The boolean reports whether the
// override parsed.
func resolveISA(f features, override, goarch, goos string) (ISA, bool) {
	if override != "" {
		if isa, ok := ParseISA(override); ok {
			if f.has(isa) {
				return isa, true
			}
			return f.best(goarch, goos), true
		}
	}
	return f.best(goarch, goos), false
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// VectorBytes returns the register width of the active ISA in bytes.
// Scratch buffers are aligned to this width; 0 means no special alignment.
func VectorBytes() int {
	return activeISA.VectorBytes()
}

// IsOverridden returns true if BITAGG_SIMD was set.
func IsOverridden() bool {
	return hasOverride
}

// HasASIMD returns true if ARM64 NEON is available.
func HasASIMD() bool { return cpuFeatures.asimd }

// HasSVE2 returns true if ARM64 SVE2 is available.
func HasSVE2() bool { return cpuFeatures.sve2 }

// HasAVX2 returns true if x86-64 AVX2 is available.
func HasAVX2() bool { return cpuFeatures.avx2 }

// HasAVX512 returns true if x86-64 AVX-512 (F+BW) is available.
func HasAVX512() bool { return cpuFeatures.has(AVX512) }
