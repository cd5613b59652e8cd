package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISA(t *testing.T) {
	tests := []struct {
		in   string
		want ISA
		ok   bool
	}{
		{"generic", Generic, true},
		{" AVX2 ", AVX2, true},
		{"avx512", AVX512, true},
		{"neon", NEON, true},
		{"sve2", SVE2, true},
		{"mmx", Generic, false},
	}
	for _, tt := range tests {
		got, ok := ParseISA(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestVectorBytes(t *testing.T) {
	assert.Equal(t, 0, Generic.VectorBytes())
	assert.Equal(t, 16, NEON.VectorBytes())
	assert.Equal(t, 32, AVX2.VectorBytes())
	assert.Equal(t, 64, AVX512.VectorBytes())
	assert.Equal(t, ActiveISA().VectorBytes(), VectorBytes())
	assert.Equal(t, "avx2", AVX2.String())
}

func TestResolveISA(t *testing.T) {
	x86 := features{avx2: true, avx512f: true, avx512bw: true}
	arm := features{asimd: true, sve2: true}

	tests := []struct {
		name       string
		f          features
		override   string
		goarch     string
		goos       string
		want       ISA
		overridden bool
	}{
		{"avx512", x86, "", "amd64", "linux", AVX512, false},
		{"avx2 only", features{avx2: true}, "", "amd64", "linux", AVX2, false},
		{"avx512 needs bw", features{avx2: true, avx512f: true}, "", "amd64", "linux", AVX2, false},
		{"sve2", arm, "", "arm64", "linux", SVE2, false},
		{"no sve2 on darwin", arm, "", "arm64", "darwin", NEON, false},
		{"plain cpu", features{}, "", "amd64", "linux", Generic, false},
		{"other arch", x86, "", "riscv64", "linux", Generic, false},
		{"forced generic", x86, "generic", "amd64", "linux", Generic, true},
		{"forced avx2", x86, "AVX2", "amd64", "linux", AVX2, true},
		{"unavailable override", features{avx2: true}, "avx512", "amd64", "linux", AVX2, true},
		{"unknown override", x86, "mmx", "amd64", "linux", AVX512, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, overridden := resolveISA(tt.f, tt.override, tt.goarch, tt.goos)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.overridden, overridden)
		})
	}
}
