//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func detectCPU() features {
	return features{
		avx2:     cpu.X86.HasAVX2,
		avx512f:  cpu.X86.HasAVX512F,
		avx512bw: cpu.X86.HasAVX512BW,
	}
}
