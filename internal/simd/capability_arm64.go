//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func detectCPU() features {
	return features{asimd: cpu.ARM64.HasASIMD, sve2: cpu.ARM64.HasSVE2}
}
