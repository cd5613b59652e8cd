package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"single bit", 5, 5},
		{"within word", 3, 60},
		{"word boundary", 63, 64},
		{"full words", 64, 255},
		{"spanning", 10, 700},
		{"last bit", 1023, 1023},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := make([]uint64, 16)
			SetBitRange(words, tt.from, tt.to)
			for i := 0; i < 16*64; i++ {
				set := words[i>>6]&(1<<(uint(i)&63)) != 0
				assert.Equal(t, i >= tt.from && i <= tt.to, set, "bit %d", i)
			}

			Fill(words, ^uint64(0))
			ClearBitRange(words, tt.from, tt.to)
			for i := 0; i < 16*64; i++ {
				set := words[i>>6]&(1<<(uint(i)&63)) != 0
				assert.Equal(t, i < tt.from || i > tt.to, set, "bit %d", i)
			}
		})
	}
}

func TestBitRangeEmpty(t *testing.T) {
	words := make([]uint64, 2)
	SetBitRange(words, 10, 9)
	assert.True(t, IsAllZero(words))
}
