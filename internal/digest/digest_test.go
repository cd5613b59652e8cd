package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/bitagg/internal/layout"
)

func TestCalc(t *testing.T) {
	var blk layout.Words
	assert.Zero(t, Calc(&blk))

	blk[0] = 1
	blk[layout.SegmentWords*5+3] = 1 << 40
	blk[layout.BlockWords-1] = 1 << 63
	assert.Equal(t, uint64(1)|1<<5|1<<63, Calc(&blk))

	assert.Equal(t, Full, Calc(&layout.AllOnesWords))
}

func TestUpdate(t *testing.T) {
	var blk layout.Words
	blk[0] = 1
	blk[layout.SegmentWords*7] = 1

	d := Calc(&blk)
	blk[0] = 0
	assert.Equal(t, uint64(1)<<7, Update(&blk, d))

	blk[layout.SegmentWords*7] = 0
	assert.Zero(t, Update(&blk, d))
}

func TestUpdateOnlyChecksMarkedSegments(t *testing.T) {
	var blk layout.Words
	blk[layout.SegmentWords*3] = 1
	assert.Zero(t, Update(&blk, 1<<2))
}

func TestSegmentRange(t *testing.T) {
	tests := []struct {
		from, to uint16
		want     uint64
	}{
		{0, 0, 1},
		{0, 1023, 1},
		{0, 1024, 3},
		{1024, 2047, 2},
		{1000, 5000, 0x1F},
		{0, 65535, Full},
		{65535, 65535, 1 << 63},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentRange(tt.from, tt.to), "[%d,%d]", tt.from, tt.to)
	}
}

func TestZero(t *testing.T) {
	blk := layout.AllOnesWords
	Zero(&blk, 1|1<<63)
	assert.Equal(t, Full&^(1|1<<63), Calc(&blk))
}
