package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/layout"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Intn returns, as an int, a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Bits returns n random bit indexes in [0, limit), unsorted and possibly repeated.
func (r *RNG) Bits(n int, limit uint32) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(r.rand.Int63n(int64(limit)))
	}
	return out
}

// VectorConfig controls the block mix produced by RNG.Vector. Weights are
// relative; all zero weights select an even mix.
type VectorConfig struct {
	// Blocks is the number of block coordinates populated, starting at 0.
	Blocks int

	// Skip leaves the first Skip coordinates absent.
	Skip int

	AbsentWeight  int
	AllOnesWeight int
	DenseWeight   int
	GapWeight     int

	// Density is the fraction of non-zero words in dense blocks. If 0, 0.3.
	Density float64

	// MaxRuns bounds the number of runs in gap blocks. If 0, 64.
	MaxRuns int
}

// Vector builds a bit-vector whose blocks are drawn from cfg. Its size is the
// end of the last populated coordinate.
func (r *RNG) Vector(cfg VectorConfig) (*bvector.BVector, error) {
	if cfg.AbsentWeight+cfg.AllOnesWeight+cfg.DenseWeight+cfg.GapWeight == 0 {
		cfg.AbsentWeight, cfg.AllOnesWeight, cfg.DenseWeight, cfg.GapWeight = 1, 1, 1, 1
	}
	if cfg.Density == 0 {
		cfg.Density = 0.3
	}
	if cfg.MaxRuns == 0 {
		cfg.MaxRuns = 64
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	end := uint64(cfg.Skip+cfg.Blocks) * layout.BlockBits
	v := bvector.New(bvector.WithSize(end))
	total := cfg.AbsentWeight + cfg.AllOnesWeight + cfg.DenseWeight + cfg.GapWeight
	for nb := cfg.Skip; nb < cfg.Skip+cfg.Blocks; nb++ {
		i, j := nb/layout.SubBlocks, nb%layout.SubBlocks
		pick := r.rand.Intn(total)
		switch {
		case pick < cfg.AbsentWeight:
		case pick < cfg.AbsentWeight+cfg.AllOnesWeight:
			v.SetBlock(i, j, bvector.AllOnes())
		case pick < cfg.AbsentWeight+cfg.AllOnesWeight+cfg.DenseWeight:
			w, err := v.Allocator().AllocDense()
			if err != nil {
				return nil, err
			}
			for k := range w {
				if r.rand.Float64() < cfg.Density {
					w[k] = r.rand.Uint64()
				}
			}
			v.SetBlock(i, j, bvector.Dense(w))
		default:
			v.SetBlock(i, j, bvector.Gap(r.runsLocked(1+r.rand.Intn(cfg.MaxRuns))))
		}
	}
	return v, nil
}

// Runs returns a valid gap block with n run ends before the final one.
func (r *RNG) Runs(n int) gap.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runsLocked(n)
}

func (r *RNG) runsLocked(n int) gap.Block {
	n = min(n, gap.MaxLen-1)
	seen := make(map[uint16]struct{}, n)
	ends := make([]uint16, 0, n)
	for len(ends) < n {
		e := uint16(r.rand.Intn(layout.BlockMask))
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		ends = append(ends, e)
	}
	sort.Slice(ends, func(a, b int) bool { return ends[a] < ends[b] })
	return gap.FromRuns(r.rand.Intn(2) == 1, ends...)
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// ZipfValues generates n values in [0, distinct) with Zipfian skew.
// Low values are the most frequent.
func (r *RNG) ZipfValues(n, distinct int, s float64) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(r.zipfLocked(distinct, s))
	}
	return out
}
