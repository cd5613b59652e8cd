package sparse

import (
	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/bvector"
)

// Scanner runs searches over a Vector's bit-planes.
type Scanner struct {
	agg *aggregator.Aggregator
	all *bvector.BVector
}

// NewScanner creates a scanner that aggregates with agg.
func NewScanner(agg *aggregator.Aggregator) *Scanner {
	return &Scanner{agg: agg}
}

// FindEq sets dst to the positions of sv whose value equals val.
//
// Positions are narrowed by intersecting the planes of the one bits of val
// with the NULL bitmap, then subtracting the planes of its zero bits.
func (s *Scanner) FindEq(sv *Vector, val uint32, dst *bvector.BVector) error {
	if sv.Size() == 0 {
		dst.Clear()
		return nil
	}

	and := make([]*bvector.BVector, 0, Planes+1)
	sub := make([]*bvector.BVector, 0, Planes)

	base, err := s.domain(sv)
	if err != nil {
		return err
	}
	and = append(and, base)

	for k := 0; k < Planes; k++ {
		p := sv.Plane(k)
		if val&(1<<k) != 0 {
			if p == nil {
				dst.Clear()
				return nil
			}
			and = append(and, p)
		} else if p != nil {
			sub = append(sub, p)
		}
	}
	return s.agg.CombineAndSub(dst, and, sub)
}

// FindNull sets dst to the NULL positions of a nullable vector.
func (s *Scanner) FindNull(sv *Vector, dst *bvector.BVector) error {
	if !sv.IsNullable() {
		return ErrNotNullable
	}
	dst.Clear()
	if sv.Size() == 0 {
		return nil
	}
	if err := dst.SetRange(0, uint32(sv.Size()-1)); err != nil {
		return err
	}
	return dst.Sub(sv.NullVector())
}

// domain returns the assigned positions of sv: its NULL bitmap, or
// [0, size) for a vector without NULLs.
func (s *Scanner) domain(sv *Vector) (*bvector.BVector, error) {
	if sv.IsNullable() {
		return sv.NullVector(), nil
	}
	if s.all == nil {
		s.all = bvector.New()
	}
	s.all.Clear()
	if err := s.all.SetRange(0, uint32(sv.Size()-1)); err != nil {
		return nil, err
	}
	return s.all, nil
}
