package aggregator

import (
	"fmt"
	"time"

	"github.com/hupe1980/bitagg/bvector"
)

// CombineOrHorizontal sets dst to the union of src using pairwise
// whole-vector operations. It accepts any number of operands.
func (a *Aggregator) CombineOrHorizontal(dst *bvector.BVector, src []*bvector.BVector) (err error) {
	if err := a.checkArgs(OpOr, dst, 0, src); err != nil {
		return err
	}
	defer a.observe(OpOr, len(src), time.Now(), &err)
	return horizontal(OpOr, dst, src, (*bvector.BVector).Or)
}

// CombineAndHorizontal sets dst to the intersection of src using pairwise
// whole-vector operations.
func (a *Aggregator) CombineAndHorizontal(dst *bvector.BVector, src []*bvector.BVector) (err error) {
	if err := a.checkArgs(OpAnd, dst, 0, src); err != nil {
		return err
	}
	defer a.observe(OpAnd, len(src), time.Now(), &err)
	return horizontal(OpAnd, dst, src, (*bvector.BVector).And)
}

// CombineAndSubHorizontal sets dst to the intersection of and minus the
// union of sub using pairwise whole-vector operations.
func (a *Aggregator) CombineAndSubHorizontal(dst *bvector.BVector, and, sub []*bvector.BVector) (err error) {
	if err := a.checkArgs(OpAndSub, dst, 0, and, sub); err != nil {
		return err
	}
	defer a.observe(OpAndSub, len(and)+len(sub), time.Now(), &err)

	if err := horizontal(OpAndSub, dst, and, (*bvector.BVector).And); err != nil {
		return err
	}
	if len(and) == 0 {
		return nil
	}
	for k, v := range sub {
		if err := dst.Sub(v); err != nil {
			return fmt.Errorf("%s: operand %d: %w", OpAndSub, k, err)
		}
	}
	return nil
}

func horizontal(op Op, dst *bvector.BVector, src []*bvector.BVector, fn func(dst, src *bvector.BVector) error) error {
	if len(src) == 0 {
		dst.Clear()
		return nil
	}
	if err := dst.Copy(src[0]); err != nil {
		return fmt.Errorf("%s: operand 0: %w", op, err)
	}
	for k, v := range src[1:] {
		if err := fn(dst, v); err != nil {
			return fmt.Errorf("%s: operand %d: %w", op, k+1, err)
		}
	}
	return nil
}
