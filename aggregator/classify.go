package aggregator

import (
	"fmt"

	"github.com/hupe1980/bitagg/bvector"
)

// outcome is the result class of one block coordinate.
type outcome uint8

const (
	outcomeEmpty outcome = iota
	outcomeAllOnes
	outcomePartial
)

// classifyOr buckets the operand blocks at (i, j) for a union. Any AllOnes
// block decides the coordinate.
func (ar *arena) classifyOr(src []*bvector.BVector, i, j int) (outcome, error) {
	ar.reset()
	for _, v := range src {
		b := v.Block(i, j)
		switch b.Kind() {
		case bvector.KindAbsent:
			continue
		case bvector.KindAllOnes:
			ar.reset()
			return outcomeAllOnes, nil
		}
		if err := ar.bucket(b); err != nil {
			return outcomeEmpty, err
		}
	}
	if len(ar.dense) == 0 && len(ar.gaps) == 0 {
		return outcomeEmpty, nil
	}
	return outcomePartial, nil
}

// classifyAnd buckets the operand blocks at (i, j) for an intersection. Any
// Absent block decides the coordinate; AllOnes blocks are the identity and
// are not bucketed.
func (ar *arena) classifyAnd(src []*bvector.BVector, i, j int) (outcome, error) {
	ar.reset()
	for _, v := range src {
		b := v.Block(i, j)
		switch b.Kind() {
		case bvector.KindAbsent:
			ar.reset()
			return outcomeEmpty, nil
		case bvector.KindAllOnes:
			continue
		}
		if err := ar.bucket(b); err != nil {
			return outcomeEmpty, err
		}
	}
	if len(ar.dense) == 0 && len(ar.gaps) == 0 {
		return outcomeAllOnes, nil
	}
	return outcomePartial, nil
}

func (ar *arena) bucket(b bvector.Block) error {
	switch b.Kind() {
	case bvector.KindDense:
		if len(ar.dense) == cap(ar.dense) {
			return fmt.Errorf("%w: dense operand array full", ErrRange)
		}
		ar.dense = append(ar.dense, b.Words())
	case bvector.KindGap:
		if len(ar.gaps) == cap(ar.gaps) {
			return fmt.Errorf("%w: gap operand array full", ErrRange)
		}
		ar.gaps = append(ar.gaps, b.Runs())
	}
	return nil
}
