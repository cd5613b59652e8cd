package gap

// Op combines two bit values.
type Op func(x, y bool) bool

// Bit operators usable with Merge.
var (
	OpOr  Op = func(x, y bool) bool { return x || y }
	OpAnd Op = func(x, y bool) bool { return x && y }
	OpSub Op = func(x, y bool) bool { return x && !y }
	OpXor Op = func(x, y bool) bool { return x != y }
)

// Merge combines a and b run by run into dst (reusing its storage) and
// returns the result. The result has at most a.Runs()+b.Runs() runs.
func Merge(a, b Block, op Op, dst []uint16) Block {
	ia, ib := 1, 1
	va, vb := a.First(), b.First()
	cur := op(va, vb)
	dst = append(dst[:0], header(cur))
	for {
		ea, eb := a[ia], b[ib]
		end := min(ea, eb)
		if end == lastBit {
			break
		}
		if ea == end {
			ia++
			va = !va
		}
		if eb == end {
			ib++
			vb = !vb
		}
		if v := op(va, vb); v != cur {
			dst = append(dst, end)
			cur = v
		}
	}
	return append(dst, lastBit)
}

// Or merges a | b into dst.
func Or(a, b Block, dst []uint16) Block { return Merge(a, b, OpOr, dst) }

// And merges a & b into dst.
func And(a, b Block, dst []uint16) Block { return Merge(a, b, OpAnd, dst) }

// Sub merges a &^ b into dst.
func Sub(a, b Block, dst []uint16) Block { return Merge(a, b, OpSub, dst) }

// Xor merges a ^ b into dst.
func Xor(a, b Block, dst []uint16) Block { return Merge(a, b, OpXor, dst) }
