package mem

import (
	"errors"
	"unsafe"
)

// MaxAlignment is the widest supported alignment (AVX-512 register width).
const MaxAlignment = 64

// ErrInvalidAlignment is returned for alignments that are not a power of two
// or exceed MaxAlignment.
var ErrInvalidAlignment = errors.New("mem: invalid alignment")

// AllocAligned allocates a byte slice of the given size whose first byte sits
// on an address divisible by align. An align of 0 or 1 falls back to an
// ordinary allocation.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	if align <= 1 {
		return make([]byte, size), nil
	}
	if align > MaxAlignment || align&(align-1) != 0 {
		return nil, ErrInvalidAlignment
	}

	buf := make([]byte, size+align)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	a := uintptr(align)
	offset := (a - (addr & (a - 1))) & (a - 1)

	return buf[offset : offset+uintptr(size)], nil
}

// AllocAlignedWords allocates n uint64 words aligned to align bytes.
func AllocAlignedWords(n, align int) ([]uint64, error) {
	if n <= 0 {
		return nil, nil
	}
	if align <= 8 {
		return make([]uint64, n), nil
	}
	b, err := AllocAligned(n*8, align)
	if err != nil {
		return nil, err
	}
	ptr := unsafe.Pointer(&b[0])                //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*uint64)(ptr), n), nil //nolint:gosec // unsafe is required for memory alignment
}

// IsAligned reports whether the slice starts on an align-byte boundary.
func IsAligned(words []uint64, align int) bool {
	if len(words) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&words[0]))%uintptr(align) == 0 //nolint:gosec // address inspection only
}
