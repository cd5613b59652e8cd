// Package mmap maps files read-only into memory.
//
// LocalStore uses it to hand serialized bit-vectors to the decoder without
// copying them through a read buffer:
//
//	m, err := mmap.Open("vectors/a.bv")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix platforms use mmap(2) and madvise(2) through golang.org/x/sys/unix.
// Windows uses CreateFileMapping/MapViewOfFile; Advise is a no-op there.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but slices
// obtained from Bytes must not be used after it returns.
package mmap
