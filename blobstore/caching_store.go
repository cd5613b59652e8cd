package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bitagg/internal/cache"
)

const defaultCacheBlockSize = 64 << 10

// CachingStore adds a block-level read cache in front of another store.
// Writes and deletes pass through and invalidate the blob's cached blocks.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore wraps inner. blockSize defaults to 64 KiB if <= 0.
func NewCachingStore(inner BlobStore, c cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = defaultCacheBlockSize
	}
	return &CachingStore{inner: inner, cache: c, blockSize: blockSize}
}

// Open opens a blob whose reads go through the cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, cache: s.cache, name: name, blockSize: s.blockSize}, nil
}

// Create starts a write; cached blocks of the blob are dropped once it is published.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingWriter{WritableBlob: w, cache: s.cache, name: name}, nil
}

// Put writes a blob and invalidates its cached blocks.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	defer cache.InvalidatePath(s.cache, name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob and its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	defer cache.InvalidatePath(s.cache, name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the wrapped store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type invalidatingWriter struct {
	WritableBlob
	cache cache.BlockCache
	name  string
}

func (w *invalidatingWriter) Close() error {
	defer cache.InvalidatePath(w.cache, w.name)
	return w.WritableBlob.Close()
}

type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) key(blk int64) cache.Key {
	return cache.Key{Path: b.name, Offset: uint64(blk)}
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}

	end := min(off+int64(len(p)), size)
	first, last := off/b.blockSize, (end-1)/b.blockSize
	if err := b.fill(ctx, first, last); err != nil {
		return 0, err
	}

	total := 0
	for blk := first; blk <= last; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return total, err
		}
		start := blk * b.blockSize
		lo := max(start, off)
		hi := min(start+int64(len(data)), end)
		if hi <= lo {
			break
		}
		total += copy(p[lo-off:], data[lo-start:hi-start])
	}
	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// fill loads missing blocks of [first, last], one backend read per
// contiguous run.
func (b *cachingBlob) fill(ctx context.Context, first, last int64) error {
	type run struct{ start, count int64 }
	var missing []run
	for blk := first; blk <= last; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			continue
		}
		if n := len(missing); n > 0 && missing[n-1].start+missing[n-1].count == blk {
			missing[n-1].count++
		} else {
			missing = append(missing, run{blk, 1})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, r := range missing {
		g.Go(func() error {
			start := r.start * b.blockSize
			n := min(r.count*b.blockSize, b.Size()-start)
			buf := make([]byte, n)
			got, err := b.inner.ReadAt(gctx, buf, start)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:got]
			for i := int64(0); i < r.count; i++ {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(buf)))
				// Copy so one evicted block does not pin the whole run.
				b.cache.Set(gctx, b.key(r.start+i), append([]byte(nil), buf[lo:hi]...))
			}
			return nil
		})
	}
	return g.Wait()
}

// block returns one block, reading it directly if the cache refused or
// evicted it.
func (b *cachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.cache.Get(ctx, b.key(blk)); ok {
		return data, nil
	}
	start := blk * b.blockSize
	buf := make([]byte, min(b.blockSize, b.Size()-start))
	n, err := b.inner.ReadAt(ctx, buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	buf = buf[:n]
	if n > 0 {
		b.cache.Set(ctx, b.key(blk), buf)
	}
	return buf, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	limit := min(off+length, b.Size())
	return io.NopCloser(&sectionReader{ctx: ctx, blob: b, off: off, limit: limit}), nil
}
