package cache

import "context"

// Key identifies a cached block: a blob name and a block index within it.
type Key struct {
	Path   string
	Offset uint64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. The cache retains b; callers must not modify it.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Close releases the cached bytes.
	Close() error
	// Stats returns hit and miss counts.
	Stats() (hits, misses int64)
}

// InvalidatePath drops every block of the named blob.
func InvalidatePath(c BlockCache, path string) {
	c.Invalidate(func(k Key) bool { return k.Path == path })
}
