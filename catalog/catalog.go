package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/blobstore"
	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/resource"
	"github.com/hupe1980/bitagg/serial"
)

const (
	rootPrefix  = "vectors/"
	pointerName = "CURRENT"
	blobSuffix  = ".bv"
	maxNameLen  = 200

	defaultLoadConcurrency = 8
	loadRetries            = 3
)

var (
	// ErrNotFound is returned for names without a saved vector.
	ErrNotFound = errors.New("catalog: vector not found")

	// ErrInvalidName is returned for names outside [A-Za-z0-9._-].
	ErrInvalidName = errors.New("catalog: invalid vector name")
)

// Catalog stores named bit-vectors.
type Catalog struct {
	store           blobstore.BlobStore
	rc              *resource.Controller
	pool            *aggregator.Pool
	logger          *slog.Logger
	serialOpts      []serial.Option
	alloc           bvector.Allocator
	loadConcurrency int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithResourceController rate limits blob IO and bounds the aggregators'
// memory with rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *Catalog) { c.rc = rc }
}

// WithLogger sets the logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCompression sets the frame compression of saved vectors.
func WithCompression(comp serial.Compression) Option {
	return func(c *Catalog) { c.serialOpts = append(c.serialOpts, serial.WithCompression(comp)) }
}

// WithAllocator sets the dense block allocator of loaded vectors.
func WithAllocator(a bvector.Allocator) Option {
	return func(c *Catalog) { c.alloc = a }
}

// WithAggregatorPool shares an aggregator pool with other components.
func WithAggregatorPool(p *aggregator.Pool) Option {
	return func(c *Catalog) { c.pool = p }
}

// WithLoadConcurrency bounds the parallel loads of one aggregation.
func WithLoadConcurrency(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.loadConcurrency = n
		}
	}
}

// New creates a catalog over store.
func New(store blobstore.BlobStore, opts ...Option) *Catalog {
	c := &Catalog{
		store:           store,
		logger:          slog.New(slog.DiscardHandler),
		loadConcurrency: defaultLoadConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = aggregator.NewPool(
			aggregator.WithResourceController(c.rc),
			aggregator.WithLogger(c.logger),
		)
	}
	return c
}

// Store returns the underlying blob store.
func (c *Catalog) Store() blobstore.BlobStore { return c.store }

func validName(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > maxNameLen {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func checkName(name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func pointerBlob(name string) string {
	return rootPrefix + name + "/" + pointerName
}

func dataBlob(name string, gen uint64) string {
	return fmt.Sprintf("%s%s/%020d%s", rootPrefix, name, gen, blobSuffix)
}

// generation returns the committed generation of name, 0 if none.
func (c *Catalog) generation(ctx context.Context, name string) (uint64, error) {
	b, err := c.store.Open(ctx, pointerBlob(name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	defer b.Close()

	data, err := io.ReadAll(blobstore.NewReader(ctx, b))
	if err != nil {
		return 0, err
	}
	gen, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s: bad pointer %q", name, data)
	}
	return gen, nil
}

// Save stores v under name, replacing any previous vector.
func (c *Catalog) Save(ctx context.Context, name string, v *bvector.BVector) error {
	if err := checkName(name); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("catalog: save %s: %w", name, aggregator.ErrNilVector)
	}
	prev, err := c.generation(ctx, name)
	if err != nil {
		return err
	}
	gen := prev + 1
	blob := dataBlob(name, gen)

	w, err := c.store.Create(ctx, blob)
	if err != nil {
		return fmt.Errorf("catalog: save %s: %w", name, err)
	}
	n, err := serial.Write(resource.NewRateLimitedWriter(ctx, w, c.rc), v, c.serialOpts...)
	if err != nil {
		_ = w.Close()
		_ = c.store.Delete(ctx, blob)
		return fmt.Errorf("catalog: save %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("catalog: save %s: %w", name, err)
	}

	if err := c.store.Put(ctx, pointerBlob(name), []byte(strconv.FormatUint(gen, 10))); err != nil {
		_ = c.store.Delete(ctx, blob)
		return fmt.Errorf("catalog: commit %s: %w", name, err)
	}

	if prev > 0 {
		if err := c.store.Delete(ctx, dataBlob(name, prev)); err != nil {
			c.logger.Warn("catalog: drop previous generation", "name", name, "generation", prev, "error", err)
		}
	}
	c.logger.Debug("catalog: saved", "name", name, "generation", gen, "bytes", n)
	return nil
}

// Load reads the current vector stored under name.
func (c *Catalog) Load(ctx context.Context, name string) (*bvector.BVector, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var lastErr error
	for range loadRetries {
		gen, err := c.generation(ctx, name)
		if err != nil {
			return nil, err
		}
		if gen == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		v, err := c.loadGeneration(ctx, name, gen)
		if err == nil {
			return v, nil
		}
		// A concurrent Save may have dropped the generation we resolved.
		if !errors.Is(err, blobstore.ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("catalog: load %s: %w", name, lastErr)
}

func (c *Catalog) loadGeneration(ctx context.Context, name string, gen uint64) (*bvector.BVector, error) {
	b, err := c.store.Open(ctx, dataBlob(name, gen))
	if err != nil {
		return nil, err
	}
	defer b.Close()

	var opts []bvector.Option
	if c.alloc != nil {
		opts = append(opts, bvector.WithAllocator(c.alloc))
	}

	var v *bvector.BVector
	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		if err := c.rc.AcquireIO(ctx, len(data)); err != nil {
			return nil, err
		}
		v, err = serial.Unmarshal(data, opts...)
		if err != nil {
			return nil, fmt.Errorf("catalog: load %s: %w", name, err)
		}
	} else {
		v, err = serial.Read(resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, b), c.rc), opts...)
		if err != nil {
			return nil, fmt.Errorf("catalog: load %s: %w", name, err)
		}
	}
	c.logger.Debug("catalog: loaded", "name", name, "generation", gen, "bytes", b.Size())
	return v, nil
}

// Delete removes the vector stored under name and all its generations.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, pointerBlob(name)); err != nil {
		return fmt.Errorf("catalog: delete %s: %w", name, err)
	}
	blobs, err := c.store.List(ctx, rootPrefix+name+"/")
	if err != nil {
		return err
	}
	for _, blob := range blobs {
		if err := c.store.Delete(ctx, blob); err != nil {
			return fmt.Errorf("catalog: delete %s: %w", name, err)
		}
	}
	return nil
}

// List returns the sorted names of stored vectors.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	blobs, err := c.store.List(ctx, rootPrefix)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, blob := range blobs {
		name, _, ok := strings.Cut(strings.TrimPrefix(blob, rootPrefix), "/")
		if !ok || !validName(name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// LoadAll loads the named vectors concurrently, preserving order.
func (c *Catalog) LoadAll(ctx context.Context, names []string) ([]*bvector.BVector, error) {
	out := make([]*bvector.BVector, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.loadConcurrency)
	for k, name := range names {
		g.Go(func() error {
			v, err := c.Load(gctx, name)
			if err != nil {
				return err
			}
			out[k] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Aggregate combines the vectors named srcs with op (OR or AND) and saves
// the result as dst. OpAndSub treats every source as part of the AND group.
func (c *Catalog) Aggregate(ctx context.Context, op aggregator.Op, dst string, srcs []string) error {
	switch op {
	case aggregator.OpOr, aggregator.OpAnd, aggregator.OpAndSub:
	default:
		return fmt.Errorf("catalog: unsupported op %s", op)
	}
	return c.aggregate(ctx, aggregator.Job{Op: op}, dst, srcs, nil)
}

// AggregateAndSub saves as dst the intersection of the vectors named and
// minus the union of those named sub.
func (c *Catalog) AggregateAndSub(ctx context.Context, dst string, and, sub []string) error {
	return c.aggregate(ctx, aggregator.Job{Op: aggregator.OpAndSub}, dst, and, sub)
}

func (c *Catalog) aggregate(ctx context.Context, job aggregator.Job, dst string, and, sub []string) error {
	if err := checkName(dst); err != nil {
		return err
	}
	all, err := c.LoadAll(ctx, slices.Concat(and, sub))
	if err != nil {
		return err
	}
	// Loaded blocks may be charged to the controller.
	defer func() {
		for _, v := range all {
			v.Clear()
		}
	}()
	job.And, job.Sub = all[:len(and)], all[len(and):]
	job.Dst = bvector.New(bvector.WithAllocator(c.alloc))
	defer job.Dst.Clear()

	a, err := c.pool.Get()
	if err != nil {
		return err
	}
	err = job.Run(a)
	c.pool.Put(a)
	if err != nil {
		return fmt.Errorf("catalog: aggregate %s: %w", dst, err)
	}

	job.Dst.Optimize()
	return c.Save(ctx, dst, job.Dst)
}
