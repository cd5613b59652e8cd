package aggregator

import "sync"

// Pool caches aggregators for reuse across goroutines. Each aggregator
// obtained from Get is exclusively owned until it is returned with Put.
type Pool struct {
	pool sync.Pool
	opts []Option
}

// NewPool creates a pool whose aggregators are built with opts.
func NewPool(opts ...Option) *Pool {
	return &Pool{opts: opts}
}

// Get returns a cached aggregator or creates a new one.
func (p *Pool) Get() (*Aggregator, error) {
	if a, ok := p.pool.Get().(*Aggregator); ok && !a.closed {
		return a, nil
	}
	return New(p.opts...)
}

// Put returns a to the pool. Closed aggregators are dropped.
func (p *Pool) Put(a *Aggregator) {
	if a == nil || a.closed {
		return
	}
	p.pool.Put(a)
}
