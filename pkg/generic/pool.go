package generic

import "sync"

// Pool is a typed sync.Pool. Values handed back with Put are reset first
// when a reset func is configured.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
		reset: reset,
	}
}

// NewHotPool pre-fills the pool with hotSize values.
func NewHotPool[T any](generate func() T, reset func(T), hotSize int) *Pool[T] {
	p := NewPool(generate, reset)
	for range hotSize {
		p.pool.Put(generate())
	}
	return p
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}

// With borrows a value for the duration of fn.
func (p *Pool[T]) With(fn func(T) error) error {
	v := p.Get()
	defer p.Put(v)
	return fn(v)
}
