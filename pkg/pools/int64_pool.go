package pools

import (
	"sync"
)

// Int64 slice size classes. Radix sort scratch buffers hold two slots per
// edge, so classes run larger than the byte classes.
const (
	Int64Small  = 128
	Int64Medium = 1024
	Int64Large  = 8192
	Int64Max    = 1 << 20 // don't pool very large scratch arrays
)

// Int64Pool pools int64 slices used as sort scratch space and target staging
// buffers during adjacency construction.
type Int64Pool struct {
	small  sync.Pool // <= 128 elements
	medium sync.Pool // <= 1024 elements
	large  sync.Pool // <= 8192 elements
}

// NewInt64Pool creates a new int64 slice pool.
func NewInt64Pool() *Int64Pool {
	return &Int64Pool{
		small: sync.Pool{
			New: func() any {
				s := make([]int64, 0, Int64Small)
				return &s
			},
		},
		medium: sync.Pool{
			New: func() any {
				s := make([]int64, 0, Int64Medium)
				return &s
			},
		},
		large: sync.Pool{
			New: func() any {
				s := make([]int64, 0, Int64Large)
				return &s
			},
		},
	}
}

// Get returns a zero-length int64 slice with at least the requested capacity.
func (p *Int64Pool) Get(size int) []int64 {
	var pool *sync.Pool
	switch {
	case size <= Int64Small:
		pool = &p.small
	case size <= Int64Medium:
		pool = &p.medium
	case size <= Int64Large:
		pool = &p.large
	default:
		return make([]int64, 0, size)
	}

	sp, ok := pool.Get().(*[]int64)
	if !ok || cap(*sp) < size {
		return make([]int64, 0, size)
	}
	return (*sp)[:0]
}

// GetSized returns an int64 slice with exactly the requested length. The
// contents are not zeroed; callers overwrite every slot.
func (p *Int64Pool) GetSized(size int) []int64 {
	s := p.Get(size)
	return s[:size]
}

// Put returns an int64 slice to the pool.
func (p *Int64Pool) Put(s []int64) {
	c := cap(s)
	if c > Int64Max {
		return
	}

	s = s[:0]

	var pool *sync.Pool
	switch {
	case c <= Int64Small:
		pool = &p.small
	case c <= Int64Medium:
		pool = &p.medium
	case c <= Int64Large:
		pool = &p.large
	default:
		return
	}

	pool.Put(&s)
}

// Default global int64 pool
var defaultInt64Pool = NewInt64Pool()

// GetInt64s returns an int64 slice from the default pool.
func GetInt64s(size int) []int64 {
	return defaultInt64Pool.Get(size)
}

// GetInt64sSized returns an exact-length int64 slice from the default pool.
func GetInt64sSized(size int) []int64 {
	return defaultInt64Pool.GetSized(size)
}

// PutInt64s returns an int64 slice to the default pool.
func PutInt64s(s []int64) {
	defaultInt64Pool.Put(s)
}
