package search

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// outcome is the remembered result of one load attempt.
type outcome[T any] struct {
	value    T
	err      error
	loadedAt time.Time
}

// lazy is a thread-safe, load-once handle. Concurrent first callers share a
// single in-flight load. The outcome, success or failure, is cached until
// reset. Reads never take a lock.
type lazy[T any] struct {
	load  func(ctx context.Context) (T, error)
	group singleflight.Group

	cached atomic.Pointer[outcome[T]]

	// mu serializes writers of cached against reset.
	mu  sync.Mutex
	gen atomic.Uint64
}

func newLazy[T any](load func(ctx context.Context) (T, error)) *lazy[T] {
	return &lazy[T]{load: load}
}

// get returns the cached outcome, loading it first if needed.
// A caller whose ctx ends while waiting gets ctx.Err(); the load itself
// continues for the others and its outcome is still cached.
func (l *lazy[T]) get(ctx context.Context) (T, error) {
	if o := l.cached.Load(); o != nil {
		return o.value, o.err
	}

	gen := l.gen.Load()
	ch := l.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		if o := l.cached.Load(); o != nil {
			return o, nil
		}
		value, err := l.load(context.WithoutCancel(ctx))
		o := &outcome[T]{value: value, err: err, loadedAt: time.Now()}

		l.mu.Lock()
		if l.gen.Load() == gen {
			l.cached.Store(o)
		}
		l.mu.Unlock()
		return o, nil
	})

	select {
	case res := <-ch:
		o := res.Val.(*outcome[T])
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// peek returns the cached outcome without loading. ok is false when nothing
// has been loaded yet.
func (l *lazy[T]) peek() (o *outcome[T], ok bool) {
	o = l.cached.Load()
	return o, o != nil
}

// reset forgets the cached outcome. The next get loads again. A load still
// in flight from before the reset is not cached.
func (l *lazy[T]) reset() {
	l.mu.Lock()
	l.gen.Add(1)
	l.cached.Store(nil)
	l.mu.Unlock()
}

// reload discards the cached outcome and loads again.
func (l *lazy[T]) reload(ctx context.Context) (T, error) {
	l.reset()
	return l.get(ctx)
}
