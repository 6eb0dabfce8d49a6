package lock

import (
	"context"
	"sync"
)

// Registry provides named mutual exclusion. At most one holder per key at a
// time; waiters are granted the lock in the order they asked for it.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*lockState
}

type lockState struct {
	held  bool
	queue []chan struct{}
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*lockState)}
}

// Acquire blocks until the key's lock is granted or ctx is done. A nil return
// means the caller holds the lock and must call Release.
func (r *Registry) Acquire(ctx context.Context, key string) error {
	r.mu.Lock()
	st, ok := r.locks[key]
	if !ok {
		st = &lockState{}
		r.locks[key] = st
	}
	if !st.held {
		st.held = true
		r.mu.Unlock()
		return nil
	}

	ch := make(chan struct{})
	st.queue = append(st.queue, ch)
	r.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		r.mu.Lock()
		for i, w := range st.queue {
			if w == ch {
				st.queue = append(st.queue[:i], st.queue[i+1:]...)
				r.mu.Unlock()
				return ctx.Err()
			}
		}
		r.mu.Unlock()
		// The grant raced the cancellation; hand the lock straight back.
		r.Release(key)
		return ctx.Err()
	}
}

// Release passes the lock to the next waiter, or frees the key entirely.
// Releasing a key that is not held is a no-op.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.locks[key]
	if !ok || !st.held {
		return
	}
	if len(st.queue) > 0 {
		next := st.queue[0]
		st.queue = st.queue[1:]
		// held stays true: ownership transfers to the waiter.
		close(next)
		return
	}
	st.held = false
	delete(r.locks, key)
}
