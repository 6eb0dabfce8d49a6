package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Acquire(context.Background(), "k"))
	r.Release("k")

	// Key is fully recycled after the last release.
	require.NoError(t, r.Acquire(context.Background(), "k"))
	r.Release("k")
}

func TestIndependentKeys(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Acquire(context.Background(), "a"))
	done := make(chan struct{})
	go func() {
		defer close(done)
		require.NoError(t, r.Acquire(context.Background(), "b"))
		r.Release("b")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire on a different key should not block")
	}
	r.Release("a")
}

func TestMutualExclusion(t *testing.T) {
	r := NewRegistry()

	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, r.Acquire(context.Background(), "slot"))
			defer r.Release("slot")

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestFIFOOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Acquire(context.Background(), "k"))

	const n = 10
	var mu sync.Mutex
	var order []int
	ready := make(chan struct{}, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ready <- struct{}{}
			require.NoError(t, r.Acquire(context.Background(), "k"))
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			r.Release("k")
		}(i)
		// Serialize enqueue order: wait for goroutine i to have asked
		// before starting goroutine i+1.
		<-ready
		waitForQueueLen(t, r, "k", i+1)
	}

	r.Release("k")
	wg.Wait()

	expected := make([]int, n)
	for i := range expected {
		expected[i] = i
	}
	assert.Equal(t, expected, order)
}

func TestAcquireCancelled(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Acquire(context.Background(), "k"))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- r.Acquire(ctx, "k")
	}()
	waitForQueueLen(t, r, "k", 1)

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled acquire did not return")
	}

	// The holder can still release and the key stays usable.
	r.Release("k")
	require.NoError(t, r.Acquire(context.Background(), "k"))
	r.Release("k")
}

func TestReleaseUnheldIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Release("never-acquired")

	require.NoError(t, r.Acquire(context.Background(), "never-acquired"))
	r.Release("never-acquired")
}

func waitForQueueLen(t *testing.T, r *Registry, key string, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		st, ok := r.locks[key]
		ln := 0
		if ok {
			ln = len(st.queue)
		}
		r.mu.Unlock()
		if ln >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("queue for %q never reached length %d", key, n)
}
