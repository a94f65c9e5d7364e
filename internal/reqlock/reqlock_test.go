package reqlock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDDistinctPerContext(t *testing.T) {
	t.Parallel()

	ctxA := WithRequestID(context.Background())
	ctxB := WithRequestID(context.Background())

	assert.NotZero(t, RequestID(ctxA))
	assert.NotZero(t, RequestID(ctxB))
	assert.NotEqual(t, RequestID(ctxA), RequestID(ctxB))
	assert.Zero(t, RequestID(context.Background()))
	assert.Zero(t, RequestID(nil))
}

func TestMutexLockUnlock(t *testing.T) {
	t.Parallel()

	var pool Pool
	mu := pool.NewMutex()
	ctx := WithRequestID(context.Background())

	unlock := mu.Lock(ctx)
	unlock()

	// A second request can now acquire it without blocking.
	other := WithRequestID(context.Background())
	done := make(chan struct{})
	go func() {
		unlock2 := mu.Lock(other)
		unlock2()
		close(done)
	}()
	<-done
}

func TestMutexReentrantLockPanics(t *testing.T) {
	t.Parallel()

	var pool Pool
	mu := pool.NewMutex()
	ctx := WithRequestID(context.Background())

	mu.Lock(ctx)
	// mu is poisoned by the panic below, so it is deliberately never
	// unlocked: this mutex is scoped to the test and discarded with it.

	require.Panics(t, func() {
		mu.Lock(ctx)
	}, "locking the same mutex twice within one request must panic instead of deadlocking")
}

func TestPoolRejectsHoldingTwoMutexesAtOnce(t *testing.T) {
	t.Parallel()

	var pool Pool
	first := pool.NewMutex()
	second := pool.NewMutex()
	ctx := WithRequestID(context.Background())

	unlock := first.Lock(ctx)
	defer unlock()

	require.Panics(t, func() {
		second.Lock(ctx)
	}, "a single request must not hold two pool mutexes simultaneously")
}

func TestMutexUnlockIsIdempotent(t *testing.T) {
	t.Parallel()

	var pool Pool
	mu := pool.NewMutex()
	ctx := WithRequestID(context.Background())

	unlock := mu.Lock(ctx)
	unlock()
	assert.NotPanics(t, func() { unlock() })
}
