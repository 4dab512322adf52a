package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRetryPolicy_Success(t *testing.T) {
	p := retryPolicy{attempts: 3, baseDelay: 10 * time.Millisecond}
	calls := 0
	err := p.embed(context.Background(), quietLogger, 0, 4, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_EventualSuccess(t *testing.T) {
	p := retryPolicy{attempts: 3, baseDelay: time.Millisecond}
	calls := 0
	err := p.embed(context.Background(), quietLogger, 8, 4, func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary error")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_AllAttemptsFail(t *testing.T) {
	p := retryPolicy{attempts: 3, baseDelay: time.Millisecond}
	boom := errors.New("persistent error")
	calls := 0
	err := p.embed(context.Background(), quietLogger, 0, 1, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_PermanentErrorNotRetried(t *testing.T) {
	p := retryPolicy{attempts: 5, baseDelay: time.Millisecond}
	calls := 0
	err := p.embed(context.Background(), quietLogger, 0, 2, func() error {
		calls++
		return fmt.Errorf("%w: expected 2, got 1", ErrEmbeddingMismatch)
	})
	assert.ErrorIs(t, err, ErrEmbeddingMismatch)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_ContextCanceledDuringWait(t *testing.T) {
	p := retryPolicy{attempts: 5, baseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	start := time.Now()
	err := p.embed(ctx, quietLogger, 0, 1, func() error {
		calls++
		cancel()
		return errors.New("temporary error")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryPolicy_ContextAlreadyDone(t *testing.T) {
	p := retryPolicy{attempts: 3, baseDelay: time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := p.embed(ctx, quietLogger, 0, 1, func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := retryPolicy{attempts: 10, baseDelay: 10 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, p.delay(1))
	assert.Equal(t, 20*time.Millisecond, p.delay(2))
	assert.Equal(t, 40*time.Millisecond, p.delay(3))

	capped := retryPolicy{attempts: 10, baseDelay: 20 * time.Second}
	assert.Equal(t, 20*time.Second, capped.delay(1))
	assert.Equal(t, maxRetryDelay, capped.delay(2))
	assert.Equal(t, maxRetryDelay, capped.delay(9))

	assert.Zero(t, retryPolicy{attempts: 3}.delay(4))
}

func TestRetryPolicy_InvalidAttempts(t *testing.T) {
	for _, attempts := range []int{0, -1} {
		called := false
		err := retryPolicy{attempts: attempts}.embed(context.Background(), quietLogger, 0, 1, func() error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
		assert.False(t, called)
	}
}
