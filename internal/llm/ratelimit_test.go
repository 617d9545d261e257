package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRateLimiter(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("burst up to capacity", func(t *testing.T) {
		rl := newRateLimiter(10)
		defer rl.Close()

		for i := 0; i < 10; i++ {
			require.NoError(t, rl.wait(context.Background()))
		}
		assert.False(t, rl.tryAcquire())
	})

	t.Run("context cancellation", func(t *testing.T) {
		rl := newRateLimiter(1)
		defer rl.Close()

		require.NoError(t, rl.wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := rl.wait(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("refill", func(t *testing.T) {
		rl := newRateLimiter(600) // one token every 100ms
		defer rl.Close()

		for rl.tryAcquire() {
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, rl.wait(ctx))
	})
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0)
	assert.Nil(t, rl)
	require.NoError(t, rl.wait(context.Background()))
	rl.Close()
}
