package retry

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	var calls int
	p := Policy{Attempts: 3, Delay: time.Second, Sleep: func(time.Duration) {
		t.Fatal("should not sleep when the first attempt succeeds")
	}}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_LinearBackoff(t *testing.T) {
	var slept []time.Duration
	p := Policy{Attempts: 3, Delay: time.Second, Sleep: func(d time.Duration) {
		slept = append(slept, d)
	}}

	var calls int
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, slept)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	var slept []time.Duration
	p := Policy{Attempts: 3, Delay: time.Second, Sleep: func(d time.Duration) {
		slept = append(slept, d)
	}}

	var calls int
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("still broken")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	// No sleep after the final attempt.
	assert.Len(t, slept, 2)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Contains(t, err.Error(), "still broken")
}

func TestDo_ZeroAttemptsBehavesAsOne(t *testing.T) {
	p := Policy{}

	var calls int
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("nope")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{Attempts: 3, Delay: time.Second, Sleep: func(time.Duration) {}}
	err := p.Do(ctx, func(context.Context) error {
		t.Fatal("fn should not run with a cancelled context")
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
}
