package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryFixedReturnsOnFirstSuccess(t *testing.T) {
	calls := 0
	err := retryFixed(context.Background(), func() error {
		calls++
		return nil
	}, 5, 0)

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryFixedExhaustsAttempts(t *testing.T) {
	opErr := errors.New("persistent failure")
	calls := 0
	err := retryFixed(context.Background(), func() error {
		calls++
		return opErr
	}, 5, 0)

	assert.ErrorIs(t, err, opErr)
	assert.Equal(t, 5, calls)
}

func TestRetryFixedRecoversMidway(t *testing.T) {
	calls := 0
	err := retryFixed(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, 0)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryFixedHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryFixed(ctx, func() error {
		calls++
		return errors.New("never reached")
	}, 5, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryFixedRejectsInvalidBudget(t *testing.T) {
	err := retryFixed(context.Background(), func() error { return nil }, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
