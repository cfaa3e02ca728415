package indexer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/codesearch/pkg/types"
)

func TestAcquireWriteLock_SecondAcquireIsCategorizedTransient(t *testing.T) {
	dbRoot := t.TempDir()

	lock, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()

	_, err = AcquireWriteLock(dbRoot)
	require.Error(t, err)
	assert.True(t, types.IsRetryable(err))
}

func TestAcquireWriteLockRetry_SucceedsOnceHeldLockIsReleased(t *testing.T) {
	dbRoot := t.TempDir()

	held, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)

	released := make(chan struct{})
	go func() {
		time.Sleep(3 * lockRetryBaseDelay)
		_ = held.Release()
		close(released)
	}()

	lock, err := acquireWriteLockRetry(context.Background(), dbRoot)
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()
	<-released
}

func TestAcquireWriteLockRetry_ExhaustsAttemptsAndReturnsTransient(t *testing.T) {
	dbRoot := t.TempDir()

	held, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	_, err = acquireWriteLockRetry(context.Background(), dbRoot)
	require.Error(t, err)
	assert.True(t, types.IsRetryable(err))
}

func TestAcquireWriteLockRetry_RespectsContextCancellation(t *testing.T) {
	dbRoot := t.TempDir()

	held, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = acquireWriteLockRetry(ctx, dbRoot)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquireWriteLockRetry_NonTransientFailureIsNotRetried(t *testing.T) {
	// lockFileName's parent directory does not exist, so the failure is a
	// plain os error, not lock contention; it must surface immediately
	// rather than spend the whole retry budget.
	dbRoot := filepath.Join(t.TempDir(), "missing", "nested")

	_, err := acquireWriteLockRetry(context.Background(), dbRoot)
	require.Error(t, err)
	assert.False(t, types.IsRetryable(err))
}
