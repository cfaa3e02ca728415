package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pleme-io/codesearch/pkg/types"
)

// lockRetryAttempts and lockRetryBaseDelay/lockRetryMaxDelay give the
// bounded backoff curve for lock contention: 5 attempts with waits doubling
// from 50ms (50, 100, 200, 400ms, about 0.75s in all). lockRetryMaxDelay
// caps a single wait at 2s, a value five attempts never reach.
const (
	lockRetryAttempts  = 5
	lockRetryBaseDelay = 50 * time.Millisecond
	lockRetryMaxDelay  = 2 * time.Second
)

// lockFileName is the advisory lock file's name under an index directory.
const lockFileName = "lock"

// lockBody is the JSON body written into D/lock while a writer holds it.
type lockBody struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	StartedAt time.Time `json:"started_at"`
}

// WriteLock is the process-wide advisory lock guarding an index directory
// for the duration of an index operation. At most one writer may hold it;
// readers never need it.
type WriteLock struct {
	path string
	f    *os.File
}

// AcquireWriteLock creates D/lock under dbRoot, failing with a Transient
// category error if another process already holds it. The lock is
// non-blocking by construction (os.O_EXCL); a caller that wants to wait
// retries with its own backoff.
func AcquireWriteLock(dbRoot string) (*WriteLock, error) {
	path := filepath.Join(dbRoot, lockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, types.NewTransient("index lock", fmt.Errorf("index directory %s is locked by another writer", dbRoot))
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	host, _ := os.Hostname()
	body := lockBody{PID: os.Getpid(), Host: host, StartedAt: time.Now()}
	data, err := json.Marshal(body)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("encode lock body: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock body: %w", err)
	}

	return &WriteLock{path: path, f: f}, nil
}

// acquireWriteLockRetry wraps AcquireWriteLock with bounded backoff: lock
// contention is a Transient condition, so a caller blocked by another
// writer retries rather than failing the whole run on what is usually a
// brief overlap.
func acquireWriteLockRetry(ctx context.Context, dbRoot string) (*WriteLock, error) {
	delay := lockRetryBaseDelay
	var lastErr error
	for attempt := 0; attempt < lockRetryAttempts; attempt++ {
		lock, err := AcquireWriteLock(dbRoot)
		if err == nil {
			return lock, nil
		}
		if !types.IsRetryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == lockRetryAttempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > lockRetryMaxDelay {
			delay = lockRetryMaxDelay
		}
	}
	return nil, lastErr
}

// Release closes and removes the lock file. Safe to call exactly once per
// successful Acquire.
func (l *WriteLock) Release() error {
	closeErr := l.f.Close()
	removeErr := os.Remove(l.path)
	if closeErr != nil {
		return closeErr
	}
	return removeErr
}
