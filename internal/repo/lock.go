package repo

import (
	"errors"
	"time"
)

// ErrLockTimeout indicates the row lock could not be acquired within the
// configured bound. It aborts only the single store mutation that wanted the
// lock; the candidate stays unrecorded for a later pass to retry.
var ErrLockTimeout = errors.New("row lock wait timed out")

// DefaultLockWait bounds how long an insert waits for the row lock before
// giving up. Mirrors the original deployment's 10-second script lock.
const DefaultLockWait = 10 * time.Second

// RowLock serializes record-store mutations. It is the only synchronization
// primitive in the system: it is held for one read-check-insert call, never
// for a whole reconciliation pass, and acquisition has a hard timeout so a
// wedged invocation cannot block all others indefinitely.
type RowLock struct {
	sem  chan struct{}
	wait time.Duration
}

// NewRowLock returns a lock with the given acquisition bound; a
// non-positive wait falls back to DefaultLockWait.
func NewRowLock(wait time.Duration) *RowLock {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	l := &RowLock{sem: make(chan struct{}, 1), wait: wait}
	l.sem <- struct{}{}
	return l
}

// Acquire blocks until the lock is held or the wait bound elapses, in which
// case it returns ErrLockTimeout.
func (l *RowLock) Acquire() error {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case <-l.sem:
		return nil
	case <-timer.C:
		return ErrLockTimeout
	}
}

// Release returns the lock. Calling Release without holding the lock is a
// programming error and panics.
func (l *RowLock) Release() {
	select {
	case l.sem <- struct{}{}:
	default:
		panic("repo: RowLock released while not held")
	}
}
