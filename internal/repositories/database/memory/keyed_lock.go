package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/corebank/bank_ledger/internal/apperrors"
)

// keyedLock hands out one mutex per account id so mutating spans against the
// same account serialize while unrelated accounts proceed in parallel.
// Acquisition is bounded: a held lock surfaces as ErrConflict after the wait
// timeout rather than blocking forever.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]chan struct{})}
}

func (l *keyedLock) get(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}

// acquire takes the lock for key, waiting at most wait.
func (l *keyedLock) acquire(ctx context.Context, key string, wait time.Duration) error {
	ch := l.get(key)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: timed out waiting for account %s", apperrors.ErrConflict, key)
	}
}

// acquireAll takes the locks for every key in the order given, releasing any
// already-held locks if one acquisition fails. Callers must pass keys in the
// fixed global order (sorted) to stay deadlock free.
func (l *keyedLock) acquireAll(ctx context.Context, keys []string, wait time.Duration) error {
	for i, key := range keys {
		if err := l.acquire(ctx, key, wait); err != nil {
			for j := i - 1; j >= 0; j-- {
				l.release(keys[j])
			}
			return err
		}
	}
	return nil
}

func (l *keyedLock) release(key string) {
	<-l.get(key)
}

func (l *keyedLock) releaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.release(keys[i])
	}
}
