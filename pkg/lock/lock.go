// Package lock serializes writers on a named key: a reservation id or a room id.
// All backends block until the key is free, the wait timeout passes, or the
// caller's context ends. The returned release func is safe to call more than once.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrTimeout = errors.New("timed out waiting for lock")

type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

const (
	minBackoff = 10 * time.Millisecond
	maxBackoff = 250 * time.Millisecond
)

func ReservationKey(id string) string {
	return "reservation:" + id
}

func RoomKey(id string) string {
	return "room:" + id
}

// waitContext bounds ctx by the backend's wait timeout.
func waitContext(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, wait)
}

// waitError tells a caller cancellation apart from a lock that stayed busy.
func waitError(parent context.Context, key string) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrTimeout, key)
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, maxBackoff)
}

// retry calls try until it reports acquired, fails, or the wait ends.
func retry(ctx context.Context, wait time.Duration, key string, try func(ctx context.Context) (bool, error)) error {
	waitCtx, cancel := waitContext(ctx, wait)
	defer cancel()

	backoff := minBackoff
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		ok, err := try(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil {
				return waitError(ctx, key)
			}
			return err
		}
		if ok {
			return nil
		}

		timer.Reset(backoff)
		select {
		case <-waitCtx.Done():
			return waitError(ctx, key)
		case <-timer.C:
		}
		backoff = nextBackoff(backoff)
	}
}
