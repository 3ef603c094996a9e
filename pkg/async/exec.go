package async

import (
	"context"
	"time"
)

// ExecFuture represents the result of an asynchronous computation that only returns an error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Exec runs fn in a new goroutine and returns immediately.
// If ctx is already canceled, fn is not called and the future resolves to ctx.Err().
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// Await blocks until the function returns and reports its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout is like Await but gives up after timeout with ErrTimeout.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports whether the function has returned, without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// OnComplete calls fn with the result in a separate goroutine once the function returns.
// Used for fire-and-forget work whose outcome is only logged.
func (f *ExecFuture) OnComplete(fn func(error)) {
	go func() {
		fn(f.Await())
	}()
}
