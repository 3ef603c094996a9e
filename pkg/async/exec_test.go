package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/webserver/pkg/async"
)

func TestExec(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ok := async.Exec(ctx, 42, func(ctx context.Context, n int) error {
		if n != 42 {
			return errors.New("unexpected number")
		}
		return nil
	})
	failing := async.Exec(ctx, "renew", func(ctx context.Context, s string) error {
		return errors.New(s + " failed")
	})

	assert.NoError(t, ok.Await())
	assert.EqualError(t, failing.Await(), "renew failed")
	assert.True(t, ok.IsComplete())
}

func TestExec_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	future := async.Exec(ctx, 0, func(ctx context.Context, _ int) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, future.Await(), context.Canceled)
	assert.False(t, called)
}

func TestExecFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	future := async.Exec(context.Background(), release, func(ctx context.Context, ch chan struct{}) error {
		<-ch
		return nil
	})

	assert.ErrorIs(t, future.AwaitWithTimeout(10*time.Millisecond), async.ErrTimeout)
	assert.False(t, future.IsComplete())

	close(release)
	assert.NoError(t, future.AwaitWithTimeout(time.Second))
}

func TestExecFuture_OnComplete(t *testing.T) {
	t.Parallel()
	want := errors.New("exit status 1")
	future := async.Exec(context.Background(), want, func(ctx context.Context, err error) error {
		return err
	})

	got := make(chan error, 1)
	future.OnComplete(func(err error) { got <- err })

	select {
	case err := <-got:
		assert.ErrorIs(t, err, want)
	case <-time.After(time.Second):
		t.Fatal("OnComplete callback not invoked")
	}
}
