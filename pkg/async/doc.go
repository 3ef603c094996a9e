// Package async provides a small Future type for error-only background work.
//
// Exec starts a function in its own goroutine and returns an ExecFuture:
//
//	future := async.Exec(ctx, renewer, func(ctx context.Context, r Renewer) error {
//		return r.Renew(ctx)
//	})
//
//	// Block for the result...
//	err := future.Await()
//
//	// ...or observe it without blocking the caller.
//	future.OnComplete(func(err error) {
//		if err != nil {
//			log.Error("renewal failed", logger.Error(err))
//		}
//	})
//
// AwaitWithTimeout returns ErrTimeout if the function is still running after
// the given duration; IsComplete checks without blocking.
package async
