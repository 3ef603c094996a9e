package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the function has not finished in time.
var ErrTimeout = errors.New("async: timeout waiting for result")
