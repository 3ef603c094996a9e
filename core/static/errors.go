package static

import "errors"

var (
	// ErrStreamRead is returned when reading a file fails after the
	// response headers were sent. The body is truncated at that point.
	ErrStreamRead = errors.New("static: error reading file stream")

	// ErrInvalidRange means the Range header is malformed, negative or inverted.
	ErrInvalidRange = errors.New("static: invalid range")

	// ErrRangeNotSatisfiable means a bound of the range is past the end of the file.
	ErrRangeNotSatisfiable = errors.New("static: range not satisfiable")

	// ErrNotSeekable is returned by FromFS when a file does not implement io.ReaderAt.
	ErrNotSeekable = errors.New("static: file does not support random access")
)
