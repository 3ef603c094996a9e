package httpcontext

import "errors"

var (
	// ErrBodyRead is returned when the request body cannot be read.
	ErrBodyRead = errors.New("failed to read request body")

	// ErrResponseWrite is returned when the response body cannot be written.
	ErrResponseWrite = errors.New("failed to write response")

	// ErrEnvelopeEncode is returned when an API envelope cannot be marshaled.
	ErrEnvelopeEncode = errors.New("failed to encode api envelope")
)
