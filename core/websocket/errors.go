package websocket

import "errors"

var (
	// ErrClientClosed is returned when sending to a closed client.
	ErrClientClosed = errors.New("websocket: client closed")

	// ErrEncodeMessage is returned when a JSON message cannot be encoded.
	ErrEncodeMessage = errors.New("websocket: failed to encode message")
)
