package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidMessage  = errors.New("invalid message format")
	ErrUserOffline     = errors.New("user has no open connections")
	ErrClientClosed    = errors.New("client connection is closed")
)
