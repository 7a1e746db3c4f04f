package httpserver

import "errors"

var (
	// ErrStart wraps listen and serve failures reported by Run.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown wraps failures to drain the server gracefully.
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
