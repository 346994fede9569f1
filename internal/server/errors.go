package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrInvalidConfig        = errors.New("invalid server configuration")
)
