package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotFound    = errors.New("scene not found")
	ErrRejected    = errors.New("request rejected")
	ErrServer      = errors.New("server error")
)
