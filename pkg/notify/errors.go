package notify

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotConfigured   = errors.New("not configured")
	ErrNotBound        = errors.New("name not bound")
	ErrNotReady        = errors.New("not ready")
)
