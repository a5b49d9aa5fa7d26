package episode

import "errors"

var (
	ErrNotFound    = errors.New("episode not found")
	ErrUnavailable = errors.New("episode directory unavailable")
)
