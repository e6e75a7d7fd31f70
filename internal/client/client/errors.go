package client

import "errors"

var (
	// ErrUnavailable covers connectivity failures and timeouts.
	ErrUnavailable = errors.New("server unavailable")
	// ErrServer is a failure on the server side that may succeed on retry.
	ErrServer = errors.New("server error")
	// ErrRejected means the server refused the request as invalid.
	ErrRejected = errors.New("rejected by server")

	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Retryable reports whether a failed write should be queued for a later attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrServer)
}
