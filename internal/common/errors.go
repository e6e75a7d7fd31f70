package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	ErrDevOnly      = errors.New("only available in development mode")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// rating-specific errors, all of them wrap ErrorValidation
	ErrInvalidDate   = validationError("date must be a calendar day in YYYY-MM-DD format")
	ErrFutureDate    = validationError("cannot rate future dates")
	ErrInvalidMood   = validationError("mood must be an integer between 1 and 4")
	ErrNotesTooLong  = validationError("notes must be 280 characters or less")
	ErrInvalidMonth  = validationError("month must be in YYYY-MM format")
	ErrInvalidTarget = validationError("push subscription endpoint and keys are required")
)

type ruleError struct {
	msg string
}

func (e *ruleError) Error() string { return e.msg }

func (e *ruleError) Unwrap() error { return ErrorValidation }

func validationError(msg string) error {
	return &ruleError{msg: msg}
}
