package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrGameNotFound      = errors.New("game not found")
	ErrNotAvailable      = errors.New("game not available")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrAlreadyOwned    = errors.New("game already owned")
	ErrNotEntitled     = errors.New("game not in library")
	ErrDuplicateReview = errors.New("game already reviewed")
	ErrReviewNotFound  = errors.New("review not found")

	ErrTokenInvalid = errors.New("token invalid or already used")
	ErrTokenExpired = errors.New("token expired")

	// ErrDependency marks a failure in an external collaborator (asset store,
	// token store, payment authorizer). Always logged, never swallowed.
	ErrDependency = errors.New("dependency failure")
)
