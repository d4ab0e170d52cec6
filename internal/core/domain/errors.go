package domain

import "errors"

var (
	// Identity provider failures.
	ErrCredentialsInvalid = errors.New("credentials invalid")
	ErrAccountExists      = errors.New("account already exists")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrAccountNotFound    = errors.New("account not found")

	// Document store failures.
	ErrProfileNotFound   = errors.New("profile not found")
	ErrUserRecordMissing = errors.New("user record missing for authenticated identity")
	ErrWriteFailed       = errors.New("document store write failed")

	// Session lifecycle.
	ErrRoleMismatch     = errors.New("role does not match the account's registered role")
	ErrSessionEndFailed = errors.New("identity session end failed")
)
