package auth

import "errors"

// Authentication service errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or otherwise fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry is in the past.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before claim is in
	// the future beyond the allowed clock skew.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)
