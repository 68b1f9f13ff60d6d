package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, its signature doesn't
	// match, or it was signed with an unexpected algorithm.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates an authentic token whose expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMissingSigningKey indicates the token secret is unset. It is a
	// configuration error and must stop the process at startup.
	ErrMissingSigningKey = errors.New("jwt signing key is not configured")

	// ErrWeakSigningKey indicates the token secret is shorter than MinSigningKeyLength.
	ErrWeakSigningKey = errors.New("jwt signing key is too short")

	// ErrUnsupportedAlgorithm indicates an unknown password hashing algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported password hashing algorithm")
)
