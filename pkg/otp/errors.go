package otp

import "errors"

// Sentinel errors returned by enum parsing and entry normalization.
var (
	// ErrUnsupportedMethod is returned when a Method token does not match
	// any known value after case folding.
	ErrUnsupportedMethod = errors.New("otp: unsupported method")

	// ErrUnsupportedAlgorithm is returned when an Algorithm token does not
	// match any known value after case folding.
	ErrUnsupportedAlgorithm = errors.New("otp: unsupported algorithm")

	// ErrMissingIssuer is returned by Entry.FixEmptyIssuer when the label
	// has no '@'-separated segment to promote to an issuer.
	ErrMissingIssuer = errors.New("otp: missing issuer")
)
