// Package common defines shared sentinel errors and small helpers used across
// the console, the security core and the repositories. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Crypto errors.
	ErrUninitializedCrypto = errors.New("encryption not initialized")
	ErrDecryptionFailed    = errors.New("decryption failed")
	ErrInvalidKey          = errors.New("invalid key material")
	ErrInsecureKeyFile     = errors.New("key file has insecure permissions")

	// Caller contract violations.
	ErrInvalidInput = errors.New("invalid input")

	// Auth and authorization outcomes.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbidden            = errors.New("insufficient role")
	ErrPrincipalAlreadySet  = errors.New("principal already set for this session")
	ErrLockedOut            = errors.New("too many failed attempts")
)
