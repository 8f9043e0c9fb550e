// Package cryptox holds the cryptographic primitives of the console:
// key files, per-value field encryption, the identity-salted credential hash
// and the keyed blind index used for equality lookups over encrypted columns.
//
// Key material is loaded once at startup and never changes during a run.
// Replacing a key is an offline procedure (see internal/maintenance).
package cryptox
