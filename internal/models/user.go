package models

import "time"

// RegistrationDateLayout is the text form of User.RegistrationDate.
const RegistrationDateLayout = "2006-01-02T15:04:05.000000"

// User is an operator account.
type User struct {
	ID int64

	// UsernameIndex is the blind index of the lower-cased username and
	// enforces case-insensitive uniqueness.
	UsernameIndex string

	Username     string
	PasswordHash string
	Role         string
	FirstName    string
	LastName     string

	// RegistrationDate is stored as plain text and is part of the password
	// salt. It must never be rewritten or re-formatted after creation.
	RegistrationDate string
}

// NewRegistrationDate renders t in the stored layout.
func NewRegistrationDate(t time.Time) string {
	return t.Format(RegistrationDateLayout)
}
