package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
)

// MinUsernameLength is the shortest username the salt derivation accepts.
const MinUsernameLength = 3

// SaltAttributes are the identity fields the password salt is derived from.
//
// They must carry exactly the values used when the account was created.
// Changing any of them later (a renamed user, a re-formatted registration
// date) makes the stored hash unverifiable until the password is reset.
type SaltAttributes struct {
	Username         string
	FirstName        string
	LastName         string
	RegistrationDate string
}

// salt concatenates the first three runes of the username, the username
// length in runes, first name, last name and registration date.
func (a SaltAttributes) salt() (string, error) {
	n := utf8.RuneCountInString(a.Username)
	if n < MinUsernameLength {
		return "", fmt.Errorf("%w: username must have at least %d characters", common.ErrInvalidInput, MinUsernameLength)
	}
	prefix := string([]rune(a.Username)[:MinUsernameLength])
	return fmt.Sprintf("%s%d%s%s%s", prefix, n, a.FirstName, a.LastName, a.RegistrationDate), nil
}

// HashPassword returns hex(SHA-256(salt || password)), 64 characters long.
func HashPassword(password string, attrs SaltAttributes) (string, error) {
	salt, err := attrs.salt()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:]), nil
}

// VerifyPassword recomputes the hash from attrs and compares it with
// storedHash in constant time.
func VerifyPassword(password, storedHash string, attrs SaltAttributes) (bool, error) {
	candidate, err := HashPassword(password, attrs)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1, nil
}
