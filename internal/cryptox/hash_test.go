package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aliceAttrs = SaltAttributes{
	Username:         "alice",
	FirstName:        "Alice",
	LastName:         "de Vries",
	RegistrationDate: "2025-06-20T15:34:00.123456",
}

func TestHashPassword_MatchesSaltLayout(t *testing.T) {
	got, err := HashPassword("P@ssw0rd1", aliceAttrs)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("ali5Alicede Vries2025-06-20T15:34:00.123456P@ssw0rd1"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
	assert.Len(t, got, 64)
}

func TestHashPassword_Deterministic(t *testing.T) {
	a, err := HashPassword("P@ssw0rd1", aliceAttrs)
	require.NoError(t, err)
	b, err := HashPassword("P@ssw0rd1", aliceAttrs)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHashPassword_EveryInputMatters(t *testing.T) {
	base, err := HashPassword("P@ssw0rd1", aliceAttrs)
	require.NoError(t, err)

	variants := map[string]func() (string, error){
		"password": func() (string, error) { return HashPassword("P@ssw0rd2", aliceAttrs) },
		"username": func() (string, error) {
			a := aliceAttrs
			a.Username = "alicia"
			return HashPassword("P@ssw0rd1", a)
		},
		"first name": func() (string, error) {
			a := aliceAttrs
			a.FirstName = "Alicia"
			return HashPassword("P@ssw0rd1", a)
		},
		"last name": func() (string, error) {
			a := aliceAttrs
			a.LastName = "Jansen"
			return HashPassword("P@ssw0rd1", a)
		},
		"registration date": func() (string, error) {
			a := aliceAttrs
			a.RegistrationDate = "2025-06-20T15:34:00.123457"
			return HashPassword("P@ssw0rd1", a)
		},
	}

	for name, fn := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := fn()
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestHashPassword_CountsRunes(t *testing.T) {
	attrs := SaltAttributes{Username: "ŽŽŽ", RegistrationDate: "x"}

	got, err := HashPassword("pw", attrs)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("ŽŽŽ3xpw"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestHashPassword_ShortUsername(t *testing.T) {
	for _, u := range []string{"", "a", "ab"} {
		_, err := HashPassword("pw", SaltAttributes{Username: u})
		assert.ErrorIs(t, err, common.ErrInvalidInput, "username %q", u)
	}
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("P@ssw0rd1", aliceAttrs)
	require.NoError(t, err)

	ok, err := VerifyPassword("P@ssw0rd1", stored, aliceAttrs)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", stored, aliceAttrs)
	require.NoError(t, err)
	assert.False(t, ok)

	// editing a salt attribute after creation breaks verification
	renamed := aliceAttrs
	renamed.LastName = "Jansen"
	ok, err = VerifyPassword("P@ssw0rd1", stored, renamed)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("P@ssw0rd1", stored, SaltAttributes{Username: "al"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
