package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
)

// FieldCipher encrypts individual column values with AES-256-GCM.
//
// A token is the standard base64 encoding of nonce||ciphertext||tag, which
// keeps it storable in a TEXT column. Every call uses a fresh random nonce, so
// encrypting the same value twice yields different tokens.
//
// The zero value is uninitialized: Encrypt and Open report
// common.ErrUninitializedCrypto and Decrypt panics with it.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a cipher around a KeySize-byte key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &FieldCipher{aead: aead}, nil
}

// Ready reports whether c was built by NewFieldCipher.
func (c *FieldCipher) Ready() bool {
	return c != nil && c.aead != nil
}

// Encrypt returns the token for plaintext.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if !c.Ready() {
		return "", common.ErrUninitializedCrypto
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open is the strict form of Decrypt: it reports malformed, tampered or
// foreign-key tokens as common.ErrDecryptionFailed.
func (c *FieldCipher) Open(token string) (string, error) {
	if !c.Ready() {
		return "", common.ErrUninitializedCrypto
	}

	// Only the canonical encoding is accepted: no line breaks, zero padding bits.
	if strings.ContainsAny(token, "\r\n") {
		return "", fmt.Errorf("%w: malformed token", common.ErrDecryptionFailed)
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token", common.ErrDecryptionFailed)
	}

	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return "", fmt.Errorf("%w: token too short", common.ErrDecryptionFailed)
	}

	plaintext, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// Decrypt returns the plaintext of token, or token itself when it cannot be
// decrypted. Bulk scans rely on this to step over unreadable rows.
func (c *FieldCipher) Decrypt(token string) string {
	plaintext, err := c.Open(token)
	if errors.Is(err, common.ErrUninitializedCrypto) {
		panic(err)
	}
	if err != nil {
		return token
	}
	return plaintext
}

// EncryptNull encrypts an optional column value. NULL stays NULL.
func (c *FieldCipher) EncryptNull(v sql.NullString) (sql.NullString, error) {
	if !v.Valid {
		if !c.Ready() {
			return sql.NullString{}, common.ErrUninitializedCrypto
		}
		return sql.NullString{}, nil
	}

	token, err := c.Encrypt(v.String)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: token, Valid: true}, nil
}

// DecryptNull decrypts an optional column value with Decrypt semantics.
// NULL stays NULL.
func (c *FieldCipher) DecryptNull(v sql.NullString) sql.NullString {
	if !v.Valid {
		if !c.Ready() {
			panic(common.ErrUninitializedCrypto)
		}
		return sql.NullString{}
	}
	return sql.NullString{String: c.Decrypt(v.String), Valid: true}
}
