package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// Blind index purposes. Each one gets its own derived key so equal values in
// different columns do not produce equal index entries.
const (
	IndexUsername     = "username"
	IndexSerialNumber = "scooter-serial"
)

// BlindIndex produces deterministic keyed digests of lower-cased values, so a
// column can be searched for equality while its display value stays
// encrypted with a random nonce.
type BlindIndex struct {
	keys map[string][]byte
}

// NewBlindIndex derives one HMAC key per purpose from the field key using
// HKDF-SHA-256.
func NewBlindIndex(fieldKey []byte) (*BlindIndex, error) {
	bi := &BlindIndex{keys: make(map[string][]byte, 2)}
	for _, purpose := range []string{IndexUsername, IndexSerialNumber} {
		k := make([]byte, KeySize)
		r := hkdf.New(sha256.New, fieldKey, nil, []byte("urbanmobility blind index: "+purpose))
		if _, err := io.ReadFull(r, k); err != nil {
			return nil, fmt.Errorf("derive %s index key: %w", purpose, err)
		}
		bi.keys[purpose] = k
	}
	return bi, nil
}

// Compute returns the hex digest of value for the given purpose. Values are
// compared case-insensitively, matching how usernames are matched at login.
func (b *BlindIndex) Compute(purpose, value string) string {
	key, ok := b.keys[purpose]
	if !ok {
		panic("cryptox: unknown blind index purpose " + purpose)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strings.ToLower(value)))
	return hex.EncodeToString(mac.Sum(nil))
}
