package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/filex"
)

// KeySize is the length of every symmetric key handled here (AES-256).
const KeySize = 32

// LoadOrCreateKey returns the key stored at path, generating and persisting a
// fresh one on first use. The file holds the base64 text of the raw key and is
// created owner-only (0600) inside an owner-only directory.
//
// An existing key file readable by group or others is rejected with
// common.ErrInsecureKeyFile rather than silently used.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := readKey(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	key = common.GenerateRandByteArray(KeySize)
	if err := WriteKey(path, key); err != nil {
		if errors.Is(err, fs.ErrExist) {
			// lost a race with another process creating the same file
			return readKey(path)
		}
		return nil, err
	}
	return key, nil
}

// WriteKey persists key at path. It refuses to overwrite an existing file.
func WriteKey(path string, key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create key file: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(key)
	if _, err := f.WriteString(encoded + "\n"); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write key file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync key file: %w", err)
	}
	return f.Close()
}

func readKey(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		return nil, fmt.Errorf("%w: %s has mode %o", common.ErrInsecureKeyFile, path, info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not base64", common.ErrInvalidKey, path)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %s holds %d bytes", common.ErrInvalidKey, path, len(key))
	}
	return key, nil
}
