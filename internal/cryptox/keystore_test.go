package cryptox

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateKey_CreatesThenLoadsSameKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "encryption.key")

	first, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	require.Len(t, first, KeySize)

	second, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "key must be stable across restarts")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		dirInfo, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
	}
}

func TestLoadOrCreateKey_SeparateFilesSeparateKeys(t *testing.T) {
	dir := t.TempDir()

	fieldKey, err := LoadOrCreateKey(filepath.Join(dir, "encryption.key"))
	require.NoError(t, err)
	auditKey, err := LoadOrCreateKey(filepath.Join(dir, "log.key"))
	require.NoError(t, err)

	assert.NotEqual(t, fieldKey, auditKey)
}

func TestLoadOrCreateKey_RejectsInsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), "encryption.key")
	_, err := LoadOrCreateKey(path)
	require.NoError(t, err)

	require.NoError(t, os.Chmod(path, 0o644))

	_, err = LoadOrCreateKey(path)
	require.ErrorIs(t, err, common.ErrInsecureKeyFile)
}

func TestLoadOrCreateKey_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()

	notBase64 := filepath.Join(dir, "a.key")
	require.NoError(t, os.WriteFile(notBase64, []byte("%%%not base64%%%"), 0o600))
	_, err := LoadOrCreateKey(notBase64)
	require.ErrorIs(t, err, common.ErrInvalidKey)

	short := filepath.Join(dir, "b.key")
	require.NoError(t, os.WriteFile(short, []byte(base64.StdEncoding.EncodeToString([]byte("short"))), 0o600))
	_, err = LoadOrCreateKey(short)
	require.ErrorIs(t, err, common.ErrInvalidKey)
}

func TestWriteKey_RefusesOverwriteAndBadLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.key")

	require.ErrorIs(t, WriteKey(path, []byte("too short")), common.ErrInvalidKey)

	key := common.GenerateRandByteArray(KeySize)
	require.NoError(t, WriteKey(path, key))
	require.Error(t, WriteKey(path, key))
}
