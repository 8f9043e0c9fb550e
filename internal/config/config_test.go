package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()
	assert.Equal(t, "data/urban_mobility.db", c.DatabaseFile)
	assert.Equal(t, "logs/log.key", c.AuditKeyFile)
	assert.Equal(t, 3, c.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, c.LockoutDuration)
}

func TestLoadConfig_NoArgs(t *testing.T) {
	assert.Empty(t, cmp.Diff(defaults(), LoadConfig(nil)))
}

func TestLoadConfig_Flags(t *testing.T) {
	want := defaults()
	want.DatabaseFile = "/tmp/x.db"
	want.Debug = true
	want.MaxLoginAttempts = 5
	want.LockoutDuration = 2 * time.Minute

	got := LoadConfig([]string{"-db", "/tmp/x.db", "-debug", "-max-attempts=5", "-lockout", "2m", "-confirm"})
	assert.Empty(t, cmp.Diff(want, got))
}

func TestLoadConfig_BadFlagPanics(t *testing.T) {
	require.Panics(t, func() { LoadConfig([]string{"-max-attempts", "many"}) })
	require.Panics(t, func() { LoadConfig([]string{"-lockout", "soon"}) })
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := writeJSON(t, map[string]any{
		"database_file":      "json.db",
		"log_file":           "logs/console.log",
		"max_login_attempts": 0,
		"lockout_duration":   "1h",
	})

	want := defaults()
	want.DatabaseFile = "flag.db"
	want.LogFile = "logs/console.log"
	want.MaxLoginAttempts = 0
	want.LockoutDuration = time.Hour

	got := LoadConfig([]string{"-c", path, "-db", "flag.db"})
	assert.Empty(t, cmp.Diff(want, got))
}

func TestLoadConfig_JSONNanoseconds(t *testing.T) {
	path := writeJSON(t, map[string]any{"lockout_duration": int64(time.Second)})
	got := LoadConfig([]string{"-config=" + path})
	assert.Equal(t, time.Second, got.LockoutDuration)
	assert.Equal(t, defaults().AuditLogFile, got.AuditLogFile)
}

func TestLoadConfig_BadJSONPanics(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	require.Panics(t, func() { LoadConfig([]string{"-c", missing}) })

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	require.Panics(t, func() { LoadConfig([]string{"-c", bad}) })
}
