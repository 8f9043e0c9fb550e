package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/repomanager"
	"github.com/dmitrijs2005/urbanmobility/internal/storage"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 250000000, time.UTC)

type testEnv struct {
	deps Deps
	log  *audit.Log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := storage.Open(context.Background(), filepath.Join(dir, "um.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fieldKey := common.GenerateRandByteArray(cryptox.KeySize)
	c, err := cryptox.NewFieldCipher(fieldKey)
	require.NoError(t, err)
	idx, err := cryptox.NewBlindIndex(fieldKey)
	require.NoError(t, err)

	auditCipher, err := cryptox.NewFieldCipher(common.GenerateRandByteArray(cryptox.KeySize))
	require.NoError(t, err)
	log, err := audit.Open(filepath.Join(dir, "audit.log"), auditCipher)
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return &testEnv{
		deps: Deps{
			DB:     db,
			Repos:  repomanager.NewSQLiteRepositoryManager(),
			Cipher: c,
			Index:  idx,
			Audit:  log,
			Log:    logging.Discard(),
			Now:    func() time.Time { return fixedNow },
		},
		log: log,
	}
}

func (e *testEnv) events(t *testing.T) []audit.Event {
	t.Helper()
	ev, err := e.log.ReadAll(context.Background())
	require.NoError(t, err)
	return ev
}

func (e *testEnv) lastEvent(t *testing.T) audit.Event {
	t.Helper()
	ev := e.events(t)
	require.NotEmpty(t, ev)
	return ev[len(ev)-1]
}

func as(username string, role rbac.Role) context.Context {
	return rbac.WithPrincipal(context.Background(), rbac.NewPrincipal(username, role.String()))
}
