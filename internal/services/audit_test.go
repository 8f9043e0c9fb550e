package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService(t *testing.T) {
	e := newTestEnv(t)
	s := NewAuditService(e.deps, e.log)
	ctx := context.Background()

	require.NoError(t, e.log.Record(ctx, "alice", "login success", "", false))
	require.NoError(t, e.log.Record(ctx, "mallory", "unknown user", "", true))

	_, err := s.Events(as("eng", rbac.ServiceEngineer))
	require.ErrorIs(t, err, common.ErrForbidden)

	admin := as("boss", rbac.SystemAdmin)
	sus, err := s.Suspicious(admin)
	require.NoError(t, err)
	require.Len(t, sus, 2, "the denied engineer shows up too")
	assert.Equal(t, "mallory", sus[0].Actor)
	assert.Equal(t, "eng", sus[1].Actor)

	ev, err := s.Events(admin)
	require.NoError(t, err)
	assert.Len(t, ev, 3)
	assert.Equal(t, "audit log viewed", e.lastEvent(t).Action)
}
