package services

import (
	"context"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

// AuditService exposes the audit trail to administrators.
type AuditService struct {
	base
	reader audit.Reader
}

func NewAuditService(d Deps, r audit.Reader) *AuditService {
	return &AuditService{base: newBase(d), reader: r}
}

// Events returns every readable event in order. Requires SystemAdmin.
func (s *AuditService) Events(ctx context.Context) ([]audit.Event, error) {
	p, err := s.authorize(ctx, rbac.SystemAdmin, "view audit log")
	if err != nil {
		return nil, err
	}
	ev, err := s.reader.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	s.record(ctx, p, "audit log viewed", "", false)
	return ev, nil
}

// Suspicious returns the events flagged suspicious. Requires SystemAdmin.
func (s *AuditService) Suspicious(ctx context.Context) ([]audit.Event, error) {
	if _, err := s.authorize(ctx, rbac.SystemAdmin, "view suspicious events"); err != nil {
		return nil, err
	}
	return s.reader.Suspicious(ctx)
}
