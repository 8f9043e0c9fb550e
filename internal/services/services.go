// Package services holds the console's use cases. Each operation reads the
// acting principal from the context, checks it against the role the
// operation requires, seals or opens encrypted columns, and records
// privileged changes and every denial in the audit log.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/repomanager"
)

// Deps are the collaborators shared by all services. Now defaults to
// time.Now.
type Deps struct {
	DB     *sql.DB
	Repos  repomanager.RepositoryManager
	Cipher *cryptox.FieldCipher
	Index  *cryptox.BlindIndex
	Audit  audit.Recorder
	Log    logging.Logger
	Now    func() time.Time
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Now == nil {
		d.Now = time.Now
	}
	return base{Deps: d}
}

// actorName is how a principal appears in the audit log.
func actorName(p rbac.Principal) string {
	if !p.Authenticated() {
		return "anonymous"
	}
	return p.Username
}

// authorize returns the context principal if it holds at least required.
// A denial is audited as suspicious and reported as common.ErrForbidden.
func (b *base) authorize(ctx context.Context, required rbac.Role, action string) (rbac.Principal, error) {
	p := rbac.PrincipalFrom(ctx)
	if !p.HasRequiredRole(required) {
		b.deny(ctx, p, action, "requires "+required.String())
		return rbac.Principal{}, common.ErrForbidden
	}
	return p, nil
}

func (b *base) deny(ctx context.Context, p rbac.Principal, action, reason string) {
	b.record(ctx, p, "unauthorized: "+action, reason, true)
}

func (b *base) record(ctx context.Context, p rbac.Principal, action, detail string, suspicious bool) {
	if err := b.Audit.Record(ctx, actorName(p), action, detail, suspicious); err != nil {
		b.Log.Error(ctx, "audit record failed", "action", action, "error", err)
	}
}

// sealer encrypts a series of fields and keeps the first error, so a record
// can be sealed field by field and checked once.
type sealer struct {
	c   *cryptox.FieldCipher
	err error
}

func (s *sealer) seal(v string) string {
	if s.err != nil {
		return ""
	}
	tok, err := s.c.Encrypt(v)
	if err != nil {
		s.err = fmt.Errorf("seal field: %w", err)
	}
	return tok
}

func (s *sealer) sealNull(v sql.NullString) sql.NullString {
	if s.err != nil {
		return sql.NullString{}
	}
	out, err := s.c.EncryptNull(v)
	if err != nil {
		s.err = fmt.Errorf("seal field: %w", err)
	}
	return out
}
