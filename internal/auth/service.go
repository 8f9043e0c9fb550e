// Package auth verifies operator credentials and produces the session
// principal.
//
// A login attempt moves through AwaitingCredentials, LookupUser and
// VerifyPassword and ends Authorized or Denied. Every attempt that reaches
// LookupUser leaves exactly one audit record:
//
//	login success   the password matched (not suspicious)
//	unknown user    no stored username matched (suspicious)
//	wrong password  the username matched, the password did not (suspicious)
//	login error     the credential store could not be read (suspicious)
//
// Callers only ever see common.ErrAuthenticationFailed; the precise cause is
// kept for the audit trail.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/users"
)

// Audit actions written by Authenticate.
const (
	ActionLoginSuccess  = "login success"
	ActionUnknownUser   = "unknown user"
	ActionWrongPassword = "wrong password"
	ActionLoginError    = "login error"
)

// systemActor is the audit actor used when no username can be attributed.
const systemActor = "system"

// Authenticator is what the console needs from this package.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (rbac.Principal, error)
}

// Service is the Authenticator backed by the users repository.
type Service struct {
	users  users.Repository
	cipher *cryptox.FieldCipher
	audit  audit.Recorder
	log    logging.Logger
}

func NewService(repo users.Repository, c *cryptox.FieldCipher, rec audit.Recorder, log logging.Logger) *Service {
	return &Service{users: repo, cipher: c, audit: rec, log: log}
}

// credential is a stored account with the fields needed for verification
// already decrypted.
type credential struct {
	id       int64
	username string
	hash     string
	role     string
	attrs    cryptox.SaltAttributes
}

// Authenticate checks username and password and, on success, returns an
// authenticated principal. The username comparison ignores case.
func (s *Service) Authenticate(ctx context.Context, username, password string) (rbac.Principal, error) {
	username = strings.TrimSpace(username)

	cred, found, err := s.lookup(ctx, username)
	if err != nil {
		s.record(ctx, systemActor, ActionLoginError, err.Error(), true)
		s.log.Error(ctx, "credential lookup failed", "error", err)
		return rbac.Principal{}, fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, err)
	}
	if !found {
		s.record(ctx, username, ActionUnknownUser, "", true)
		return rbac.Principal{}, common.ErrAuthenticationFailed
	}

	ok, err := cryptox.VerifyPassword(password, cred.hash, cred.attrs)
	if err != nil {
		// A stored username too short to salt can never verify.
		s.log.Warn(ctx, "stored credential cannot be verified", "user_id", cred.id, "error", err)
		ok = false
	}
	if !ok {
		s.record(ctx, cred.username, ActionWrongPassword, "", true)
		return rbac.Principal{}, common.ErrAuthenticationFailed
	}

	p := rbac.NewPrincipal(cred.username, cred.role)
	if !p.Role.Valid() {
		s.log.Warn(ctx, "account has an unrecognized role", "user_id", cred.id)
	}
	// A login that cannot be audited is not granted.
	if err := s.audit.Record(ctx, cred.username, ActionLoginSuccess, "role: "+p.Role.String(), false); err != nil {
		s.log.Error(ctx, "audit record failed", "action", ActionLoginSuccess, "error", err)
		return rbac.Principal{}, fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, err)
	}
	return p, nil
}

// lookup scans every stored account, because usernames are encrypted with a
// random nonce and cannot be matched in SQL. Rows whose username does not
// decrypt are skipped; an uninitialized cipher aborts the scan.
func (s *Service) lookup(ctx context.Context, username string) (credential, bool, error) {
	if !s.cipher.Ready() {
		return credential{}, false, common.ErrUninitializedCrypto
	}
	rows, err := s.users.ListAll(ctx)
	if err != nil {
		return credential{}, false, fmt.Errorf("list users: %w", err)
	}

	for i := range rows {
		u := &rows[i]
		name, err := s.cipher.Open(u.Username)
		if errors.Is(err, common.ErrUninitializedCrypto) {
			return credential{}, false, err
		}
		if err != nil {
			s.log.Debug(ctx, "skipping undecryptable account", "user_id", u.ID)
			continue
		}
		if !strings.EqualFold(name, username) {
			continue
		}
		return s.decodeCredential(name, u), true, nil
	}
	return credential{}, false, nil
}

func (s *Service) decodeCredential(name string, u *models.User) credential {
	return credential{
		id:       u.ID,
		username: name,
		hash:     s.cipher.Decrypt(u.PasswordHash),
		role:     s.cipher.Decrypt(u.Role),
		attrs: cryptox.SaltAttributes{
			Username:         name,
			FirstName:        s.cipher.Decrypt(u.FirstName),
			LastName:         s.cipher.Decrypt(u.LastName),
			RegistrationDate: u.RegistrationDate,
		},
	}
}

// record writes the audit event of a denied attempt. The attempt is denied
// either way, so a write failure is only logged.
func (s *Service) record(ctx context.Context, actor, action, detail string, suspicious bool) {
	if err := s.audit.Record(ctx, actor, action, detail, suspicious); err != nil {
		s.log.Error(ctx, "audit record failed", "action", action, "error", err)
	}
}
