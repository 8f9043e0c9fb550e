package rbac

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/google/uuid"
)

// Principal is the authenticated identity of a console session.
//
// Only NewPrincipal yields an authenticated value. The zero Principal stands
// for "nobody logged in" and fails every authorization check.
type Principal struct {
	Username  string
	Role      Role
	SessionID string

	authenticated bool
}

// NewPrincipal builds an authenticated principal from a username and the
// stored role name. An unrecognized role name leaves the role as RoleUnknown:
// the principal exists but is authorized for nothing.
func NewPrincipal(username, roleName string) Principal {
	role, _ := ParseRole(roleName)
	return Principal{
		Username:      username,
		Role:          role,
		SessionID:     uuid.NewString(),
		authenticated: true,
	}
}

// Authenticated reports whether p came from a successful login.
func (p Principal) Authenticated() bool {
	return p.authenticated
}

// HasRequiredRole is the authorization predicate: default deny, otherwise
// the principal's role must rank at or above required.
func (p Principal) HasRequiredRole(required Role) bool {
	if !p.authenticated {
		return false
	}
	return p.Role.Satisfies(required)
}

// CanManage reports whether p may administer accounts holding target. The
// actor must strictly outrank the target: system admins manage service
// engineers, super admins manage both.
func (p Principal) CanManage(target Role) bool {
	if !p.authenticated || !p.Role.Valid() || !target.Valid() {
		return false
	}
	return p.Role > target
}

// Session holds the principal of one console session. The principal is set
// exactly once, after a successful login, and read by every later operation.
type Session struct {
	mu        sync.RWMutex
	principal Principal
}

// Set binds p to the session. A second call fails with
// common.ErrPrincipalAlreadySet and leaves the first principal in place.
func (s *Session) Set(p Principal) error {
	if !p.authenticated {
		return common.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.principal.authenticated {
		return common.ErrPrincipalAlreadySet
	}
	s.principal = p
	return nil
}

// Principal returns the bound principal, or the zero Principal.
func (s *Session) Principal() Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal
}

// HasRequiredRole applies the authorization predicate to the bound principal.
func (s *Session) HasRequiredRole(required Role) bool {
	return s.Principal().HasRequiredRole(required)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal carried by ctx. A context without one
// yields the zero Principal, which is denied everything.
func PrincipalFrom(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}
