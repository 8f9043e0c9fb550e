package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

// actionLockedOut is the audit action of a login refused by the tracker.
const actionLockedOut = "locked out"

// Login prompts for credentials until one pair is accepted and binds the
// resulting principal to the session. An empty username or end of input
// ends the attempt with io.EOF.
func (a *App) Login(ctx context.Context) (rbac.Principal, error) {
	for {
		username, err := GetSimpleText(a.in, "Username", a.out)
		if err != nil {
			return rbac.Principal{}, err
		}
		if username == "" {
			return rbac.Principal{}, io.EOF
		}

		if err := a.lockout.Check(username); err != nil {
			if rerr := a.auditLog.Record(ctx, username, actionLockedOut, "login refused", true); rerr != nil {
				a.log.Error(ctx, "audit record failed", "error", rerr)
			}
			fmt.Fprintln(a.out, "Login refused:", err)
			continue
		}

		password, err := GetPassword("Password", a.out)
		if err != nil {
			return rbac.Principal{}, err
		}
		p, err := a.auth.Authenticate(ctx, username, string(password))
		common.WipeByteArray(password)

		if err != nil {
			if !errors.Is(err, common.ErrAuthenticationFailed) {
				return rbac.Principal{}, err
			}
			if a.lockout.Failure(username) {
				fmt.Fprintln(a.out, "Authentication failed. This username is now locked for a while.")
			} else {
				fmt.Fprintln(a.out, "Authentication failed.")
			}
			continue
		}

		a.lockout.Success(username)
		if err := a.session.Set(p); err != nil {
			return rbac.Principal{}, err
		}
		fmt.Fprintf(a.out, "Welcome, %s (%s).\n", p.Username, p.Role)
		a.warnSuspicious(rbac.WithPrincipal(ctx, p), p)
		return p, nil
	}
}

// warnSuspicious tells administrators how many suspicious events the audit
// log holds.
func (a *App) warnSuspicious(ctx context.Context, p rbac.Principal) {
	if !p.HasRequiredRole(rbac.SystemAdmin) {
		return
	}
	sus, err := a.events.Suspicious(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot read suspicious events", "error", err)
		return
	}
	if len(sus) > 0 {
		fmt.Fprintf(a.out, "WARNING: the audit log contains %d suspicious event(s). Run 'logs suspicious' to review them.\n", len(sus))
	}
}
