package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

func (a *App) Whoami(ctx context.Context) error {
	p := rbac.PrincipalFrom(ctx)
	fmt.Fprintf(a.out, "%s (%s), session %s\n", p.Username, p.Role, p.SessionID)
	return nil
}

// ChangePassword asks for the current password and a new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	old, err := GetPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(old)

	pw, err := GetPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	again, err := GetPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if string(pw) != string(again) {
		return fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)
	}
	if err := a.users.ChangePassword(ctx, string(old), string(pw)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
