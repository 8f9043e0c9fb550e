package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/dmitrijs2005/urbanmobility/internal/services"
)

const usersUsage = "users list|show <name>|add|edit <name>|reset <name>|delete <name>"

func (a *App) Users(ctx context.Context, args []string) error {
	switch {
	case len(args) == 1 && args[0] == "list":
		return a.listUsers(ctx)
	case len(args) == 1 && args[0] == "add":
		return a.addUser(ctx)
	case len(args) != 2:
		return usage(usersUsage)
	}

	name := args[1]
	switch args[0] {
	case "show":
		return a.showUser(ctx, name)
	case "edit":
		return a.editUser(ctx, name)
	case "reset":
		return a.resetUser(ctx, name)
	case "delete":
		return a.deleteUser(ctx, name)
	}
	return usage(usersUsage)
}

func (a *App) listUsers(ctx context.Context) error {
	accs, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tNAME\tREGISTERED")
	for _, acc := range accs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\n", acc.ID, acc.Username, acc.Role, acc.FirstName, acc.LastName, acc.RegistrationDate)
	}
	return tw.Flush()
}

func (a *App) showUser(ctx context.Context, name string) error {
	acc, err := a.users.Get(ctx, name)
	if err != nil {
		return err
	}
	printAccount(a, acc)
	return nil
}

func printAccount(a *App, acc services.Account) {
	fmt.Fprintf(a.out, "ID:          %d\n", acc.ID)
	fmt.Fprintf(a.out, "Username:    %s\n", acc.Username)
	fmt.Fprintf(a.out, "Role:        %s\n", acc.Role)
	fmt.Fprintf(a.out, "First name:  %s\n", acc.FirstName)
	fmt.Fprintf(a.out, "Last name:   %s\n", acc.LastName)
	fmt.Fprintf(a.out, "Registered:  %s\n", acc.RegistrationDate)
}

// addUser creates a service engineer, or any role below super admin when
// the actor is a super admin.
func (a *App) addUser(ctx context.Context) error {
	in := services.NewAccount{Role: rbac.ServiceEngineer}

	var err error
	if in.Username, err = GetSimpleText(a.in, "Username", a.out); err != nil {
		return err
	}
	if in.FirstName, err = GetSimpleText(a.in, "First name", a.out); err != nil {
		return err
	}
	if in.LastName, err = GetSimpleText(a.in, "Last name", a.out); err != nil {
		return err
	}
	if rbac.PrincipalFrom(ctx).Role == rbac.SuperAdmin {
		name, err := getOptional(a.in, "Role", rbac.ServiceEngineer.String(), a.out)
		if err != nil {
			return err
		}
		r, ok := rbac.ParseRole(name)
		if !ok {
			return fmt.Errorf("%w: unknown role %q", common.ErrInvalidInput, name)
		}
		in.Role = r
	}

	pw, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	in.Password = string(pw)

	acc, err := a.users.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s %s with id %d.\n", acc.Role, acc.Username, acc.ID)
	return nil
}

func (a *App) editUser(ctx context.Context, name string) error {
	acc, err := a.users.Get(ctx, name)
	if err != nil {
		return err
	}

	var upd services.ProfileUpdate
	if upd.Username, err = getOptional(a.in, "Username", acc.Username, a.out); err != nil {
		return err
	}
	if upd.FirstName, err = getOptional(a.in, "First name", acc.FirstName, a.out); err != nil {
		return err
	}
	if upd.LastName, err = getOptional(a.in, "Last name", acc.LastName, a.out); err != nil {
		return err
	}

	_, resetNeeded, err := a.users.UpdateProfile(ctx, name, upd)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account updated.")
	if resetNeeded {
		fmt.Fprintf(a.out, "The password of this account no longer matches; run 'users reset %s'.\n", upd.Username)
	}
	return nil
}

func (a *App) resetUser(ctx context.Context, name string) error {
	temp, err := a.users.ResetPassword(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Temporary password for %s: %s\n", name, temp)
	return nil
}

func (a *App) deleteUser(ctx context.Context, name string) error {
	ok, err := confirm(a.in, fmt.Sprintf("Delete account %s?", name), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.users.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
