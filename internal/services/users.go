package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

// tempPasswordBytes is the entropy of a generated temporary password; the
// password itself is hex, twice as long.
const tempPasswordBytes = 8

// Account is an operator account with its fields decrypted.
type Account struct {
	ID               int64
	Username         string
	Role             rbac.Role
	FirstName        string
	LastName         string
	RegistrationDate string
}

// NewAccount is the input of Create and Bootstrap.
type NewAccount struct {
	Username  string
	Password  string
	Role      rbac.Role
	FirstName string
	LastName  string
}

// ProfileUpdate changes the name fields of an account. Empty fields are
// left as they are.
type ProfileUpdate struct {
	Username  string
	FirstName string
	LastName  string
}

// UserService administers operator accounts. An actor may only create,
// modify, reset or delete accounts of a role it strictly outranks.
type UserService struct {
	base
	genPassword func() (string, error)
}

func NewUserService(d Deps) *UserService {
	return &UserService{
		base:        newBase(d),
		genPassword: func() (string, error) { return common.MakeRandHexString(tempPasswordBytes) },
	}
}

func validateUsername(username string) error {
	if utf8.RuneCountInString(username) < cryptox.MinUsernameLength {
		return fmt.Errorf("%w: username must have at least %d characters", common.ErrInvalidInput, cryptox.MinUsernameLength)
	}
	return nil
}

// Create adds an account. The registration date is captured once and used
// both for the password salt and for the stored column.
func (s *UserService) Create(ctx context.Context, in NewAccount) (Account, error) {
	p := rbac.PrincipalFrom(ctx)
	if !p.CanManage(in.Role) {
		s.deny(ctx, p, "create user", "cannot create "+in.Role.String())
		return Account{}, common.ErrForbidden
	}

	acc, err := s.insert(ctx, s.Repos.Users(s.DB), in)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.record(ctx, p, "create user failed", "username already exists", true)
		}
		return Account{}, err
	}

	s.record(ctx, p, "user created", fmt.Sprintf("username: %s, role: %s", acc.Username, acc.Role), false)
	return acc, nil
}

type userCreator interface {
	Create(ctx context.Context, u *models.User) (int64, error)
}

func (s *UserService) insert(ctx context.Context, repo userCreator, in NewAccount) (Account, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return Account{}, err
	}
	if in.Password == "" {
		return Account{}, fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return Account{}, fmt.Errorf("%w: unknown role", common.ErrInvalidInput)
	}

	reg := models.NewRegistrationDate(s.Now())
	hash, err := cryptox.HashPassword(in.Password, cryptox.SaltAttributes{
		Username:         username,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		RegistrationDate: reg,
	})
	if err != nil {
		return Account{}, err
	}

	sl := sealer{c: s.Cipher}
	u := &models.User{
		UsernameIndex:    s.Index.Compute(cryptox.IndexUsername, username),
		Username:         sl.seal(username),
		PasswordHash:     sl.seal(hash),
		Role:             sl.seal(in.Role.String()),
		FirstName:        sl.seal(in.FirstName),
		LastName:         sl.seal(in.LastName),
		RegistrationDate: reg,
	}
	if sl.err != nil {
		return Account{}, sl.err
	}

	id, err := repo.Create(ctx, u)
	if err != nil {
		return Account{}, err
	}
	return Account{
		ID:               id,
		Username:         username,
		Role:             in.Role,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		RegistrationDate: reg,
	}, nil
}

// Bootstrap creates the first super admin. It only succeeds while no
// account exists and needs no principal.
func (s *UserService) Bootstrap(ctx context.Context, in NewAccount) (Account, error) {
	in.Role = rbac.SuperAdmin

	var acc Account
	err := dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.Repos.Users(tx)
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return common.ErrorAlreadyExists
		}
		acc, err = s.insert(ctx, repo, in)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.record(ctx, rbac.Principal{}, "bootstrap refused", "accounts already exist", true)
		}
		return Account{}, err
	}

	if err := s.Audit.Record(ctx, "system", "super admin bootstrapped", "username: "+acc.Username, false); err != nil {
		s.Log.Error(ctx, "audit record failed", "error", err)
	}
	return acc, nil
}

func (s *UserService) open(u *models.User) Account {
	role, _ := rbac.ParseRole(s.Cipher.Decrypt(u.Role))
	return Account{
		ID:               u.ID,
		Username:         s.Cipher.Decrypt(u.Username),
		Role:             role,
		FirstName:        s.Cipher.Decrypt(u.FirstName),
		LastName:         s.Cipher.Decrypt(u.LastName),
		RegistrationDate: u.RegistrationDate,
	}
}

// List returns all accounts. Requires SystemAdmin.
func (s *UserService) List(ctx context.Context) ([]Account, error) {
	if _, err := s.authorize(ctx, rbac.SystemAdmin, "list users"); err != nil {
		return nil, err
	}
	rows, err := s.Repos.Users(s.DB).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(rows))
	for i := range rows {
		out = append(out, s.open(&rows[i]))
	}
	return out, nil
}

// Get looks an account up by username, ignoring case. Requires SystemAdmin.
func (s *UserService) Get(ctx context.Context, username string) (Account, error) {
	if _, err := s.authorize(ctx, rbac.SystemAdmin, "view user"); err != nil {
		return Account{}, err
	}
	u, err := s.byUsername(ctx, username)
	if err != nil {
		return Account{}, err
	}
	return s.open(u), nil
}

func (s *UserService) byUsername(ctx context.Context, username string) (*models.User, error) {
	idx := s.Index.Compute(cryptox.IndexUsername, strings.TrimSpace(username))
	return s.Repos.Users(s.DB).GetByIndex(ctx, idx)
}

// managed loads the target account and checks that the context principal
// may administer it.
func (s *UserService) managed(ctx context.Context, username, action string) (rbac.Principal, *models.User, error) {
	p := rbac.PrincipalFrom(ctx)
	if !p.HasRequiredRole(rbac.SystemAdmin) {
		s.deny(ctx, p, action, "requires "+rbac.SystemAdmin.String())
		return rbac.Principal{}, nil, common.ErrForbidden
	}
	u, err := s.byUsername(ctx, username)
	if err != nil {
		return rbac.Principal{}, nil, err
	}
	role, _ := rbac.ParseRole(s.Cipher.Decrypt(u.Role))
	if !p.CanManage(role) {
		s.deny(ctx, p, action, "target: "+s.Cipher.Decrypt(u.Username))
		return rbac.Principal{}, nil, common.ErrForbidden
	}
	return p, u, nil
}

// UpdateProfile renames an account or changes its first or last name.
//
// These fields are part of the password salt and the stored hash is not
// recomputed, so after any change the account cannot log in until its
// password is reset. The returned bool reports whether that happened.
func (s *UserService) UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (Account, bool, error) {
	p, u, err := s.managed(ctx, username, "update user")
	if err != nil {
		return Account{}, false, err
	}

	acc := s.open(u)
	before := acc
	if v := strings.TrimSpace(upd.Username); v != "" {
		if err := validateUsername(v); err != nil {
			return Account{}, false, err
		}
		acc.Username = v
	}
	if upd.FirstName != "" {
		acc.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		acc.LastName = upd.LastName
	}

	sl := sealer{c: s.Cipher}
	u.UsernameIndex = s.Index.Compute(cryptox.IndexUsername, acc.Username)
	u.Username = sl.seal(acc.Username)
	u.FirstName = sl.seal(acc.FirstName)
	u.LastName = sl.seal(acc.LastName)
	if sl.err != nil {
		return Account{}, false, sl.err
	}
	if err := s.Repos.Users(s.DB).Update(ctx, u); err != nil {
		return Account{}, false, err
	}

	resetNeeded := acc.Username != before.Username || acc.FirstName != before.FirstName || acc.LastName != before.LastName
	detail := "username: " + acc.Username
	if resetNeeded {
		detail += "; password reset required"
	}
	s.record(ctx, p, "user updated", detail, false)
	return acc, resetNeeded, nil
}

// ResetPassword sets a generated temporary password on the account and
// returns it. The hash is computed from the account's stored attributes.
func (s *UserService) ResetPassword(ctx context.Context, username string) (string, error) {
	p, u, err := s.managed(ctx, username, "reset password")
	if err != nil {
		return "", err
	}

	temp, err := s.genPassword()
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	if err := s.setPassword(ctx, u, temp); err != nil {
		return "", err
	}
	s.record(ctx, p, "password reset", "username: "+s.Cipher.Decrypt(u.Username), false)
	return temp, nil
}

// ChangePassword changes the password of the logged-in account after
// checking its current password.
func (s *UserService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	p := rbac.PrincipalFrom(ctx)
	if !p.Authenticated() {
		s.deny(ctx, p, "change password", "not logged in")
		return common.ErrForbidden
	}
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}

	u, err := s.byUsername(ctx, p.Username)
	if err != nil {
		return err
	}
	ok, err := cryptox.VerifyPassword(oldPassword, s.Cipher.Decrypt(u.PasswordHash), s.saltOf(u))
	if err != nil || !ok {
		s.record(ctx, p, "change password failed", "wrong current password", true)
		return common.ErrAuthenticationFailed
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}
	s.record(ctx, p, "password changed", "", false)
	return nil
}

func (s *UserService) saltOf(u *models.User) cryptox.SaltAttributes {
	return cryptox.SaltAttributes{
		Username:         s.Cipher.Decrypt(u.Username),
		FirstName:        s.Cipher.Decrypt(u.FirstName),
		LastName:         s.Cipher.Decrypt(u.LastName),
		RegistrationDate: u.RegistrationDate,
	}
}

func (s *UserService) setPassword(ctx context.Context, u *models.User, password string) error {
	hash, err := cryptox.HashPassword(password, s.saltOf(u))
	if err != nil {
		return err
	}
	sealed, err := s.Cipher.Encrypt(hash)
	if err != nil {
		return err
	}
	return s.Repos.Users(s.DB).UpdatePasswordHash(ctx, u.ID, sealed)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, username string) error {
	p, u, err := s.managed(ctx, username, "delete user")
	if err != nil {
		return err
	}
	if err := s.Repos.Users(s.DB).Delete(ctx, u.ID); err != nil {
		return err
	}
	s.record(ctx, p, "user deleted", "username: "+s.Cipher.Decrypt(u.Username), false)
	return nil
}
