package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/auth"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/config"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/lockout"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/repomanager"
	"github.com/dmitrijs2005/urbanmobility/internal/services"
	"github.com/dmitrijs2005/urbanmobility/internal/storage"
)

// App is one console session with everything it needs opened.
type App struct {
	log logging.Logger

	db       *sql.DB
	auditLog *audit.Log

	auth       auth.Authenticator
	users      *services.UserService
	scooters   *services.ScooterService
	travellers *services.TravellerService
	events     *services.AuditService
	lockout    *lockout.Tracker

	session rbac.Session

	in  *bufio.Reader
	out io.Writer
}

// Keys are the two ciphers and the blind index built from the key files.
type Keys struct {
	Field *cryptox.FieldCipher
	Index *cryptox.BlindIndex
	Audit *cryptox.FieldCipher
}

// LoadKeys reads (creating on first run) the field and audit key files.
// The two must be different files.
func LoadKeys(cfg *config.Config) (Keys, error) {
	if filepath.Clean(cfg.FieldKeyFile) == filepath.Clean(cfg.AuditKeyFile) {
		return Keys{}, fmt.Errorf("%w: field key and audit key must be separate files", common.ErrInvalidKey)
	}

	fieldKey, err := cryptox.LoadOrCreateKey(cfg.FieldKeyFile)
	if err != nil {
		return Keys{}, fmt.Errorf("field key: %w", err)
	}
	defer common.WipeByteArray(fieldKey)

	auditKey, err := cryptox.LoadOrCreateKey(cfg.AuditKeyFile)
	if err != nil {
		return Keys{}, fmt.Errorf("audit key: %w", err)
	}
	defer common.WipeByteArray(auditKey)

	var k Keys
	if k.Field, err = cryptox.NewFieldCipher(fieldKey); err != nil {
		return Keys{}, err
	}
	if k.Index, err = cryptox.NewBlindIndex(fieldKey); err != nil {
		return Keys{}, err
	}
	if k.Audit, err = cryptox.NewFieldCipher(auditKey); err != nil {
		return Keys{}, err
	}
	return k, nil
}

// Open loads the keys, opens the database and the audit log, and wires the
// services. Input is read from in and output written to out.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	keys, err := LoadKeys(cfg)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return nil, err
	}

	auditLog, err := audit.Open(cfg.AuditLogFile, keys.Audit)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := repomanager.NewSQLiteRepositoryManager()
	deps := services.Deps{
		DB:     db,
		Repos:  repos,
		Cipher: keys.Field,
		Index:  keys.Index,
		Audit:  auditLog,
		Log:    log,
	}

	log.Debug(ctx, "console opened", "database", cfg.DatabaseFile, "audit_log", cfg.AuditLogFile)

	return &App{
		log:        log,
		db:         db,
		auditLog:   auditLog,
		auth:       auth.NewService(repos.Users(db), keys.Field, auditLog, log),
		users:      services.NewUserService(deps),
		scooters:   services.NewScooterService(deps),
		travellers: services.NewTravellerService(deps),
		events:     services.NewAuditService(deps, auditLog),
		lockout:    lockout.New(cfg.MaxLoginAttempts, cfg.LockoutDuration),
		in:         bufio.NewReader(in),
		out:        out,
	}, nil
}

// OpenStdio is Open on the process's standard streams.
func OpenStdio(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	return Open(ctx, cfg, log, os.Stdin, os.Stdout)
}

func (a *App) Close() error {
	return errors.Join(a.auditLog.Close(), a.db.Close())
}

// Run logs the operator in and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Urban Mobility backend console")

	p, err := a.Login(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	ctx = rbac.WithPrincipal(ctx, p)

	runREPL(ctx, a, a.status, a.in, a.out, a.log)
	return nil
}

func (a *App) status() string {
	p := a.session.Principal()
	if !p.Authenticated() {
		return ""
	}
	return fmt.Sprintf("(%s:%s)", p.Username, p.Role)
}

func (a *App) role() rbac.Role {
	p := a.session.Principal()
	if !p.Authenticated() {
		return rbac.RoleUnknown
	}
	return p.Role
}
