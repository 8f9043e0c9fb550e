// Command rotatekeys re-encrypts the database and the audit log under fresh
// keys. Run it only while no console is open.
//
//	rotatekeys -confirm [-new-key path] [-new-audit-key path] [config flags]
//
// The new keys are written to their own files first; the old key files are
// left in place and can be removed once the console runs with the new ones.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/cli"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/config"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/flagx"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/maintenance"
	"github.com/dmitrijs2005/urbanmobility/internal/storage"
)

type options struct {
	confirm     bool
	newKey      string
	newAuditKey string
}

func parseOptions(args []string, cfg *config.Config) options {
	o := options{
		newKey:      cfg.FieldKeyFile + ".new",
		newAuditKey: cfg.AuditKeyFile + ".new",
	}
	fs := flag.NewFlagSet("rotatekeys", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&o.confirm, "confirm", false, "really rotate")
	fs.StringVar(&o.newKey, "new-key", o.newKey, "file for the new field key")
	fs.StringVar(&o.newAuditKey, "new-audit-key", o.newAuditKey, "file for the new audit key")

	filtered := flagx.FilterArgs(args, []string{"-confirm", "-new-key", "-new-audit-key"}, "-confirm")
	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}
	return o
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	opts := parseOptions(os.Args[1:], cfg)

	logger, closer, err := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closer.Close()

	if !opts.confirm {
		fmt.Fprintln(os.Stderr, "rotatekeys rewrites all encrypted data; stop every console and rerun with -confirm")
		os.Exit(2)
	}

	if err := rotate(ctx, cfg, opts, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func newKey(path string) (*cryptox.FieldCipher, *cryptox.BlindIndex, error) {
	key := common.GenerateRandByteArray(cryptox.KeySize)
	defer common.WipeByteArray(key)

	if err := cryptox.WriteKey(path, key); err != nil {
		return nil, nil, err
	}
	c, err := cryptox.NewFieldCipher(key)
	if err != nil {
		return nil, nil, err
	}
	idx, err := cryptox.NewBlindIndex(key)
	if err != nil {
		return nil, nil, err
	}
	return c, idx, nil
}

func rotate(ctx context.Context, cfg *config.Config, opts options, logger logging.Logger) error {
	old, err := cli.LoadKeys(cfg)
	if err != nil {
		return err
	}

	field, index, err := newKey(opts.newKey)
	if err != nil {
		return fmt.Errorf("new field key: %w", err)
	}
	auditCipher, _, err := newKey(opts.newAuditKey)
	if err != nil {
		return fmt.Errorf("new audit key: %w", err)
	}

	db, err := storage.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return err
	}
	defer db.Close()

	dbRep, err := maintenance.RotateFieldKey(ctx, db, old.Field, field, index)
	if err != nil {
		return fmt.Errorf("rotate database: %w", err)
	}
	logRep, err := maintenance.RotateAuditLog(cfg.AuditLogFile, old.Audit, auditCipher)
	if err != nil {
		return fmt.Errorf("rotate audit log (database already uses %s): %w", opts.newKey, err)
	}

	auditLog, err := audit.Open(cfg.AuditLogFile, auditCipher)
	if err != nil {
		return err
	}
	detail := fmt.Sprintf("users: %d, scooters: %d, travellers: %d, log lines: %d",
		dbRep.Users, dbRep.Scooters, dbRep.Travellers, logRep.Lines)
	err = errors.Join(
		auditLog.Record(ctx, "system", "keys rotated", detail, false),
		auditLog.Close(),
	)
	if err != nil {
		return err
	}

	skipped := dbRep.Skipped + logRep.Skipped
	if skipped > 0 {
		logger.Warn(ctx, "values left under an unknown key", "count", skipped)
	}

	fmt.Println("Rotated", detail)
	fmt.Printf("Start the console with -key %s -audit-key %s and remove the old key files.\n", opts.newKey, opts.newAuditKey)
	return nil
}
