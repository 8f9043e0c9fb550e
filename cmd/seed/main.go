// Command seed creates the first super admin account of an empty
// installation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
	"github.com/dmitrijs2005/urbanmobility/internal/cli"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/config"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/repomanager"
	"github.com/dmitrijs2005/urbanmobility/internal/services"
	"github.com/dmitrijs2005/urbanmobility/internal/storage"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])

	logger, closer, err := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closer.Close()

	if err := seed(ctx, cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func seed(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	keys, err := cli.LoadKeys(cfg)
	if err != nil {
		return err
	}

	db, err := storage.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return err
	}
	defer db.Close()

	auditLog, err := audit.Open(cfg.AuditLogFile, keys.Audit)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	users := services.NewUserService(services.Deps{
		DB:     db,
		Repos:  repomanager.NewSQLiteRepositoryManager(),
		Cipher: keys.Field,
		Index:  keys.Index,
		Audit:  auditLog,
		Log:    logger,
	})

	in := bufio.NewReader(os.Stdin)
	var acc services.NewAccount
	if acc.Username, err = cli.GetSimpleText(in, "Super admin username", os.Stdout); err != nil {
		return err
	}
	if acc.FirstName, err = cli.GetSimpleText(in, "First name", os.Stdout); err != nil {
		return err
	}
	if acc.LastName, err = cli.GetSimpleText(in, "Last name", os.Stdout); err != nil {
		return err
	}

	pw, err := cli.GetPassword("Password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	again, err := cli.GetPassword("Repeat password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)
	if string(pw) != string(again) {
		return fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)
	}
	acc.Password = string(pw)

	created, err := users.Bootstrap(ctx, acc)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	fmt.Printf("Super admin %s created.\n", created.Username)
	return nil
}
