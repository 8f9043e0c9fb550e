package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/urbanmobility/internal/flagx"
)

var (
	configFlags = []string{"-db", "-key", "-audit", "-audit-key", "-log", "-debug", "-max-attempts", "-lockout"}
	boolFlags   = []string{"-debug"}
)

// parseFlags overlays cfg with the config flags found in args. Flags owned
// by other components are ignored. It panics on a malformed value.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "database file")
	fs.StringVar(&cfg.FieldKeyFile, "key", cfg.FieldKeyFile, "field encryption key file")
	fs.StringVar(&cfg.AuditLogFile, "audit", cfg.AuditLogFile, "audit log file")
	fs.StringVar(&cfg.AuditKeyFile, "audit-key", cfg.AuditKeyFile, "audit log key file")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "diagnostic log file")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose diagnostics")
	fs.IntVar(&cfg.MaxLoginAttempts, "max-attempts", cfg.MaxLoginAttempts, "failed logins before lockout")
	fs.DurationVar(&cfg.LockoutDuration, "lockout", cfg.LockoutDuration, "lockout duration")

	if err := fs.Parse(flagx.FilterArgs(args, configFlags, boolFlags...)); err != nil {
		panic(err)
	}
}
