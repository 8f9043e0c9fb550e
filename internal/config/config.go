package config

import "time"

// Config holds the console's runtime settings.
type Config struct {
	DatabaseFile string
	FieldKeyFile string
	AuditLogFile string
	AuditKeyFile string

	// LogFile receives diagnostic logs; empty means stderr.
	LogFile string
	Debug   bool

	// MaxLoginAttempts consecutive failures lock a username for
	// LockoutDuration. Zero disables locking.
	MaxLoginAttempts int
	LockoutDuration  time.Duration
}

// LoadDefaults populates c with the default layout: data files under data/,
// audit files under logs/.
func (c *Config) LoadDefaults() {
	c.DatabaseFile = "data/urban_mobility.db"
	c.FieldKeyFile = "data/encryption.key"
	c.AuditLogFile = "logs/audit.log"
	c.AuditKeyFile = "logs/log.key"
	c.LogFile = ""
	c.Debug = false
	c.MaxLoginAttempts = 3
	c.LockoutDuration = 15 * time.Minute
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c
// or -config, then flags. Later sources win. args excludes the program
// name. It panics on an unreadable config file or a malformed flag value.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
