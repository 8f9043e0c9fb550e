// Package config loads runtime configuration for the console and its
// maintenance commands.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-db string          database file
//	-key string         field encryption key file
//	-audit string       audit log file
//	-audit-key string   audit log key file
//	-log string         diagnostic log file (default stderr)
//	-debug              verbose diagnostics
//	-max-attempts int   failed logins before a username is locked
//	-lockout duration   how long a locked username stays locked
//
// # JSON schema
//
// Durations use timex.Duration, so "15m" and integer nanoseconds both work.
// Absent fields keep their defaults.
//
//	{
//	  "database_file": "data/urban_mobility.db",
//	  "field_key_file": "data/encryption.key",
//	  "audit_log_file": "logs/audit.log",
//	  "audit_key_file": "logs/log.key",
//	  "log_file": "logs/console.log",
//	  "debug": false,
//	  "max_login_attempts": 3,
//	  "lockout_duration": "15m"
//	}
package config
