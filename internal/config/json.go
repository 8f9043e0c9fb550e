package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/urbanmobility/internal/flagx"
	"github.com/dmitrijs2005/urbanmobility/internal/timex"
)

// JsonConfig is the on-disk form of Config. Pointer fields tell an absent
// value from a zero one.
type JsonConfig struct {
	DatabaseFile     string          `json:"database_file"`
	FieldKeyFile     string          `json:"field_key_file"`
	AuditLogFile     string          `json:"audit_log_file"`
	AuditKeyFile     string          `json:"audit_key_file"`
	LogFile          string          `json:"log_file"`
	Debug            *bool           `json:"debug"`
	MaxLoginAttempts *int            `json:"max_login_attempts"`
	LockoutDuration  *timex.Duration `json:"lockout_duration"`
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the JSON file named in args, if any. It
// panics on read or decode errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.DatabaseFile, jc.DatabaseFile)
	setIfNotEmpty(&cfg.FieldKeyFile, jc.FieldKeyFile)
	setIfNotEmpty(&cfg.AuditLogFile, jc.AuditLogFile)
	setIfNotEmpty(&cfg.AuditKeyFile, jc.AuditKeyFile)
	setIfNotEmpty(&cfg.LogFile, jc.LogFile)
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	if jc.MaxLoginAttempts != nil {
		cfg.MaxLoginAttempts = *jc.MaxLoginAttempts
	}
	if jc.LockoutDuration != nil {
		cfg.LockoutDuration = jc.LockoutDuration.Duration
	}
}
