package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/payments-engine/internal/common"
)

// Viper keys.
const (
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"
	KeySort      = "report.sort"
	KeyExportDB  = "export.database"
	KeyProgress  = "output.progress"
	KeySummary   = "output.summary"
)

// RunConfig holds the settings for a single processing run.
type RunConfig struct {
	LogLevel  string
	LogFormat string
	// ExportDatabase is the SQLite path for the account export, or "" to skip.
	ExportDatabase string
	Sort           bool
	Progress       bool
	Summary        bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeySort, true)
	v.SetDefault(KeyExportDB, "")
	v.SetDefault(KeyProgress, false)
	v.SetDefault(KeySummary, false)
}

// LoadRunConfig reads the run settings from v.
func LoadRunConfig(v *viper.Viper) (*RunConfig, error) {
	cfg := &RunConfig{
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		ExportDatabase: ExpandPath(v.GetString(KeyExportDB)),
		Sort:           v.GetBool(KeySort),
		Progress:       v.GetBool(KeyProgress),
		Summary:        v.GetBool(KeySummary),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the logging settings.
func (c *RunConfig) Validate() error {
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
}
