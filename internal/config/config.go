// Package config loads application configuration from file and
// environment, and wires the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Roster    RosterConfig    `yaml:"roster" mapstructure:"roster"`
	Schema    SchemaConfig    `yaml:"schema" mapstructure:"schema"`
	Targets   TargetsConfig   `yaml:"targets" mapstructure:"targets"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// RosterConfig locates the agent roster export.
type RosterConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SchemaConfig optionally overrides the built-in source registry.
type SchemaConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// TargetsConfig holds the fixed per-department goals.
type TargetsConfig struct {
	Conversion DepartmentTargetsConfig `yaml:"conversion" mapstructure:"conversion"`
	Retention  DepartmentTargetsConfig `yaml:"retention" mapstructure:"retention"`
}

// DepartmentTargetsConfig holds one department's goals.
type DepartmentTargetsConfig struct {
	DurationSeconds int `yaml:"duration_seconds" mapstructure:"duration_seconds"`
	Attempts        int `yaml:"attempts" mapstructure:"attempts"`
	Unique          int `yaml:"unique" mapstructure:"unique"`
}

// ReconcileConfig configures the reconciliation run.
type ReconcileConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ReportConfig configures the workbook output.
type ReportConfig struct {
	Output              string   `yaml:"output" mapstructure:"output"`
	ConversionDeskOrder []string `yaml:"conversion_desk_order" mapstructure:"conversion_desk_order"`
	RetentionDeskOrder  []string `yaml:"retention_desk_order" mapstructure:"retention_desk_order"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGENTPERF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("reconcile.workers", 4)
	v.SetDefault("report.output", "Agent_Results.xlsx")
	v.SetDefault("report.conversion_desk_order", []string{
		"Team Elly", "Team Vincent", "Team Rahul", "Team Sameer",
		"Team Eden", "Team Elena", "Team Larisa",
	})
	v.SetDefault("report.retention_desk_order", []string{
		"Japan Team", "Korean Team", "Aarav Team", "Ajay Team",
		"French Maxime", "AKA Team", "Spanish Andres", "Portuguese Pedro",
	})
	// Duration and unique goals predate this tool; attempts goals were
	// added with it. All are plain configuration.
	v.SetDefault("targets.conversion.duration_seconds", 9000) // 2h30m
	v.SetDefault("targets.conversion.attempts", 500)
	v.SetDefault("targets.conversion.unique", 300)
	v.SetDefault("targets.retention.duration_seconds", 14400) // 4h
	v.SetDefault("targets.retention.attempts", 200)
	v.SetDefault("targets.retention.unique", 20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
