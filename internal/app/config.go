package app

import "fmt"

// Config holds all the necessary configuration for an App instance to run.
// Path fields left empty are resolved from the config file, or from built-in
// defaults when no config file is present.
type Config struct {
	ConfigPath  string // hcl config file
	ModulesPath string // module artifacts directory
	LedgerPath  string // integrity ledger file
	HistoryFile string // shell line history

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	// Flags may leave the path fields empty; the config file and defaults
	// fill the gaps during NewApp. Log level and format are validated in the
	// CLI layer.
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is outside 0-65535", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
