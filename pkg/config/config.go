// Package config loads kernel configuration from the environment, with
// optional per-tier friction overrides from a YAML policy file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
	"github.com/chainbridge-occ/kernel/pkg/friction"
)

// Config holds kernel configuration.
type Config struct {
	ExecutorGID     string
	LogLevel        string
	LedgerPath      string
	FrictionPolicy  string
	VelocityEnforce bool
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() *Config {
	executor := os.Getenv("KERNEL_EXECUTOR_GID")
	if executor == "" {
		executor = "GID-00-EXEC"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	ledgerPath := os.Getenv("KERNEL_LEDGER_PATH")
	if ledgerPath == "" {
		ledgerPath = "kernel.db"
	}

	return &Config{
		ExecutorGID:     executor,
		LogLevel:        logLevel,
		LedgerPath:      ledgerPath,
		FrictionPolicy:  os.Getenv("KERNEL_FRICTION_POLICY"),
		VelocityEnforce: os.Getenv("KERNEL_VELOCITY_ENFORCE") != "false",
	}
}

// tierOverride is one tier's row in the friction policy file. Zero
// fields leave the default untouched.
type tierOverride struct {
	MinDwellSeconds      int   `yaml:"min_dwell_seconds"`
	MaxAttempts          int   `yaml:"max_attempts"`
	ResponseLimitSeconds int   `yaml:"response_limit_seconds"`
	MaxPerMinute         int   `yaml:"max_per_minute"`
	RememberAllowed      *bool `yaml:"remember_allowed"`
}

type frictionPolicyFile struct {
	Tiers map[string]tierOverride `yaml:"tiers"`
}

// LoadFrictionRequirements returns the default tier ladder with any
// overrides from the policy file applied. An empty path returns the
// defaults unchanged. Law and Policy can never gain the remember
// shortcut, whatever the file says.
func LoadFrictionRequirements(path string) (friction.Requirements, error) {
	reqs := friction.DefaultRequirements()
	if path == "" {
		return reqs, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read friction policy: %w", err)
	}
	var file frictionPolicyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse friction policy: %w", err)
	}

	for name, override := range file.Tiers {
		tier, err := artifact.ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("friction policy: %w", err)
		}
		req := reqs[tier]
		if override.MinDwellSeconds > 0 {
			req.MinDwell = time.Duration(override.MinDwellSeconds) * time.Second
		}
		if override.MaxAttempts > 0 {
			req.MaxAttempts = override.MaxAttempts
		}
		if override.ResponseLimitSeconds > 0 {
			req.ResponseTimeLimit = time.Duration(override.ResponseLimitSeconds) * time.Second
		}
		if override.MaxPerMinute > 0 {
			req.MaxPerMinute = override.MaxPerMinute
		}
		if override.RememberAllowed != nil {
			if tier == artifact.TierLaw || tier == artifact.TierPolicy {
				req.RememberAllowed = false
			} else {
				req.RememberAllowed = *override.RememberAllowed
			}
		}
		reqs[tier] = req
	}
	return reqs, nil
}
