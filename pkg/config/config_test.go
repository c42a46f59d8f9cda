package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KERNEL_EXECUTOR_GID", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("KERNEL_LEDGER_PATH", "")
	t.Setenv("KERNEL_VELOCITY_ENFORCE", "")

	cfg := Load()
	assert.Equal(t, "GID-00-EXEC", cfg.ExecutorGID)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "kernel.db", cfg.LedgerPath)
	assert.True(t, cfg.VelocityEnforce)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KERNEL_EXECUTOR_GID", "GID-09-EXEC")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("KERNEL_VELOCITY_ENFORCE", "false")

	cfg := Load()
	assert.Equal(t, "GID-09-EXEC", cfg.ExecutorGID)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.False(t, cfg.VelocityEnforce)
}

func TestLoadFrictionRequirementsDefaults(t *testing.T) {
	reqs, err := LoadFrictionRequirements("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, reqs[artifact.TierLaw].MinDwell)
	assert.Equal(t, 20, reqs[artifact.TierOperational].MaxPerMinute)
}

func TestLoadFrictionRequirementsOverrides(t *testing.T) {
	policy := `
tiers:
  LAW:
    min_dwell_seconds: 10
    max_per_minute: 1
  GUIDANCE:
    remember_allowed: false
    max_attempts: 2
`
	path := filepath.Join(t.TempDir(), "friction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))

	reqs, err := LoadFrictionRequirements(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, reqs[artifact.TierLaw].MinDwell)
	assert.Equal(t, 1, reqs[artifact.TierLaw].MaxPerMinute)
	assert.False(t, reqs[artifact.TierGuidance].RememberAllowed)
	assert.Equal(t, 2, reqs[artifact.TierGuidance].MaxAttempts)
	// Untouched tiers keep their defaults.
	assert.Equal(t, 3*time.Second, reqs[artifact.TierPolicy].MinDwell)
}

func TestLoadFrictionRequirementsCannotGrantRememberToLaw(t *testing.T) {
	policy := `
tiers:
  LAW:
    remember_allowed: true
  POLICY:
    remember_allowed: true
`
	path := filepath.Join(t.TempDir(), "friction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))

	reqs, err := LoadFrictionRequirements(path)
	require.NoError(t, err)
	assert.False(t, reqs[artifact.TierLaw].RememberAllowed)
	assert.False(t, reqs[artifact.TierPolicy].RememberAllowed)
}

func TestLoadFrictionRequirementsRejectsUnknownTier(t *testing.T) {
	policy := "tiers:\n  SUPREME:\n    min_dwell_seconds: 1\n"
	path := filepath.Join(t.TempDir(), "friction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))

	_, err := LoadFrictionRequirements(path)
	assert.Error(t, err)
}

func TestLoadFrictionRequirementsMissingFile(t *testing.T) {
	_, err := LoadFrictionRequirements(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
