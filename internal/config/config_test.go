package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualitygate/qualitygate/internal/domain"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Second, cfg.Scan.TimeoutPerFile.Std())
	assert.Equal(t, 4, cfg.Scan.Jobs)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, float64(70), cfg.Gate.MinOverallScore)
	assert.Equal(t, 0, cfg.Gate.MaxCriticalFindings)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
scan:
  timeout_per_file: 5s
  jobs: 8
gate:
  min_overall_score: 85
report:
  format: json
rules:
  - id: internal-hostname
    severity: warning
    pattern: corp\.example\.com
    message: internal hostname in source
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5*time.Second, cfg.Scan.TimeoutPerFile.Std())
	assert.Equal(t, 8, cfg.Scan.Jobs)
	assert.Equal(t, float64(85), cfg.Gate.MinOverallScore)
	assert.Equal(t, "json", cfg.Report.Format)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "internal-hostname", cfg.Rules[0].ID)

	// Untouched sections keep their defaults.
	assert.Equal(t, int64(1<<20), cfg.Scan.MaxFileSize)
	assert.Equal(t, 40, cfg.Weights[domain.CategorySecurity])
}

func TestLoad_EnvVariable(t *testing.T) {
	path := writeConfig(t, "gate:\n  min_overall_score: 50\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, float64(50), cfg.Gate.MinOverallScore)
}

func TestLoad_NoConfigUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Gate, cfg.Gate)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := writeConfig(t, "gate: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate_Weights(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "weights must sum to 100",
			mutate: func(c *Config) {
				c.Weights[domain.CategoryStyle] = 50
			},
			wantErr: "sum to 100",
		},
		{
			name: "missing category",
			mutate: func(c *Config) {
				delete(c.Weights, domain.CategoryCoverage)
			},
			wantErr: "missing category",
		},
		{
			name: "unknown format",
			mutate: func(c *Config) {
				c.Report.Format = "xml"
			},
			wantErr: "report.format",
		},
		{
			name: "bad rule pattern",
			mutate: func(c *Config) {
				c.Rules = []RuleConfig{{ID: "r", Severity: "warning", Pattern: "("}}
			},
			wantErr: "invalid pattern",
		},
		{
			name: "bad rule severity",
			mutate: func(c *Config) {
				c.Rules = []RuleConfig{{ID: "r", Severity: "high", Pattern: "x"}}
			},
			wantErr: "invalid severity",
		},
		{
			name: "zero jobs",
			mutate: func(c *Config) {
				c.Scan.Jobs = 0
			},
			wantErr: "scan.jobs",
		},
		{
			name: "email enabled without host",
			mutate: func(c *Config) {
				c.Email.Enabled = true
				c.Email.ToAddress = "dev@example.com"
				c.Email.FromAddress = "gate@example.com"
			},
			wantErr: "smtp_host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuration_Unmarshal(t *testing.T) {
	path := writeConfig(t, "scan:\n  timeout_per_file: not-a-duration\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}
