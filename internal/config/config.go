package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qualitygate/qualitygate/internal/domain"
	"github.com/qualitygate/qualitygate/internal/util"
)

// EnvConfigPath names the environment variable pointing at a config file.
const EnvConfigPath = "QUALITYGATE_CONFIG"

// Config holds all application configuration
type Config struct {
	Scan    ScanConfig              `yaml:"scan"`
	Weights map[domain.Category]int `yaml:"weights"`
	Gate    GateConfig              `yaml:"gate"`
	Report  ReportConfig            `yaml:"report"`
	Rules   []RuleConfig            `yaml:"rules"`
	Email   EmailConfig             `yaml:"email"`
	Verbose bool                    `yaml:"-"` // Set via CLI only
}

// ScanConfig holds scanner execution settings
type ScanConfig struct {
	TimeoutPerFile Duration `yaml:"timeout_per_file"`
	Jobs           int      `yaml:"jobs"`
	MaxFileSize    int64    `yaml:"max_file_size"`
	Exclude        []string `yaml:"exclude"`
}

// GateConfig holds the admission thresholds
type GateConfig struct {
	MinOverallScore     float64 `yaml:"min_overall_score"`
	MaxCriticalFindings int     `yaml:"max_critical_findings"`
}

// Policy converts the config values into a gate policy
func (g GateConfig) Policy() domain.GatePolicy {
	return domain.GatePolicy{
		MinOverallScore:     g.MinOverallScore,
		MaxCriticalFindings: g.MaxCriticalFindings,
	}
}

// ReportConfig holds report output settings
type ReportConfig struct {
	Format string `yaml:"format"` // text, json, sarif
	Out    string `yaml:"out"`    // empty picks quality-report.<ext>
}

// RuleConfig is an extra security rule loaded from the config file
type RuleConfig struct {
	ID       string `yaml:"id"`
	Severity string `yaml:"severity"`
	Pattern  string `yaml:"pattern"`
	Message  string `yaml:"message"`
}

// EmailConfig holds email delivery settings for gate-failure notifications
type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromAddress  string `yaml:"from_address"`
	FromName     string `yaml:"from_name"`
	ToAddress    string `yaml:"to_address"`
}

// Duration wraps time.Duration so values like "2s" parse from YAML
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ValidFormats lists the report formats the reporter can render
var ValidFormats = map[string]bool{
	"text":  true,
	"json":  true,
	"sarif": true,
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			TimeoutPerFile: Duration(2 * time.Second),
			Jobs:           4,
			MaxFileSize:    1 << 20,
		},
		Weights: map[domain.Category]int{
			domain.CategoryStyle:      20,
			domain.CategorySecurity:   40,
			domain.CategoryComplexity: 20,
			domain.CategoryCoverage:   20,
		},
		Gate: GateConfig{
			MinOverallScore:     70,
			MaxCriticalFindings: 0,
		},
		Report: ReportConfig{
			Format: "text",
		},
		Email: EmailConfig{
			Enabled:  false,
			SMTPPort: 587,
			FromName: "qualitygate",
		},
	}
}

// Load reads configuration from file and merges with defaults. An empty
// path falls back to QUALITYGATE_CONFIG; if neither names a file the
// built-in defaults are used. A path that is set but unreadable is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		return cfg, nil
	}

	path = util.ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Report.Out = util.ExpandPath(cfg.Report.Out)

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scan.Jobs <= 0 {
		return fmt.Errorf("scan.jobs must be positive, got %d", c.Scan.Jobs)
	}
	if c.Scan.TimeoutPerFile.Std() <= 0 {
		return fmt.Errorf("scan.timeout_per_file must be positive")
	}
	if c.Scan.MaxFileSize <= 0 {
		return fmt.Errorf("scan.max_file_size must be positive")
	}

	sum := 0
	for _, cat := range domain.AllCategories() {
		w, ok := c.Weights[cat]
		if !ok {
			return fmt.Errorf("weights: missing category %q", cat)
		}
		if w < 0 {
			return fmt.Errorf("weights: category %q has negative weight %d", cat, w)
		}
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("weights must sum to 100, got %d", sum)
	}
	for cat := range c.Weights {
		if !cat.IsValid() {
			return fmt.Errorf("weights: unknown category %q", cat)
		}
	}

	if !ValidFormats[c.Report.Format] {
		return fmt.Errorf("report.format must be one of text, json, sarif; got %q", c.Report.Format)
	}

	if c.Gate.MinOverallScore < 0 || c.Gate.MinOverallScore > 100 {
		return fmt.Errorf("gate.min_overall_score must be in [0,100], got %g", c.Gate.MinOverallScore)
	}
	if c.Gate.MaxCriticalFindings < 0 {
		return fmt.Errorf("gate.max_critical_findings must not be negative")
	}

	for i, r := range c.Rules {
		if r.ID == "" {
			return fmt.Errorf("rules[%d]: id is required", i)
		}
		if _, err := domain.ParseSeverity(r.Severity); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("rules[%d]: invalid pattern: %w", i, err)
		}
	}

	if c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("email.smtp_host is required when email is enabled")
		}
		if c.Email.ToAddress == "" {
			return fmt.Errorf("email.to_address is required when email is enabled")
		}
		if c.Email.FromAddress == "" {
			return fmt.Errorf("email.from_address is required when email is enabled")
		}
	}

	return nil
}
