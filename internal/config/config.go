package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/constants"
	"github.com/spf13/viper"
)

// Default performance settings
const (
	// DefaultMaxGoroutines bounds per-file parallelism when the config
	// value is missing or invalid.
	DefaultMaxGoroutines = 4

	// DefaultTimeoutSeconds bounds one whole tool pass. External tool
	// invocations dominate run latency, so this is generous.
	DefaultTimeoutSeconds = 300
)

// DefaultTargetBranch is the reference branch for before/after runs and
// changed-file discovery when the PR metadata does not supply one.
const DefaultTargetBranch = "main"

// Config represents the main configuration structure
type Config struct {
	// Tools holds the external tool command lines
	Tools ToolsConfig `json:"tools" mapstructure:"tools" yaml:"tools"`

	// Git holds source-control settings
	Git GitConfig `json:"git" mapstructure:"git" yaml:"git"`

	// Analysis holds file selection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Performance holds parallelism and timeout configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// ToolConfig describes one external tool invocation. Args may contain
// the placeholders {file} and {before}, substituted per invocation.
type ToolConfig struct {
	Command string   `json:"command" mapstructure:"command" yaml:"command"`
	Args    []string `json:"args" mapstructure:"args" yaml:"args"`
}

// ToolsConfig holds the three external tool command lines
type ToolsConfig struct {
	// Linter is the AutoRest-based specification linter
	Linter ToolConfig `json:"linter" mapstructure:"linter" yaml:"linter"`

	// Diff is the API-diff (breaking change) tool
	Diff ToolConfig `json:"diff" mapstructure:"diff" yaml:"diff"`

	// Validator is the model validator
	Validator ToolConfig `json:"validator" mapstructure:"validator" yaml:"validator"`
}

// GitConfig holds source-control settings
type GitConfig struct {
	// TargetBranch is the PR target branch used as the reference state
	TargetBranch string `json:"target_branch" mapstructure:"target_branch" yaml:"target_branch"`
}

// AnalysisConfig holds file selection configuration
type AnalysisConfig struct {
	// IncludePatterns selects specification files from the changed-file
	// list (glob patterns matched against the base name or full path)
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns removes files from the selection; gitignore syntax
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

// PerformanceConfig holds parallelism and timeout configuration
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent per-file tool invocations
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds one whole tool pass across all files
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json, markdown
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// MinSeverity is the minimum severity to render: info, warning, error
	MinSeverity string `json:"min_severity" mapstructure:"min_severity" yaml:"min_severity"`

	// ShowDetails controls whether per-finding locations are rendered
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			Linter: ToolConfig{
				Command: "autorest",
				Args:    []string{"--validation", "--message-format=json", "{file}"},
			},
			Diff: ToolConfig{
				Command: "oad",
				Args:    []string{"compare", "--old", "{before}", "--new", "{file}", "--json"},
			},
			Validator: ToolConfig{
				Command: "oav",
				Args:    []string{"validate-example", "{file}", "--pretty=false"},
			},
		},
		Git: GitConfig{
			TargetBranch: DefaultTargetBranch,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"*.json", "*.yaml", "*.yml"},
			ExcludePatterns: []string{
				"**/examples/**",
				"**/quickstart-templates/**",
				"node_modules",
				".git",
			},
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Output: OutputConfig{
			Format:      "text",
			MinSeverity: "info",
			ShowDetails: true,
		},
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Git.TargetBranch == "" {
		return fmt.Errorf("git.target_branch must not be empty")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines cannot be negative, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds cannot be negative, got %d", c.Performance.TimeoutSeconds)
	}

	switch c.Output.Format {
	case "", "text", "json", "markdown":
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown)", c.Output.Format)
	}

	switch c.Output.MinSeverity {
	case "", "info", "warning", "error":
	default:
		return fmt.Errorf("invalid min_severity: %s (must be one of: info, warning, error)", c.Output.MinSeverity)
	}

	for name, tool := range map[string]ToolConfig{
		"linter":    c.Tools.Linter,
		"diff":      c.Tools.Diff,
		"validator": c.Tools.Validator,
	} {
		if tool.Command == "" {
			return fmt.Errorf("tools.%s.command must not be empty", name)
		}
	}

	return nil
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// When no explicit path is given, the config file is discovered from
// the target path upward.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// A fresh viper instance avoids shared state between loads
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}

	return config, nil
}

// configFileCandidates lists config file names in order of preference
var configFileCandidates = []string{
	"specgate.yaml",
	"specgate.yml",
	".specgate.yaml",
	".specgate.yml",
	"specgate.json",
	".specgate.json",
}

// findDefaultConfig looks for configuration files from targetPath (or
// the working directory) up to the filesystem root.
func findDefaultConfig(targetPath string) string {
	start := targetPath
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		start = wd
	}

	absPath, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	for {
		if found := searchConfigInDirectory(absPath, configFileCandidates); found != "" {
			return found
		}
		parent := filepath.Dir(absPath)
		if parent == absPath {
			return ""
		}
		absPath = parent
	}
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
