package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	stderrors "errors"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonsum/internal/errors"
	"gopkg.in/yaml.v3"
)

// Policy decides what happens to lines that cannot be ingested.
type Policy string

const (
	// PolicyStrict aborts on the first bad line and reports no summary.
	PolicyStrict Policy = "strict"
	// PolicyLenient skips bad lines and summarizes the rest.
	PolicyLenient Policy = "lenient"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Key cases accepted by processing.key_case
const (
	KeyCaseNone       = "none"
	KeyCaseSnake      = "snake"
	KeyCaseCamel      = "camel"
	KeyCaseLowerCamel = "lower-camel"
	KeyCaseKebab      = "kebab"
)

// DefaultBatchSize is the number of lines handed to a worker at a time.
const DefaultBatchSize = 1024

// Config represents the complete configuration for jsonsum
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Processing ProcessingConfig `yaml:"processing"`
	Output     OutputConfig     `yaml:"output"`
	Dev        DevConfig        `yaml:"dev"`
}

// InputConfig controls how input lines are read and validated
type InputConfig struct {
	Compression string `yaml:"compression"`
	Policy      Policy `yaml:"policy"`
}

// ProcessingConfig controls aggregation
type ProcessingConfig struct {
	Workers       int               `yaml:"workers"`
	BatchSize     int               `yaml:"batch_size"`
	KeyCase       string            `yaml:"key_case"`
	FieldMappings map[string]string `yaml:"field_mappings"`
	SkipFields    []string          `yaml:"skip_fields"`
	SkipPatterns  []string          `yaml:"skip_patterns"`

	// compiled regexes (not serialized)
	skipRegexes []*regexp.Regexp
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format     string `yaml:"format"`
	SortFields bool   `yaml:"sort_fields"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Input: InputConfig{
			Compression: "auto",
			Policy:      PolicyStrict,
		},
		Processing: ProcessingConfig{
			Workers:       1,
			BatchSize:     DefaultBatchSize,
			KeyCase:       KeyCaseNone,
			FieldMappings: make(map[string]string),
			SkipFields:    []string{},
		},
		Output: OutputConfig{
			Format:     FormatText,
			SortFields: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonsum.yml", ".jsonsum.yaml", "jsonsum.yml", "jsonsum.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enumerated options and compiles skip patterns.
func (c *Config) Validate() error {
	switch c.Input.Policy {
	case PolicyStrict, PolicyLenient:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown policy %q (want strict or lenient)", c.Input.Policy), errors.ErrInvalidConfig)
	}

	switch strings.ToLower(c.Input.Compression) {
	case "", "auto", "none", "gzip", "zstd", "lz4":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown compression %q", c.Input.Compression), errors.ErrInvalidConfig)
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown output format %q", c.Output.Format), errors.ErrInvalidConfig)
	}

	switch c.Processing.KeyCase {
	case "", KeyCaseNone, KeyCaseSnake, KeyCaseCamel, KeyCaseLowerCamel, KeyCaseKebab:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown key case %q", c.Processing.KeyCase), errors.ErrInvalidConfig)
	}

	if c.Processing.Workers < 1 {
		return errors.NewConfigError(fmt.Sprintf("workers must be at least 1, got %d", c.Processing.Workers), errors.ErrInvalidConfig)
	}
	if c.Processing.BatchSize < 1 {
		return errors.NewConfigError(fmt.Sprintf("batch_size must be at least 1, got %d", c.Processing.BatchSize), errors.ErrInvalidConfig)
	}

	return c.compilePatterns()
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	c.Processing.skipRegexes = c.Processing.skipRegexes[:0]
	for _, pattern := range c.Processing.SkipPatterns {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid skip pattern '%s'", pattern), err)
		}
		c.Processing.skipRegexes = append(c.Processing.skipRegexes, regex)
	}
	return nil
}

// ShouldSkipField reports whether a field is excluded from the summary.
// Names are matched before any renaming.
func (c *Config) ShouldSkipField(fieldName string) bool {
	for _, skip := range c.Processing.SkipFields {
		if skip == fieldName {
			return true
		}
	}
	for _, regex := range c.Processing.skipRegexes {
		if regex.MatchString(fieldName) {
			return true
		}
	}
	return false
}

// GetFieldName returns the name a JSON key is summarized under. Explicit
// field mappings win over the key case conversion.
func (c *Config) GetFieldName(jsonKey string) string {
	if mapped, exists := c.Processing.FieldMappings[jsonKey]; exists {
		return mapped
	}

	switch c.Processing.KeyCase {
	case KeyCaseSnake:
		return strcase.ToSnake(jsonKey)
	case KeyCaseCamel:
		return strcase.ToCamel(jsonKey)
	case KeyCaseLowerCamel:
		return strcase.ToLowerCamel(jsonKey)
	case KeyCaseKebab:
		return strcase.ToKebab(jsonKey)
	default:
		return jsonKey
	}
}

// RewritesKeys reports whether any key renaming or skipping is configured.
func (c *Config) RewritesKeys() bool {
	return len(c.Processing.FieldMappings) > 0 ||
		len(c.Processing.SkipFields) > 0 ||
		len(c.Processing.SkipPatterns) > 0 ||
		(c.Processing.KeyCase != "" && c.Processing.KeyCase != KeyCaseNone)
}

// CLIOverrides carries the flags that were explicitly set on the command line.
// Nil fields leave the file or default value untouched.
type CLIOverrides struct {
	Compression *string
	Policy      *string
	Workers     *int
	BatchSize   *int
	KeyCase     *string
	Format      *string
	SortFields  *bool
	Debug       *bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, overrides CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				return nil, err
			}
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s': %v", configPath, err), err)
		}
		cfg = fileConfig
	}

	if overrides.Compression != nil {
		cfg.Input.Compression = *overrides.Compression
	}
	if overrides.Policy != nil {
		cfg.Input.Policy = Policy(strings.ToLower(*overrides.Policy))
	}
	if overrides.Workers != nil {
		cfg.Processing.Workers = *overrides.Workers
	}
	if overrides.BatchSize != nil {
		cfg.Processing.BatchSize = *overrides.BatchSize
	}
	if overrides.KeyCase != nil {
		cfg.Processing.KeyCase = *overrides.KeyCase
	}
	if overrides.Format != nil {
		cfg.Output.Format = *overrides.Format
	}
	if overrides.SortFields != nil {
		cfg.Output.SortFields = *overrides.SortFields
	}
	if overrides.Debug != nil {
		cfg.Dev.Debug = *overrides.Debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
