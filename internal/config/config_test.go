package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/jsonsum/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "auto", cfg.Input.Compression)
	assert.Equal(t, PolicyStrict, cfg.Input.Policy)
	assert.Equal(t, 1, cfg.Processing.Workers)
	assert.Equal(t, DefaultBatchSize, cfg.Processing.BatchSize)
	assert.Equal(t, KeyCaseNone, cfg.Processing.KeyCase)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.True(t, cfg.Output.SortFields)
	assert.False(t, cfg.Dev.Debug)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.RewritesKeys())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeTempConfig(t, `
input:
  compression: gzip
  policy: lenient
processing:
  workers: 4
  batch_size: 256
  key_case: snake
  field_mappings:
    "uid": "user_id"
  skip_fields: ["password"]
  skip_patterns: ["^_"]
output:
  format: json
  sort_fields: false
dev:
  debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gzip", cfg.Input.Compression)
	assert.Equal(t, PolicyLenient, cfg.Input.Policy)
	assert.Equal(t, 4, cfg.Processing.Workers)
	assert.Equal(t, 256, cfg.Processing.BatchSize)
	assert.Equal(t, KeyCaseSnake, cfg.Processing.KeyCase)
	assert.Equal(t, "user_id", cfg.Processing.FieldMappings["uid"])
	assert.Equal(t, []string{"password"}, cfg.Processing.SkipFields)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.False(t, cfg.Output.SortFields)
	assert.True(t, cfg.Dev.Debug)

	assert.True(t, cfg.ShouldSkipField("password"))
	assert.True(t, cfg.ShouldSkipField("_internal"))
	assert.False(t, cfg.ShouldSkipField("name"))
	assert.True(t, cfg.RewritesKeys())
}

func TestConfig_LoadPartialKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
input:
  policy: lenient
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, PolicyLenient, cfg.Input.Policy)
	assert.Equal(t, "auto", cfg.Input.Compression)
	assert.Equal(t, 1, cfg.Processing.Workers)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.True(t, cfg.Output.SortFields)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, `
input:
  policy: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "unknown policy", modify: func(c *Config) { c.Input.Policy = "loose" }, errMsg: "unknown policy"},
		{name: "unknown compression", modify: func(c *Config) { c.Input.Compression = "bzip2" }, errMsg: "unknown compression"},
		{name: "unknown format", modify: func(c *Config) { c.Output.Format = "xml" }, errMsg: "unknown output format"},
		{name: "unknown key case", modify: func(c *Config) { c.Processing.KeyCase = "SCREAMING" }, errMsg: "unknown key case"},
		{name: "zero workers", modify: func(c *Config) { c.Processing.Workers = 0 }, errMsg: "workers must be at least 1"},
		{name: "zero batch size", modify: func(c *Config) { c.Processing.BatchSize = 0 }, errMsg: "batch_size must be at least 1"},
		{name: "bad skip pattern", modify: func(c *Config) { c.Processing.SkipPatterns = []string{"[invalid"} }, errMsg: "invalid skip pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeConfig})
		})
	}
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".jsonsum.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: yaml\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "format: yaml")
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(tmpDir))

	assert.Empty(t, FindConfigFile())
}

func TestConfig_GetFieldName(t *testing.T) {
	tests := []struct {
		keyCase  string
		input    string
		expected string
	}{
		{KeyCaseNone, "userId", "userId"},
		{KeyCaseSnake, "userId", "user_id"},
		{KeyCaseSnake, "user_id", "user_id"},
		{KeyCaseCamel, "user_name", "UserName"},
		{KeyCaseLowerCamel, "user_name", "userName"},
		{KeyCaseKebab, "userId", "user-id"},
	}

	for _, tt := range tests {
		t.Run(tt.keyCase+"/"+tt.input, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Processing.KeyCase = tt.keyCase
			assert.Equal(t, tt.expected, cfg.GetFieldName(tt.input))
		})
	}
}

func TestConfig_GetFieldNameMappingWins(t *testing.T) {
	cfg := NewConfig()
	cfg.Processing.KeyCase = KeyCaseSnake
	cfg.Processing.FieldMappings = map[string]string{"uid": "user_id", "APIKey": "api_key"}

	assert.Equal(t, "user_id", cfg.GetFieldName("uid"))
	assert.Equal(t, "api_key", cfg.GetFieldName("APIKey"))
	assert.Equal(t, "first_name", cfg.GetFieldName("firstName"))
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	path := writeTempConfig(t, `
input:
  policy: lenient
processing:
  workers: 2
output:
  format: yaml
`)

	format := FormatJSON
	workers := 8
	cfg, err := LoadConfigWithCLI(path, CLIOverrides{Format: &format, Workers: &workers})
	require.NoError(t, err)

	// CLI > config file > defaults
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, 8, cfg.Processing.Workers)
	assert.Equal(t, PolicyLenient, cfg.Input.Policy)
	assert.Equal(t, DefaultBatchSize, cfg.Processing.BatchSize)
}

func TestLoadConfigWithPrecedence_NoFile(t *testing.T) {
	policy := "LENIENT"
	cfg, err := LoadConfigWithCLI("", CLIOverrides{Policy: &policy})
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, cfg.Input.Policy)
}

func TestLoadConfigWithPrecedence_InvalidOverride(t *testing.T) {
	policy := "sometimes"
	_, err := LoadConfigWithCLI("", CLIOverrides{Policy: &policy})
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "unknown policy")
}

func TestLoadConfigWithPrecedence_BadFile(t *testing.T) {
	_, err := LoadConfigWithCLI("/non/existent/config.yml", CLIOverrides{})
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeConfig})
}
