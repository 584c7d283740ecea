package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a visitbill run.
type Config struct {
	DSN       string
	FilePaths []string
	RatesFile string
	LogFormat string // "text" or "json"
	LogLevel  string

	ArchivePath string // when set, cleaned records are written here as Parquet
	Save        bool   // record the run in the history tables
	Force       bool   // reprocess files whose SHA-256 is already recorded

	// Verification policy. Defaults to exact matching against "verified";
	// a policy file can widen the accepted values or switch to substring
	// matching for exports that embed the status in longer text.
	StatusMatch     []string `yaml:"status_match"`
	StatusSubstring bool     `yaml:"status_substring"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	StatusMatch     []string `yaml:"status_match"`
	StatusSubstring bool     `yaml:"status_substring"`
}

// DefaultStatusMatch is the documented default verification value.
var DefaultStatusMatch = []string{"verified"}

// LoadFromFile reads a YAML policy file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.StatusMatch = yc.StatusMatch
	c.StatusSubstring = yc.StatusSubstring
	return c.normalizeStatusMatch()
}

// normalizeStatusMatch trims and lowercases the accepted status values so
// they compare against the already-normalized status field. Empty entries
// are invalid; an empty list falls back to the default.
func (c *Config) normalizeStatusMatch() error {
	if len(c.StatusMatch) == 0 {
		c.StatusMatch = append([]string(nil), DefaultStatusMatch...)
		return nil
	}
	for i, v := range c.StatusMatch {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return fmt.Errorf("status_match entry %d is empty", i)
		}
		c.StatusMatch[i] = v
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if len(c.FilePaths) == 0 {
		return fmt.Errorf("--file is required")
	}
	for _, p := range c.FilePaths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	return c.normalizeStatusMatch()
}

// ValidateWithDSN checks both files and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or VISITBILL_DB_URL is required")
	}
	return nil
}
