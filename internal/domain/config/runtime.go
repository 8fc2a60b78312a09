package config

import (
	"path/filepath"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into adapters and use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	DataDir      string `validate:"required"`
	PatternsFile string

	// Execution settings
	Debug          bool
	NonInteractive bool
	Format         OutputFormat  `validate:"oneof=text json yaml"`
	Timeout        time.Duration `validate:"gt=0"`

	Directory DirectoryConfig
	Cache     CacheConfig
	Layout    LayoutConfig
}

// DirectoryConfig configures the remote signature directory.
type DirectoryConfig struct {
	URL         string        `validate:"required,url"`
	Timeout     time.Duration `validate:"gt=0"`
	Retries     uint          `validate:"gte=1,lte=10"`
	RetryDelay  time.Duration `validate:"gte=0"`
	MaxPages    int           `validate:"gte=1"`
	Concurrency int           `validate:"gte=1,lte=32"`
}

// CacheConfig configures the candidate cache. A zero TTL disables it.
type CacheConfig struct {
	TTL time.Duration `validate:"gte=0"`
}

// LayoutConfig configures the layout analyzer.
type LayoutConfig struct {
	// PayloadBias is added to every dynamic payload start, in hex characters.
	PayloadBias int `validate:"gte=-64,lte=64"`
}

// OutputFormat selects how commands print results.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// DatabasePath is where the local badger database lives.
func (c *RuntimeConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "db")
}
