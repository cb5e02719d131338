// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used when content is fetched by URL.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "knowledge-hub/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429 and 503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ContentConfig holds settings for reading document content.
type ContentConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxBytes caps how much document text is read from one source (default 10 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`

	// ConvertImage is the container image used to turn PDF and DOCX files
	// into Markdown (default "markitdown:latest").
	ConvertImage string `json:"convert_image" yaml:"convert_image" mapstructure:"convert_image"`
}

// StoreConfig holds settings for the clause cache and library.
type StoreConfig struct {
	// DataDir is the base directory for the database and exports (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MaxResults is the default maximum number of search and library results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ScanConfig holds settings for batch extraction over a documents directory.
type ScanConfig struct {
	// DocumentsDir is the directory scanned for contract files.
	DocumentsDir string `json:"documents_dir" yaml:"documents_dir" mapstructure:"documents_dir"`

	// Schedule is a cron spec with a seconds field (e.g. "0 */15 * * * *").
	// Empty disables scheduled rescans while serving.
	Schedule string `json:"schedule" yaml:"schedule" mapstructure:"schedule"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8081").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Mode is the gin mode: debug, release, or test.
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// APIToken, when set, is required as a bearer token on every request.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty" mapstructure:"api_token"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// HubConfig groups all configuration sections.
type HubConfig struct {
	Content ContentConfig `json:"content" yaml:"content" mapstructure:"content"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Scan    ScanConfig    `json:"scan" yaml:"scan" mapstructure:"scan"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
