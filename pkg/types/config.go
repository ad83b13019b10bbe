package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend      string        `json:"backend" yaml:"backend"`
	DataDir      string        `json:"data_dir" yaml:"data_dir"`
	KeyPrefix    string        `json:"key_prefix" yaml:"key_prefix"`
	SQLiteConfig *SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// SQLiteConfig tunes when the sqlite backend writes its JSONL file.
type SQLiteConfig struct {
	SyncStrategy  string `json:"sync_strategy" yaml:"sync_strategy"`
	BatchSize     int    `json:"batch_size" yaml:"batch_size"`
	BatchInterval int    `json:"batch_interval" yaml:"batch_interval"` // seconds
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Sync strategies for the sqlite backend.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
	SyncBatch     = "batch"
)

// DefaultKeyPrefix namespaces every key written by this program.
const DefaultKeyPrefix = "blueprint_career_"

// Defaults applied when SQLiteConfig leaves a field unset.
const (
	DefaultBatchSize     = 100
	DefaultBatchInterval = 5
)

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrSyncStrategyUnknown  = errors.New("unknown sync strategy")
	ErrBatchSizeInvalid     = errors.New("batch size must be positive")
	ErrBatchIntervalInvalid = errors.New("batch interval must be positive")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

var knownSyncStrategies = map[string]bool{
	SyncImmediate: true,
	SyncOnClose:   true,
	SyncBatch:     true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.SQLiteConfig != nil {
		return c.SQLiteConfig.Validate()
	}
	return nil
}

// Prefix returns the configured key prefix or DefaultKeyPrefix.
func (c Config) Prefix() string {
	if c.KeyPrefix == "" {
		return DefaultKeyPrefix
	}
	return c.KeyPrefix
}

// Validate checks the sync strategy and batch parameters. Zero values are
// allowed and resolve to defaults.
func (s *SQLiteConfig) Validate() error {
	if s.SyncStrategy != "" && !knownSyncStrategies[s.SyncStrategy] {
		return ErrSyncStrategyUnknown
	}
	if s.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if s.BatchInterval < 0 {
		return ErrBatchIntervalInvalid
	}
	return nil
}

// GetSyncStrategy returns the sync strategy, defaulting to immediate.
// Safe to call on a nil receiver.
func (s *SQLiteConfig) GetSyncStrategy() string {
	if s == nil || s.SyncStrategy == "" {
		return SyncImmediate
	}
	return s.SyncStrategy
}

// GetBatchSize returns the batch size, defaulting to DefaultBatchSize.
func (s *SQLiteConfig) GetBatchSize() int {
	if s == nil || s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

// GetBatchInterval returns the batch interval in seconds, defaulting to
// DefaultBatchInterval.
func (s *SQLiteConfig) GetBatchInterval() int {
	if s == nil || s.BatchInterval <= 0 {
		return DefaultBatchInterval
	}
	return s.BatchInterval
}
