package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/blueprint/internal/ai"
	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	dotEnvFile     = ".env"
	envPrefix      = "BLUEPRINT"
)

// Config keys.
const (
	cfgKeyBackend          = "backend"
	cfgKeyDataDir          = "data_dir"
	cfgKeyKeyPrefix        = "key_prefix"
	cfgKeySyncStrategy     = "sync_strategy"
	cfgKeyBatchSize        = "batch_size"
	cfgKeyBatchInterval    = "batch_interval"
	cfgKeyLogLevel         = "log.level"
	cfgKeyLogFormat        = "log.format"
	cfgKeyAIModel          = "ai.model"
	cfgKeyAIBaseURL        = "ai.base_url"
	cfgKeyAIAPIKey         = "ai.api_key"
	cfgKeyAITimeout        = "ai.timeout"
	cfgKeyAIRequestsPerMin = "ai.requests_per_minute"
)

const (
	defaultLogLevel       = "warn"
	defaultRequestsPerMin = 10
)

// Environment variables also accepted for the Gemini API key.
var apiKeyEnvFallbacks = []string{"GEMINI_API_KEY", "API_KEY"}

// configFile is the document written to config.yaml by init and on first
// run. The API key is not written; set it in the environment or a .env file.
type configFile struct {
	Backend       string    `yaml:"backend"`
	DataDir       string    `yaml:"data_dir,omitempty"`
	KeyPrefix     string    `yaml:"key_prefix"`
	SyncStrategy  string    `yaml:"sync_strategy"`
	BatchSize     int       `yaml:"batch_size"`
	BatchInterval int       `yaml:"batch_interval"`
	Log           logConfig `yaml:"log"`
	AI            aiConfig  `yaml:"ai"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type aiConfig struct {
	Model             string `yaml:"model"`
	BaseURL           string `yaml:"base_url"`
	Timeout           string `yaml:"timeout"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

func defaultConfigFile(dataDir string) configFile {
	return configFile{
		Backend:       types.BackendSQLite,
		DataDir:       dataDir,
		KeyPrefix:     types.DefaultKeyPrefix,
		SyncStrategy:  types.SyncImmediate,
		BatchSize:     types.DefaultBatchSize,
		BatchInterval: types.DefaultBatchInterval,
		Log:           logConfig{Level: defaultLogLevel, Format: logging.FormatText},
		AI: aiConfig{
			Model:             ai.DefaultModel,
			BaseURL:           ai.DefaultBaseURL,
			Timeout:           ai.DefaultTimeout.String(),
			RequestsPerMinute: defaultRequestsPerMin,
		},
	}
}

// loadDotEnv loads .env from the working directory and then from configDir.
// Variables already present in the environment win, and a missing file is
// skipped.
func loadDotEnv(configDir string) error {
	for _, path := range []string{dotEnvFile, filepath.Join(configDir, dotEnvFile)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// loadConfig reads config.yaml from configDir with viper, creating the
// directory and a default file on first run. Environment variables prefixed
// with BLUEPRINT_ override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadDotEnv(configDir); err != nil {
		return nil, err
	}

	v := viper.New()
	def := defaultConfigFile("")
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyKeyPrefix, def.KeyPrefix)
	v.SetDefault(cfgKeySyncStrategy, def.SyncStrategy)
	v.SetDefault(cfgKeyBatchSize, def.BatchSize)
	v.SetDefault(cfgKeyBatchInterval, def.BatchInterval)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)
	v.SetDefault(cfgKeyAIModel, def.AI.Model)
	v.SetDefault(cfgKeyAIBaseURL, def.AI.BaseURL)
	v.SetDefault(cfgKeyAITimeout, def.AI.Timeout)
	v.SetDefault(cfgKeyAIRequestsPerMin, def.AI.RequestsPerMinute)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(append([]string{cfgKeyAIAPIKey, envPrefix + "_AI_API_KEY"}, apiKeyEnvFallbacks...)...); err != nil {
		return nil, fmt.Errorf("bind api key: %w", err)
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// settingsFrom builds app settings from v. dataDir is the resolved data
// directory and ephemeral selects the in-memory backend.
func settingsFrom(v *viper.Viper, dataDir string, ephemeral bool) app.Settings {
	backend := v.GetString(cfgKeyBackend)
	if ephemeral {
		backend = types.BackendMemory
	}
	return app.Settings{
		Store: types.Config{
			Backend:   backend,
			DataDir:   dataDir,
			KeyPrefix: v.GetString(cfgKeyKeyPrefix),
			SQLiteConfig: &types.SQLiteConfig{
				SyncStrategy:  v.GetString(cfgKeySyncStrategy),
				BatchSize:     v.GetInt(cfgKeyBatchSize),
				BatchInterval: v.GetInt(cfgKeyBatchInterval),
			},
		},
		Log: logging.Config{
			Level:  v.GetString(cfgKeyLogLevel),
			Format: v.GetString(cfgKeyLogFormat),
		},
		AI: app.AIConfig{
			Model:             v.GetString(cfgKeyAIModel),
			BaseURL:           v.GetString(cfgKeyAIBaseURL),
			APIKey:            v.GetString(cfgKeyAIAPIKey),
			Timeout:           durationOrDefault(v.GetDuration(cfgKeyAITimeout), ai.DefaultTimeout),
			RequestsPerMinute: v.GetInt(cfgKeyAIRequestsPerMin),
		},
	}
}

func durationOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path, dataDir string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte("# blueprint configuration\n"), data...), 0o644)
}
