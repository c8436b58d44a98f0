// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like API_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, e.g. config.development.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the usual run locations.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // for tests in test/e2e/
		"../../../.env",
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.API.BaseURL == "" {
		if val := os.Getenv("PREDICTION_API_URL"); val != "" {
			cfg.API.BaseURL = val
		}
	}

	if cfg.Store.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Store.Redis.Address = val
		}
	}
	if cfg.Store.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Store.Redis.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loanform"
	}

	// API defaults. The request timeout doubles as the submission
	// deadline, so keep it generous.
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = 30000
	}
	if cfg.API.HealthTimeout == 0 {
		cfg.API.HealthTimeout = 5000
	}

	if cfg.Store.Namespace == "" {
		cfg.Store.Namespace = "loanform"
	}

	// Offline estimator defaults
	if cfg.Offline.EstimationRate == 0 {
		cfg.Offline.EstimationRate = 11.0
	}
	if cfg.Offline.SanctionHaircut == 0 {
		cfg.Offline.SanctionHaircut = 0.88
	}
	if cfg.Offline.MinDelay == 0 {
		cfg.Offline.MinDelay = 800
	}
	if cfg.Offline.MaxDelay == 0 {
		cfg.Offline.MaxDelay = 2000
	}

	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = 10
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9101"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.Offline.SanctionHaircut <= 0 || cfg.Offline.SanctionHaircut > 1 {
		return fmt.Errorf("offline.sanction_haircut must be in (0, 1]")
	}
	if cfg.Offline.EstimationRate < 0 {
		return fmt.Errorf("offline.estimation_rate must not be negative")
	}
	if cfg.Offline.MaxDelay < cfg.Offline.MinDelay {
		return fmt.Errorf("offline.max_delay must be >= offline.min_delay")
	}

	if cfg.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be at least 1")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
