// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Store   StoreConfig   `mapstructure:"store"`
	Offline OfflineConfig `mapstructure:"offline"`
	History HistoryConfig `mapstructure:"history"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds settings for the prediction service endpoint.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	HealthTimeout  int    `mapstructure:"health_timeout"`  // milliseconds
}

// StoreConfig holds settings for local persistence.
type StoreConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
	// Namespace prefixes every key so multiple users of one Redis
	// instance cannot collide.
	Namespace string `mapstructure:"namespace"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OfflineConfig tunes the offline estimator used when the prediction
// service cannot be reached.
type OfflineConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// EstimationRate is the flat annual interest rate (percent) applied
	// when the user supplied none.
	EstimationRate float64 `mapstructure:"estimation_rate"`
	// SanctionHaircut scales the requested amount down for the
	// estimated sanctioned amount.
	SanctionHaircut float64 `mapstructure:"sanction_haircut"`
	// Simulated processing delay bounds, milliseconds.
	MinDelay int `mapstructure:"min_delay"`
	MaxDelay int `mapstructure:"max_delay"`
}

// HistoryConfig bounds the stored submission history.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// CatalogConfig points at an optional loan product catalog override.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds settings for the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
