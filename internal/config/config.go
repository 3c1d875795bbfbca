package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	AdminToken     string        `mapstructure:"ADMIN_TOKEN"`

	DBSource string `mapstructure:"DB_SOURCE"`

	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AddressesURL    string `mapstructure:"ADDRESSES_URL"`
	ServiceLinesURL string `mapstructure:"SERVICE_LINES_URL"`
	OutageLinesURL  string `mapstructure:"OUTAGE_LINES_URL"`
	IncidentsURL    string `mapstructure:"INCIDENTS_URL"`

	AddressSyncInterval      time.Duration `mapstructure:"ADDRESS_SYNC_INTERVAL"`
	ServiceLinesSyncInterval time.Duration `mapstructure:"SERVICE_LINES_SYNC_INTERVAL"`
	OutageLinesSyncInterval  time.Duration `mapstructure:"OUTAGE_LINES_SYNC_INTERVAL"`
	IncidentsSyncInterval    time.Duration `mapstructure:"INCIDENTS_SYNC_INTERVAL"`

	SearchMaxResults      int     `mapstructure:"SEARCH_MAX_RESULTS"`
	RegionMaxResults      int     `mapstructure:"REGION_MAX_RESULTS"`
	ClusterCellDegrees    float64 `mapstructure:"CLUSTER_CELL_DEGREES"`
	ClusterMaxZoom        int     `mapstructure:"CLUSTER_MAX_ZOOM"`
	OutageThresholdMeters float64 `mapstructure:"OUTAGE_THRESHOLD_METERS"`

	SearchRateLimit float64 `mapstructure:"SEARCH_RATE_LIMIT"`
	SearchRateBurst int     `mapstructure:"SEARCH_RATE_BURST"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":              "0.0.0.0:8080",
	"REQUEST_TIMEOUT":             10 * time.Second,
	"ADMIN_TOKEN":                 "",
	"DB_SOURCE":                   "",
	"REDIS_ADDRESS":               "",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"ADDRESSES_URL":               "",
	"SERVICE_LINES_URL":           "",
	"OUTAGE_LINES_URL":            "",
	"INCIDENTS_URL":               "",
	"ADDRESS_SYNC_INTERVAL":       24 * time.Hour,
	"SERVICE_LINES_SYNC_INTERVAL": 24 * time.Hour,
	"OUTAGE_LINES_SYNC_INTERVAL":  5 * time.Minute,
	"INCIDENTS_SYNC_INTERVAL":     5 * time.Minute,
	"SEARCH_MAX_RESULTS":          25,
	"REGION_MAX_RESULTS":          5000,
	"CLUSTER_CELL_DEGREES":        0.01,
	"CLUSTER_MAX_ZOOM":            15,
	"OUTAGE_THRESHOLD_METERS":     100.0,
	"SEARCH_RATE_LIMIT":           10.0,
	"SEARCH_RATE_BURST":           20,
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "console",
}

// LoadConfig reads configuration from app.env under path, then lets
// environment variables override it. A missing app.env is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode: %w", err)
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.DBSource == "" {
		errs = append(errs, errors.New("DB_SOURCE is required"))
	}
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.SearchMaxResults <= 0 {
		errs = append(errs, errors.New("SEARCH_MAX_RESULTS must be positive"))
	}
	if c.RegionMaxResults <= 0 {
		errs = append(errs, errors.New("REGION_MAX_RESULTS must be positive"))
	}
	if c.ClusterCellDegrees <= 0 {
		errs = append(errs, errors.New("CLUSTER_CELL_DEGREES must be positive"))
	}
	if c.ClusterMaxZoom <= 0 {
		errs = append(errs, errors.New("CLUSTER_MAX_ZOOM must be positive"))
	}
	if c.OutageThresholdMeters <= 0 {
		errs = append(errs, errors.New("OUTAGE_THRESHOLD_METERS must be positive"))
	}
	if c.SearchRateLimit <= 0 || c.SearchRateBurst <= 0 {
		errs = append(errs, errors.New("SEARCH_RATE_LIMIT and SEARCH_RATE_BURST must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
