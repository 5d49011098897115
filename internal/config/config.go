// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Detector backends.
const (
	DetectorMediaPipe = "mediapipe"
	DetectorHTTP      = "http"
	DetectorMock      = "mock"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	StaticDir          string
	LogLevel           string

	DBDriver    string
	DatabaseURL string

	Detector               string
	LandmarkServiceURL     string
	DetectorPoolSize       int
	DetectorTimeout        time.Duration
	MinDetectionConfidence float64
	MediaPipeScript        string
	MediaPipePython        string

	ExtensionThreshold float64
	ThumbThreshold     float64

	AzureAccount   string
	AzureKey       string
	AzureContainer string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// ArchiveEnabled reports whether Azure credentials were supplied.
func (c *Config) ArchiveEnabled() bool {
	return c.AzureAccount != "" && c.AzureKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		StaticDir:          os.Getenv("STATIC_DIR"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverSQLite)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		Detector:               strings.ToLower(getEnvOrDefault("DETECTOR", DetectorMediaPipe)),
		LandmarkServiceURL:     os.Getenv("LANDMARK_SERVICE_URL"),
		DetectorPoolSize:       int(parseIntOrDefault("DETECTOR_POOL_SIZE", 1)),
		DetectorTimeout:        parseDurationOrDefault("DETECTOR_TIMEOUT", 10*time.Second),
		MinDetectionConfidence: parseFloatOrDefault("MIN_DETECTION_CONFIDENCE", 0.5),
		MediaPipeScript:        os.Getenv("MEDIAPIPE_SCRIPT"),
		MediaPipePython:        os.Getenv("MEDIAPIPE_PYTHON"),

		ExtensionThreshold: parseFloatOrDefault("EXTENSION_THRESHOLD", 0.02),
		ThumbThreshold:     parseFloatOrDefault("THUMB_THRESHOLD", 0.10),

		AzureAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer: getEnvOrDefault("AZURE_STORAGE_CONTAINER", "mudra-readings"),
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverSQLite {
		cfg.DatabaseURL = defaultDatabasePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field requirements.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.DetectorTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, detector=%s)",
			c.RequestTimeout, c.DetectorTimeout)
	}

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid DB_DRIVER: %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for %s", c.DBDriver)
	}

	switch c.Detector {
	case DetectorMediaPipe, DetectorMock:
	case DetectorHTTP:
		u, err := url.Parse(c.LandmarkServiceURL)
		if c.LandmarkServiceURL == "" || err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("LANDMARK_SERVICE_URL must be an absolute URL when DETECTOR=http (got %q)", c.LandmarkServiceURL)
		}
	default:
		return fmt.Errorf("invalid DETECTOR: %q", c.Detector)
	}
	if c.DetectorPoolSize < 1 {
		return fmt.Errorf("DETECTOR_POOL_SIZE must be >= 1 (got %d)", c.DetectorPoolSize)
	}
	if c.MinDetectionConfidence <= 0 || c.MinDetectionConfidence > 1 {
		return fmt.Errorf("MIN_DETECTION_CONFIDENCE must be in (0, 1] (got %g)", c.MinDetectionConfidence)
	}
	if c.ExtensionThreshold <= 0 || c.ThumbThreshold <= 0 {
		return fmt.Errorf("thresholds must be > 0 (got extension=%g, thumb=%g)",
			c.ExtensionThreshold, c.ThumbThreshold)
	}

	if (c.AzureAccount == "") != (c.AzureKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	if c.ArchiveEnabled() && c.AzureContainer == "" {
		return fmt.Errorf("AZURE_STORAGE_CONTAINER is required when archiving is enabled")
	}
	return nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mudra.db"
	}
	return filepath.Join(home, ".mudra", "mudra.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
