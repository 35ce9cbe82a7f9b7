package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_ssl_mode"`
	DBPath     string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security configuration
	JWTSecret string `json:"jwt_secret"`

	// SMTP configuration for order and invoice mail
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	SMTPFrom     string `json:"smtp_from"`

	// Billing configuration
	TaxRate        float64 `json:"tax_rate"`
	TotalTolerance float64 `json:"total_tolerance"`
	InvoiceDir     string  `json:"invoice_dir"`

	// Outbox dispatcher configuration
	OutboxPollInterval time.Duration `json:"outbox_poll_interval"`
	OutboxMaxAttempts  int           `json:"outbox_max_attempts"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], SMTPHost: %s, SMTPUser: %s, SMTPPassword: [REDACTED], TaxRate: %.2f, InvoiceDir: %s}",
		c.Port, c.Host, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.SMTPHost, c.SMTPUser, c.TaxRate, c.InvoiceDir)
}

// LoadConfig reads the application configuration from environment variables
// Returns an error if any environment variable has an invalid format
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	pollInterval, err := time.ParseDuration(GetEnvWithDefault("OUTBOX_POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %w", err)
	}

	taxRate, err := strconv.ParseFloat(GetEnvWithDefault("TAX_RATE", "0.12"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}

	tolerance, err := strconv.ParseFloat(GetEnvWithDefault("TOTAL_TOLERANCE", "0.01"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TOTAL_TOLERANCE: %w", err)
	}

	config := &Config{
		Port:               port,
		Host:               GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:           GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:             GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:             GetEnvWithDefault("DB_PORT", "5432"),
		DBName:             GetEnvWithDefault("DB_NAME", "pizzeria"),
		DBUser:             GetEnvWithDefault("DB_USER", "pizzeria"),
		DBPassword:         GetEnvWithDefault("DB_PASSWORD", "pizzeria"),
		DBSSLMode:          GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:             GetEnvWithDefault("DB_PATH", "pizzeria.sqlite"),
		LogLevel:           GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:          GetEnvWithDefault("JWT_SECRET", "secret"),
		SMTPHost:           GetEnvWithDefault("SMTP_HOST", "localhost"),
		SMTPPort:           GetEnvAsType("SMTP_PORT", 587),
		SMTPUser:           GetEnvWithDefault("SMTP_USER", ""),
		SMTPPassword:       GetEnvWithDefault("SMTP_PASSWORD", ""),
		SMTPFrom:           GetEnvWithDefault("SMTP_FROM", "pedidos@pizzadelicia.com"),
		TaxRate:            taxRate,
		TotalTolerance:     tolerance,
		InvoiceDir:         GetEnvWithDefault("INVOICE_DIR", ""),
		OutboxPollInterval: pollInterval,
		OutboxMaxAttempts:  GetEnvAsType("OUTBOX_MAX_ATTEMPTS", 5),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
