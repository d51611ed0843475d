// Package config loads server settings from the environment and an
// optional config file.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends accepted by DATA_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

type Config struct {
	// HTTP
	Port        string
	MetricsPort string

	// Storage
	DataBackend string
	DBPath      string
	DatabaseURL string
	DBMaxConns  int

	// Events. An empty AMQPURL disables publishing.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Logging
	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("METRICS_PORT", "")
	v.SetDefault("DATA_BACKEND", BackendSQLite)
	v.SetDefault("DB_PATH", "./data/fairshare.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "fairshare")
	v.SetDefault("AMQP_ROUTING_KEY", "household.summary")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads configuration from the environment. When path is non-empty
// the file is read first and environment variables override its values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	return &Config{
		Port:            v.GetString("PORT"),
		MetricsPort:     v.GetString("METRICS_PORT"),
		DataBackend:     strings.ToLower(v.GetString("DATA_BACKEND")),
		DBPath:          v.GetString("DB_PATH"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBMaxConns:      v.GetInt("DB_MAX_CONNS"),
		AMQPURL:         v.GetString("AMQP_URL"),
		AMQPExchange:    v.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey:  v.GetString("AMQP_ROUTING_KEY"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	problems = append(problems, validatePort("port", c.Port)...)
	if c.MetricsPort != "" {
		problems = append(problems, validatePort("metrics port", c.MetricsPort)...)
		if c.MetricsPort == c.Port {
			problems = append(problems, "metrics port must differ from port")
		}
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	switch c.DataBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH cannot be empty when using sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when using postgres backend")
		}
		if c.DBMaxConns < 1 {
			problems = append(problems, fmt.Sprintf("invalid DB_MAX_CONNS %d: must be at least 1", c.DBMaxConns))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func validatePort(label, port string) []string {
	p, err := strconv.Atoi(port)
	if err != nil {
		return []string{fmt.Sprintf("invalid %s '%s': must be a number", label, port)}
	}
	if p < 1 || p > 65535 {
		return []string{fmt.Sprintf("invalid %s %d: must be between 1 and 65535", label, p)}
	}
	return nil
}
