// Package config loads service configuration from defaults, optional
// config files and environment variables, in that priority order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

type Config struct {
	Environment Environment `yaml:"environment"`
	Server      Server      `yaml:"server"`
	Database    Database    `yaml:"database"`
	WebSocket   WebSocket   `yaml:"websocket"`
	Events      Events      `yaml:"events"`
	Security    Security    `yaml:"security"`
	Logging     Logging     `yaml:"logging"`
	Tracing     Tracing     `yaml:"tracing"`

	// LoadedFrom records the sources that contributed, for startup logs.
	LoadedFrom []string `yaml:"-"`
}

type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
}

type Database struct {
	TableName string `yaml:"tableName"`
	Region    string `yaml:"region"`
	// Endpoint overrides the DynamoDB endpoint, used with dynamodb-local.
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type WebSocket struct {
	// ManagementEndpoint is the API Gateway connection-management URL
	// (https://{api-id}.execute-api.{region}.amazonaws.com/{stage}).
	ManagementEndpoint string `yaml:"managementEndpoint"`
}

type Events struct {
	BusName string `yaml:"busName"`
}

type Security struct {
	JWTSecret  string        `yaml:"jwtSecret"`
	JWTExpiry  time.Duration `yaml:"jwtExpiry"`
	EnableAuth bool          `yaml:"enableAuth"`
}

type Logging struct {
	Level string `yaml:"level"`
}

type Tracing struct {
	// Endpoint is the OTLP gRPC collector address; empty disables tracing.
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"serviceName"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

func defaultConfig(env Environment) *Config {
	return &Config{
		Environment: env,
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: Database{
			TableName: "workhub-" + strings.ToLower(string(env)),
			Region:    "us-east-1",
			Timeout:   10 * time.Second,
		},
		Events: Events{
			BusName: "default",
		},
		Security: Security{
			JWTExpiry:  24 * time.Hour,
			EnableAuth: true,
		},
		Logging: Logging{
			Level: "info",
		},
		Tracing: Tracing{
			ServiceName: "workhub-backend",
			SampleRatio: 0.1,
		},
	}
}

// Load builds the configuration: defaults, then config files, then
// environment variables.
func Load() (*Config, error) {
	env := getEnvironment()
	cfg := defaultConfig(env)
	cfg.LoadedFrom = []string{"defaults"}

	if err := loadFiles(cfg, env); err != nil {
		return nil, err
	}
	loadEnv(cfg)
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load for main(); it panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("TABLE_NAME"); v != "" {
		cfg.Database.TableName = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Database.Region = v
	}
	if v := os.Getenv("DYNAMODB_ENDPOINT"); v != "" {
		cfg.Database.Endpoint = v
	}
	if v := os.Getenv("WS_MANAGEMENT_ENDPOINT"); v != "" {
		cfg.WebSocket.ManagementEndpoint = v
	}
	if v := os.Getenv("EVENT_BUS_NAME"); v != "" {
		cfg.Events.BusName = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Security.JWTSecret = v
	}
	if v := os.Getenv("ENABLE_AUTH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Security.EnableAuth = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("TRACE_SAMPLE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Database.TableName == "" {
		return fmt.Errorf("database table name is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Security.EnableAuth && c.Security.JWTSecret == "" {
		if c.Environment == Production {
			return fmt.Errorf("JWT_SECRET is required when auth is enabled in production")
		}
		// Development falls back to an ephemeral secret so the stack
		// boots without setup; tokens do not survive restarts.
		c.Security.JWTSecret = fmt.Sprintf("dev-secret-%d", time.Now().UnixNano())
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("trace sample ratio %f out of range", c.Tracing.SampleRatio)
	}
	return nil
}

func getEnvironment() Environment {
	switch strings.ToLower(os.Getenv("ENVIRONMENT")) {
	case "production", "prod":
		return Production
	case "staging":
		return Staging
	default:
		return Development
	}
}
