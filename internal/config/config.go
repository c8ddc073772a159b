package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig locates the store. A postgres URL selects PostgreSQL; otherwise
// the embedded SQLite file at Path is used.
type DBConfig struct {
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TransportConfig selects how the server is reached: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type WorkflowConfig struct {
	TaskDueDays    int `yaml:"task_due_days"`
	DefaultSLADays int `yaml:"default_sla_days"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "fee_uplift.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Workflow: WorkflowConfig{
			TaskDueDays:    5,
			DefaultSLADays: 10,
		},
	}
}

// Load builds configuration from defaults, an optional YAML file and
// environment variables, in that order. An empty path falls back to
// FEEUPLIFT_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("FEEUPLIFT_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings no component can run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Workflow.TaskDueDays <= 0 {
		return fmt.Errorf("invalid task_due_days %d: must be positive", c.Workflow.TaskDueDays)
	}
	if c.Workflow.DefaultSLADays <= 0 {
		return fmt.Errorf("invalid default_sla_days %d: must be positive", c.Workflow.DefaultSLADays)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("FEEUPLIFT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("FEEUPLIFT_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}

	// DB_URL is the legacy name; FEEUPLIFT_DB_URL wins when both are set.
	if url := os.Getenv("DB_URL"); url != "" {
		cfg.DB.URL = url
	}
	if url := os.Getenv("FEEUPLIFT_DB_URL"); url != "" {
		cfg.DB.URL = url
	}
	if dbPath := os.Getenv("FEEUPLIFT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}

	if level := os.Getenv("FEEUPLIFT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("FEEUPLIFT_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("FEEUPLIFT_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(strings.TrimSpace(mode))
	}

	if err := envInt("FEEUPLIFT_TASK_DUE_DAYS", &cfg.Workflow.TaskDueDays); err != nil {
		return err
	}
	return envInt("FEEUPLIFT_DEFAULT_SLA_DAYS", &cfg.Workflow.DefaultSLADays)
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
