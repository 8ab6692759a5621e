// Package config loads service configuration from a YAML file with
// environment variable overrides. A local .env file is honored when
// present so development machines do not need exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	HTTPPort     int      `yaml:"HTTP_PORT"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	JWTSecret    string   `yaml:"JWT_SECRET"`
	UploadDir    string   `yaml:"UPLOAD_DIR"`
	// PublicBaseURL prefixes the URLs handed out for uploaded résumés.
	PublicBaseURL string `yaml:"PUBLIC_BASE_URL"`
	// CVDeletePolicy is either "best_effort" or "strict".
	CVDeletePolicy string `yaml:"CV_DELETE_POLICY"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTPPort:       8080,
		DBSSLMode:      "disable",
		Topic:          "crm.views",
		UploadDir:      "uploads",
		CVDeletePolicy: "best_effort",
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// .env is optional; exported variables still apply without it.
	_ = godotenv.Load()
	applyEnv(cfg)

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrideString(&cfg.DBHost, "DB_HOST")
	overrideInt(&cfg.DBPort, "DB_PORT")
	overrideString(&cfg.DBUser, "DB_USER")
	overrideString(&cfg.DBPassword, "DB_PASSWORD")
	overrideString(&cfg.DBName, "DB_NAME")
	overrideString(&cfg.DBSSLMode, "DB_SSLMODE")
	overrideInt(&cfg.HTTPPort, "HTTP_PORT")
	overrideString(&cfg.Topic, "TOPIC")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.UploadDir, "UPLOAD_DIR")
	overrideString(&cfg.PublicBaseURL, "PUBLIC_BASE_URL")
	overrideString(&cfg.CVDeletePolicy, "CV_DELETE_POLICY")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
