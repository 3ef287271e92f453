package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port               string `yaml:"port"`
	DatabaseURL        string `yaml:"databaseURL"`
	RedisAddr          string `yaml:"redisAddr"`
	RedisPassword      string `yaml:"redisPassword"`
	AccessTokenSecret  string `yaml:"accessTokenSecret"`
	RefreshTokenSecret string `yaml:"refreshTokenSecret"`
	AccessTokenTTL     string `yaml:"accessTokenTTL"`
	RefreshTokenTTL    string `yaml:"refreshTokenTTL"`
	LogLevel           string `yaml:"logLevel"`
	LogFormat          string `yaml:"logFormat"`
	CORSOrigin         string `yaml:"corsOrigin"`
	UploadDir          string `yaml:"uploadDir"`
	CookieSecure       bool   `yaml:"cookieSecure"`
	MinioEndpoint      string `yaml:"minioEndpoint"`
	MinioAccessKey     string `yaml:"minioAccessKey"`
	MinioSecretKey     string `yaml:"minioSecretKey"`
	MinioBucket        string `yaml:"minioBucket"`
	MinioUseSSL        bool   `yaml:"minioUseSSL"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("ACCESS_TOKEN_SECRET"); v != "" {
		cfg.AccessTokenSecret = v
	}
	if v := os.Getenv("REFRESH_TOKEN_SECRET"); v != "" {
		cfg.RefreshTokenSecret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		cfg.AccessTokenTTL = v
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		cfg.RefreshTokenTTL = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set DATABASE_URL)")
	}
	if cfg.AccessTokenSecret == "" {
		return errors.New("config: accessTokenSecret is required (set ACCESS_TOKEN_SECRET)")
	}
	if cfg.RefreshTokenSecret == "" {
		return errors.New("config: refreshTokenSecret is required (set REFRESH_TOKEN_SECRET)")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return errors.New("config: accessTokenSecret and refreshTokenSecret must differ")
	}
	if strings.TrimSpace(cfg.MinioEndpoint) == "" {
		return errors.New("config: minioEndpoint is required (set MINIO_ENDPOINT)")
	}
	if cfg.MinioBucket == "" {
		return errors.New("config: minioBucket is required (set MINIO_BUCKET)")
	}
	return nil
}

// ParseAccessTokenTTL parses the optional access token TTL duration string.
func ParseAccessTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid accessTokenTTL duration: %w", err)
	}
	return dur, nil
}

// ParseRefreshTokenTTL parses the optional refresh token TTL duration string.
func ParseRefreshTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid refreshTokenTTL duration: %w", err)
	}
	return dur, nil
}
