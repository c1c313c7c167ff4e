package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string
}

type CORSConfig struct {
	AllowedOrigins string
}

func Load() (*Config, error) {
	jwtExpiry, err := time.ParseDuration(envOrDefault("QM_JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid QM_JWT_EXPIRY: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: envOrDefault("QM_HOST", "0.0.0.0"),
			Port: envOrDefault("QM_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     envOrDefault("QM_DB_HOST", "localhost"),
			Port:     envOrDefault("QM_DB_PORT", "5432"),
			Name:     envOrDefault("QM_DB_NAME", "quartermaster"),
			User:     envOrDefault("QM_DB_USER", "quartermaster"),
			Password: envOrDefault("QM_DB_PASSWORD", "quartermaster"),
			SSLMode:  envOrDefault("QM_DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     envOrDefault("QM_JWT_SECRET", "change-me-in-production"),
			JWTExpiry:     jwtExpiry,
			AdminEmail:    envOrDefault("QM_ADMIN_EMAIL", "admin@quartermaster.local"),
			AdminPassword: envOrDefault("QM_ADMIN_PASSWORD", "admin"),
		},
		CORS: CORSConfig{
			AllowedOrigins: envOrDefault("QM_CORS_ORIGINS", "http://localhost:3000"),
		},
	}

	return cfg, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
