package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	HTTPAddr      string
	Environment   string
	MigrationsDir string
	RunMigrations bool
}

func Load() (*Config, error) {
	// Load .env if present; fall back to plain environment variables.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		Environment:   os.Getenv("ENV"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		RunMigrations: os.Getenv("SKIP_MIGRATIONS") != "true",
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
