package config

import (
	"fmt"
	"time"

	"github.com/impactboard/impactboard/internal/db"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// IngestionConfig tunes the bulk import pipeline.
type IngestionConfig struct {
	// RowPause is inserted between processed rows so polling clients
	// can watch progress advance. Zero disables it.
	RowPause time.Duration
	// MaxUploadBytes caps the in-memory portion of multipart parsing.
	MaxUploadBytes int64
}

// Config aggregates all application settings.
type Config struct {
	Database  db.Config
	Server    ServerConfig
	Ingestion IngestionConfig
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: db.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Ingestion: IngestionConfig{
			RowPause:       0,
			MaxUploadBytes: 32 << 20,
		},
	}
}

// Load reads config.yaml from configPath, overlaying defaults, with
// environment overrides (APP_DATABASE_HOST and friends).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("ingestion.row_pause_ms")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("ingestion.row_pause_ms") {
		cfg.Ingestion.RowPause = time.Duration(v.GetInt("ingestion.row_pause_ms")) * time.Millisecond
	}
	if v.IsSet("ingestion.max_upload_bytes") {
		cfg.Ingestion.MaxUploadBytes = v.GetInt64("ingestion.max_upload_bytes")
	}

	return cfg, nil
}
