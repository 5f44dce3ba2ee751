package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds settings read from the environment, with WEBGRAPH_ prefix.
type Config struct {
	// DB is the SQLite database path. Defaults to ~/.webgraph/webgraph.db.
	DB string

	UserAgent string `split_words:"true" default:"webgraph/1.0"`

	// Rate is the request rate per second allowed per domain.
	Rate float64 `default:"1"`

	Timeout time.Duration `default:"10s"`

	// GeminiAPIKey enables Gemini embeddings and the ask command.
	// GEMINI_API_KEY is read when WEBGRAPH_GEMINI_API_KEY is unset.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
}

// LoadConfig loads .env from the working directory when present, then
// reads the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("webgraph", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DB == "" {
		cfg.DB = defaultDBPath()
	}
	return cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "webgraph.db"
	}
	dir := filepath.Join(home, ".webgraph")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "webgraph.db")
}
