package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port     int    `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	LeaderboardBackend string        `envconfig:"LEADERBOARD_BACKEND" default:"file"`
	LeaderboardFile    string        `envconfig:"LEADERBOARD_FILE" default:"leaderboard.json"`
	BadgerPath         string        `envconfig:"BADGER_PATH" default:"data/leaderboard"`
	DatabaseURL        string        `envconfig:"DATABASE_URL"`
	LeaderboardLimit   int           `envconfig:"LEADERBOARD_LIMIT" default:"100"`
	LeaderboardTop     int           `envconfig:"LEADERBOARD_TOP" default:"10"`
	PersistTimeout     time.Duration `envconfig:"PERSIST_TIMEOUT" default:"2s"`

	SendBuffer int    `envconfig:"SEND_BUFFER" default:"64"`
	StaticDir  string `envconfig:"STATIC_DIR"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LeaderboardBackend {
	case BackendFile, BackendBadger, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown LEADERBOARD_BACKEND %q", c.LeaderboardBackend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) Logger() *slog.Logger {
	return NewLogger(c.LogLevel)
}

// NewLogger builds a text logger on stderr; unknown levels fall back to INFO.
func NewLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
