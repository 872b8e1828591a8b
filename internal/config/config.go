package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// ErrMissingAPIURL is returned when no backend base URL is configured.
var ErrMissingAPIURL = errors.New("API_URL is required")

type Config struct {
	APIURL          string        `env:"API_URL" envDefault:"http://localhost:8000"`
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:"localhost:8090"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RateLimit       float64       `env:"RATE_LIMIT" envDefault:"0"`
	BreakerFailures int           `env:"BREAKER_FAILURES" envDefault:"5"`
	Origins         string        `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	AllowedOrigins []string
}

// Load reads configuration from (in increasing priority) the dotenv file,
// the process environment, and command-line flags.
func Load(args []string) (*Config, error) {
	if err := loadDotenv(getDotenvPath()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flags := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	flags.StringVarP(&cfg.APIURL, "api-url", "u", cfg.APIURL, "Backend base URL.")
	flags.StringVarP(&cfg.ListenAddr, "listen", "a", cfg.ListenAddr, "View API listen address in a form host:port.")
	flags.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "Log level.")
	flags.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Backend request timeout.")
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Backend requests per second (0 = unlimited).")
	flags.IntVar(&cfg.BreakerFailures, "breaker-failures", cfg.BreakerFailures, "Consecutive failures before the backend breaker opens.")
	flags.StringVar(&cfg.Origins, "origins", cfg.Origins, "Comma-separated CORS origins.")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return nil, ErrMissingAPIURL
	}
	cfg.AllowedOrigins = splitList(cfg.Origins)
	return &cfg, nil
}

func getDotenvPath() string {
	if v := os.Getenv("DOTENV_FILE"); v != "" {
		return v
	}
	return ".env"
}

// loadDotenv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
