// Package config loads application configuration from environment variables.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ConnString   string
	ListenAddr   string
	LogLevel     slog.Level
	Banner       string
	QueryTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: LOGINFORM_CONN_STR (loginform.db),
// LOGINFORM_LISTEN_ADDR (127.0.0.1:8080), LOGINFORM_LOG_LEVEL (info),
// LOGINFORM_QUERY_TIMEOUT (5s). LOGINFORM_BANNER is an optional markdown
// notice shown above the login form.
func Load() (*Config, error) {
	connStr := "loginform.db"
	if v, ok := os.LookupEnv("LOGINFORM_CONN_STR"); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("LOGINFORM_CONN_STR is set but empty")
		}
		connStr = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("LOGINFORM_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	level := slog.LevelInfo
	if v, ok := os.LookupEnv("LOGINFORM_LOG_LEVEL"); ok && v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOGINFORM_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	queryTimeout := 5 * time.Second
	if v, ok := os.LookupEnv("LOGINFORM_QUERY_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LOGINFORM_QUERY_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("LOGINFORM_QUERY_TIMEOUT must not be negative, got %s", parsed)
		}
		queryTimeout = parsed
	}

	return &Config{
		ConnString:   connStr,
		ListenAddr:   listenAddr,
		LogLevel:     level,
		Banner:       os.Getenv("LOGINFORM_BANNER"),
		QueryTimeout: queryTimeout,
	}, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment.
// Variables already present in the environment are preserved. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open env file: %w", err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.Trim(strings.TrimSpace(v), `"`)
		if _, exists := os.LookupEnv(k); !exists {
			if err := os.Setenv(k, v); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("read env file: %w", err)
	}
	return nil
}
