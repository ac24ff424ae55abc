// Package config resolves the run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

// Environment variable names.
const (
	EnvToken = "GH_TOKEN"
	EnvURL   = "GH_URL"
)

// MissingEnvError lists every required variable that is unset.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return "missing environment variables: " + strings.Join(e.Names, ", ")
}

// Config holds application configuration for one run.
type Config struct {
	Token  string
	URL    string
	Target domain.Target
	Window domain.DateWindow
}

// LoadDotEnv seeds the process environment from a .env file when one exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the token and target URL through getenv, classifies the target
// and computes a window of windowDays days ending on the date of now.
func Load(getenv func(string) string, now time.Time, windowDays int) (*Config, error) {
	cfg := &Config{
		Token: strings.TrimSpace(getenv(EnvToken)),
		URL:   strings.TrimSpace(getenv(EnvURL)),
	}

	var missing []string
	if cfg.Token == "" {
		missing = append(missing, EnvToken)
	}
	if cfg.URL == "" {
		missing = append(missing, EnvURL)
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Names: missing}
	}

	target, err := domain.ParseTarget(cfg.URL)
	if err != nil {
		return nil, err
	}
	cfg.Target = target

	window, err := domain.RollingWindow(now, windowDays)
	if err != nil {
		return nil, err
	}
	cfg.Window = window
	return cfg, nil
}
