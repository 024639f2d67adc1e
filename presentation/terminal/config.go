package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"action_recorder/application/selector"
	"action_recorder/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

const (
	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"
	DriverNone       = "none"
)

// Config is read from the environment (and .env, when present)
type Config struct {
	Driver          string
	ExcludedClasses []string
	SessionDir      string
	Headless        bool
	DriverPath      string
	BinaryPath      string
	LogLevel        logrus.Level
}

// LoadConfig - reads RECORDER_* variables with defaults
func LoadConfig() (Config, error) {
	cfg := Config{
		Driver:          strings.ToLower(getEnv("RECORDER_DRIVER", DriverPlaywright)),
		ExcludedClasses: append([]string(nil), selector.DefaultExcludedClassPatterns...),
		SessionDir:      getEnv("RECORDER_SESSION_DIR", storage.DefaultSessionDir()),
		DriverPath:      os.Getenv("BROWSER_DRIVER_PATH"),
		BinaryPath:      os.Getenv("CHROME_BINARY_PATH"),
		LogLevel:        logrus.InfoLevel,
	}

	switch cfg.Driver {
	case DriverPlaywright, DriverSelenium, DriverNone:
	default:
		return cfg, fmt.Errorf("unknown RECORDER_DRIVER %q (want playwright, selenium or none)", cfg.Driver)
	}

	for _, p := range strings.Split(os.Getenv("RECORDER_EXCLUDED_CLASSES"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.ExcludedClasses = append(cfg.ExcludedClasses, p)
		}
	}

	headless, err := strconv.ParseBool(getEnv("RECORDER_HEADLESS", "false"))
	if err != nil {
		return cfg, fmt.Errorf("invalid RECORDER_HEADLESS: %w", err)
	}
	cfg.Headless = headless

	if v := os.Getenv("RECORDER_LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid RECORDER_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// StateDir - browser profile and storage state live next to the sessions
func (c Config) StateDir() string {
	return filepath.Join(filepath.Dir(c.SessionDir), "browser")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
