// Package dashboard wires configuration into the dashboard server process.
package dashboard

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	platformcmd "github.com/lumendist/partnerhub/internal/platform/cmd"
	"github.com/lumendist/partnerhub/internal/platform/logging"
	"github.com/lumendist/partnerhub/internal/services/dashboard"
)

const defaultHTTPAddr = ":8080"

// Config holds the dashboard command configuration.
type Config struct {
	HTTPAddr            string
	AccessDBPath        string
	NotificationsDBPath string
	SessionSecret       string
	LogLevel            string
}

type envConfig struct {
	HTTPAddr            string `env:"PARTNERHUB_DASHBOARD_ADDR"`
	AccessDBPath        string `env:"PARTNERHUB_ACCESS_DB_PATH"`
	NotificationsDBPath string `env:"PARTNERHUB_NOTIFICATIONS_DB_PATH"`
	SessionSecret       string `env:"PARTNERHUB_SESSION_SECRET"`
	LogLevel            string `env:"PARTNERHUB_LOG_LEVEL"`
}

// ParseConfig loads environment defaults and parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var fromEnv envConfig
	if err := platformcmd.ParseConfig(&fromEnv); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:            stringOrDefault(fromEnv.HTTPAddr, defaultHTTPAddr),
		AccessDBPath:        stringOrDefault(fromEnv.AccessDBPath, filepath.Join("data", "access.db")),
		NotificationsDBPath: stringOrDefault(fromEnv.NotificationsDBPath, filepath.Join("data", "notifications.db")),
		SessionSecret:       fromEnv.SessionSecret,
		LogLevel:            fromEnv.LogLevel,
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AccessDBPath, "access-db", cfg.AccessDBPath, "access sqlite database path")
	fs.StringVar(&cfg.NotificationsDBPath, "notifications-db", cfg.NotificationsDBPath, "notifications sqlite database path")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "session token signing secret")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the dashboard server.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(os.Stderr, platformcmd.ServiceDashboard, cfg.LogLevel)
	if err != nil {
		return err
	}

	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceDashboard, func(ctx context.Context) error {
		server, err := dashboard.NewServer(dashboard.Config{
			HTTPAddr:            cfg.HTTPAddr,
			AccessDBPath:        cfg.AccessDBPath,
			NotificationsDBPath: cfg.NotificationsDBPath,
			SessionSecret:       cfg.SessionSecret,
			Logger:              logger,
		})
		if err != nil {
			return fmt.Errorf("init dashboard server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve dashboard: %w", err)
		}
		return nil
	})
}

func stringOrDefault(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
