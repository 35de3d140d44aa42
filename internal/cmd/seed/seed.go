// Package seed wires configuration into the fixture loading tool.
package seed

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformcmd "github.com/lumendist/partnerhub/internal/platform/cmd"
	"github.com/lumendist/partnerhub/internal/platform/logging"
	"github.com/lumendist/partnerhub/internal/seed"
	accesssqlite "github.com/lumendist/partnerhub/internal/services/access/storage/sqlite"
	"github.com/lumendist/partnerhub/internal/services/dashboard/auth"
	notificationssqlite "github.com/lumendist/partnerhub/internal/services/notifications/storage/sqlite"
)

// Config holds the seed command configuration.
type Config struct {
	FixturePath         string
	AccessDBPath        string
	NotificationsDBPath string
	SessionSecret       string
	MintTokenFor        string
	LogLevel            string
}

type envConfig struct {
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
		AccessDBPath:        stringOrDefault(fromEnv.AccessDBPath, filepath.Join("data", "access.db")),
		NotificationsDBPath: stringOrDefault(fromEnv.NotificationsDBPath, filepath.Join("data", "notifications.db")),
		SessionSecret:       fromEnv.SessionSecret,
		LogLevel:            fromEnv.LogLevel,
	}

	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "fixture YAML file to load")
	fs.StringVar(&cfg.AccessDBPath, "access-db", cfg.AccessDBPath, "access sqlite database path")
	fs.StringVar(&cfg.NotificationsDBPath, "notifications-db", cfg.NotificationsDBPath, "notifications sqlite database path")
	fs.StringVar(&cfg.MintTokenFor, "mint-token-for", cfg.MintTokenFor, "print a development session token for this partner id")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the fixture into both stores and optionally mints a dev token.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(os.Stderr, platformcmd.ServiceSeed, cfg.LogLevel)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cfg.FixturePath) != "" {
		file, err := os.Open(cfg.FixturePath)
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		defer file.Close()

		fixture, err := seed.Load(file)
		if err != nil {
			return err
		}

		accessStore, err := accesssqlite.Open(cfg.AccessDBPath)
		if err != nil {
			return fmt.Errorf("open access store: %w", err)
		}
		defer accessStore.Close()
		notificationsStore, err := notificationssqlite.Open(cfg.NotificationsDBPath)
		if err != nil {
			return fmt.Errorf("open notifications store: %w", err)
		}
		defer notificationsStore.Close()

		summary, err := seed.Apply(ctx, fixture, accessStore, notificationsStore)
		if err != nil {
			return err
		}
		logger.Info().
			Int("partners", summary.Partners).
			Int("gates", summary.Gates).
			Int("gates_total", summary.GatesTotal).
			Int("notifications", summary.Notifications).
			Int("skipped", summary.Skipped).
			Msg("fixture applied")
	}

	if partnerID := strings.TrimSpace(cfg.MintTokenFor); partnerID != "" {
		authenticator, err := auth.New(cfg.SessionSecret)
		if err != nil {
			return fmt.Errorf("configure session auth: %w", err)
		}
		token, err := authenticator.Mint(partnerID, 24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Println(token)
	}

	return nil
}

func stringOrDefault(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
