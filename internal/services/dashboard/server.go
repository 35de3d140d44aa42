// Package dashboard hosts the partner-facing admin dashboard API.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lumendist/partnerhub/internal/platform/timeouts"
	accessapp "github.com/lumendist/partnerhub/internal/services/access/app"
	accessdomain "github.com/lumendist/partnerhub/internal/services/access/domain"
	accesssqlite "github.com/lumendist/partnerhub/internal/services/access/storage/sqlite"
	"github.com/lumendist/partnerhub/internal/services/dashboard/auth"
	"github.com/lumendist/partnerhub/internal/services/dashboard/module"
	accessmodule "github.com/lumendist/partnerhub/internal/services/dashboard/modules/access"
	notificationsmodule "github.com/lumendist/partnerhub/internal/services/dashboard/modules/notifications"
	"github.com/lumendist/partnerhub/internal/services/dashboard/platform/httpx"
	"github.com/lumendist/partnerhub/internal/services/dashboard/routepath"
	notificationsapp "github.com/lumendist/partnerhub/internal/services/notifications/app"
	notificationsdomain "github.com/lumendist/partnerhub/internal/services/notifications/domain"
	"github.com/lumendist/partnerhub/internal/services/notifications/hub"
	notificationssqlite "github.com/lumendist/partnerhub/internal/services/notifications/storage/sqlite"
)

// Config defines the inputs for the dashboard process.
type Config struct {
	HTTPAddr            string
	AccessDBPath        string
	NotificationsDBPath string
	SessionSecret       string
	Logger              zerolog.Logger
}

// Server hosts the dashboard API over composed feature modules.
type Server struct {
	httpAddr           string
	httpServer         *http.Server
	logger             zerolog.Logger
	accessStore        *accesssqlite.Store
	notificationsStore *notificationssqlite.Store
}

// NewServer opens storage, builds domain services, and composes the module
// routes into one HTTP server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	authenticator, err := auth.New(config.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("configure session auth: %w", err)
	}

	accessStore, err := openStore(config.AccessDBPath, accesssqlite.Open)
	if err != nil {
		return nil, fmt.Errorf("open access store: %w", err)
	}
	notificationsStore, err := openStore(config.NotificationsDBPath, notificationssqlite.Open)
	if err != nil {
		_ = accessStore.Close()
		return nil, fmt.Errorf("open notifications store: %w", err)
	}

	accessService := accessdomain.NewService(accessapp.NewDomainStore(accessStore))
	notificationsService := notificationsdomain.NewService(notificationsapp.NewDomainStore(notificationsStore), nil, nil)
	liveHub := hub.New()

	modules := []module.Module{
		accessmodule.New(accessService, config.Logger),
		notificationsmodule.New(notificationsService, liveHub, config.Logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, healthHandler(modules))
	for _, m := range modules {
		mount, mountErr := m.Mount()
		if mountErr != nil {
			_ = accessStore.Close()
			_ = notificationsStore.Close()
			return nil, fmt.Errorf("mount module %s: %w", m.ID(), mountErr)
		}
		handler := httpx.Chain(mount.Handler,
			httpx.RequestID(),
			httpx.Recover(config.Logger),
			authenticator.RequirePartner(),
		)
		mux.Handle(mount.Prefix, handler)
		if !strings.HasSuffix(mount.Prefix, "/") {
			mux.Handle(mount.Prefix+"/", handler)
		}
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           mux,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		logger:             config.Logger,
		accessStore:        accessStore,
		notificationsStore: notificationsStore,
	}, nil
}

// Handler exposes the composed route tree.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}

// ListenAndServe blocks until the context is canceled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("dashboard server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Info().Str("addr", s.httpAddr).Msg("dashboard listening")
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases storage resources held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.accessStore != nil {
		if err := s.accessStore.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close access store")
		}
	}
	if s.notificationsStore != nil {
		if err := s.notificationsStore.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close notifications store")
		}
	}
}

func healthHandler(modules []module.Module) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		statuses := make(map[string]bool, len(modules))
		healthy := true
		for _, m := range modules {
			ok := true
			if reporter, implements := m.(module.HealthReporter); implements {
				ok = reporter.Healthy()
			}
			statuses[m.ID()] = ok
			healthy = healthy && ok
		}
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, status, map[string]any{"healthy": healthy, "modules": statuses})
	}
}

func openStore[T interface{ Close() error }](path string, open func(string) (T, error)) (T, error) {
	var zero T
	path = strings.TrimSpace(path)
	if path == "" {
		return zero, errors.New("storage path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zero, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return open(path)
}
