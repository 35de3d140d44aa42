// Package access exposes content gating decisions over the dashboard API.
package access

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	accessdomain "github.com/lumendist/partnerhub/internal/services/access/domain"
	"github.com/lumendist/partnerhub/internal/services/dashboard/module"
	"github.com/lumendist/partnerhub/internal/services/dashboard/routepath"
)

// Checker is the decision contract the module depends on.
type Checker interface {
	CheckContent(ctx context.Context, contentKey string, partnerID string) (accessdomain.Decision, error)
}

// Module provides authenticated access-check routes.
type Module struct {
	checker Checker
	logger  zerolog.Logger
}

// New returns an access module backed by the provided checker.
func New(checker Checker, logger zerolog.Logger) Module {
	return Module{checker: checker, logger: logger}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "access" }

// Healthy reports whether the access module has an operational checker.
func (m Module) Healthy() bool { return m.checker != nil }

// Mount wires access route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.checker, m.logger)
	mux.HandleFunc(http.MethodGet+" "+routepath.AccessCheckPattern, h.handleCheck)
	return module.Mount{Prefix: routepath.AccessPrefix, Handler: mux}, nil
}
