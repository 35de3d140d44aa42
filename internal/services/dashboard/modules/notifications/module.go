// Package notifications exposes the partner notification inbox over the
// dashboard API, including the live bell stream.
package notifications

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"

	"github.com/lumendist/partnerhub/internal/services/dashboard/module"
	"github.com/lumendist/partnerhub/internal/services/dashboard/routepath"
	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
	"github.com/lumendist/partnerhub/internal/services/notifications/hub"
)

// Inbox is the notification use-case contract the module depends on.
type Inbox interface {
	CreateIntent(ctx context.Context, input domain.CreateIntentInput) (domain.Notification, error)
	ListRecent(ctx context.Context, recipientPartnerID string, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientPartnerID string) (int, error)
	MarkRead(ctx context.Context, recipientPartnerID string, notificationID string) (domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientPartnerID string) (int, error)
}

// Module provides authenticated notification routes.
type Module struct {
	inbox  Inbox
	hub    *hub.Hub
	logger zerolog.Logger
}

// New returns a notifications module backed by the provided inbox and hub.
func New(inbox Inbox, liveHub *hub.Hub, logger zerolog.Logger) Module {
	return Module{inbox: inbox, hub: liveHub, logger: logger}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "notifications" }

// Healthy reports whether the notifications module has an operational inbox.
func (m Module) Healthy() bool { return m.inbox != nil }

// Mount wires notification route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.inbox, m.hub, m.logger)
	mux.HandleFunc(http.MethodGet+" "+routepath.Notifications, h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.Notifications, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.NotificationsUnread, h.handleUnread)
	mux.HandleFunc(http.MethodPost+" "+routepath.NotificationsReadAll, h.handleReadAll)
	mux.HandleFunc(http.MethodPost+" "+routepath.NotificationReadPattern, h.handleMarkRead)
	mux.Handle(http.MethodGet+" "+routepath.NotificationsStream, websocket.Handler(h.handleStream))
	return module.Mount{Prefix: routepath.Notifications, Handler: mux}, nil
}
