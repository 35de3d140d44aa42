package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lumendist/partnerhub/internal/platform/requestctx"
	"github.com/lumendist/partnerhub/internal/services/dashboard/platform/httpx"
	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
	"github.com/lumendist/partnerhub/internal/services/notifications/hub"
)

type handlers struct {
	inbox  Inbox
	hub    *hub.Hub
	logger zerolog.Logger
}

func newHandlers(inbox Inbox, liveHub *hub.Hub, logger zerolog.Logger) handlers {
	return handlers{inbox: inbox, hub: liveHub, logger: logger}
}

type listResponse struct {
	Notifications []notificationView `json:"notifications"`
	UnreadCount   int                `json:"unread_count"`
}

type unreadResponse struct {
	UnreadCount int `json:"unread_count"`
}

type readAllResponse struct {
	Updated int `json:"updated"`
}

type createRequest struct {
	RecipientPartnerID string          `json:"recipient_partner_id"`
	MessageType        string          `json:"message_type"`
	Payload            json.RawMessage `json:"payload"`
	DedupeKey          string          `json:"dedupe_key"`
	Source             string          `json:"source"`
	Link               string          `json:"link"`
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	if h.inbox == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "notifications_unavailable")
		return
	}
	partnerID := requestctx.PartnerIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.inbox.ListRecent(r.Context(), partnerID, limit)
	if err != nil {
		h.writeInboxError(w, err, "list notifications")
		return
	}
	unread, err := h.inbox.CountUnread(r.Context(), partnerID)
	if err != nil {
		h.writeInboxError(w, err, "count unread")
		return
	}

	loc := requestLocalizer(r)
	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Notifications: toViews(loc, notifications),
		UnreadCount:   unread,
	})
}

func (h handlers) handleUnread(w http.ResponseWriter, r *http.Request) {
	if h.inbox == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "notifications_unavailable")
		return
	}
	partnerID := requestctx.PartnerIDFromContext(r.Context())

	unread, err := h.inbox.CountUnread(r.Context(), partnerID)
	if err != nil {
		h.writeInboxError(w, err, "count unread")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, unreadResponse{UnreadCount: unread})
}

func (h handlers) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if h.inbox == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "notifications_unavailable")
		return
	}
	partnerID := requestctx.PartnerIDFromContext(r.Context())
	notificationID := r.PathValue("notificationID")

	marked, err := h.inbox.MarkRead(r.Context(), partnerID, notificationID)
	if err != nil {
		h.writeInboxError(w, err, "mark read")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toView(requestLocalizer(r), marked))
}

func (h handlers) handleReadAll(w http.ResponseWriter, r *http.Request) {
	if h.inbox == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "notifications_unavailable")
		return
	}
	partnerID := requestctx.PartnerIDFromContext(r.Context())

	updated, err := h.inbox.MarkAllRead(r.Context(), partnerID)
	if err != nil {
		h.writeInboxError(w, err, "mark all read")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, readAllResponse{Updated: updated})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if h.inbox == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "notifications_unavailable")
		return
	}
	var request createRequest
	if err := httpx.DecodeJSON(r, &request); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request")
		return
	}

	recipientPartnerID := strings.TrimSpace(request.RecipientPartnerID)
	if recipientPartnerID == "" {
		recipientPartnerID = requestctx.PartnerIDFromContext(r.Context())
	}

	created, err := h.inbox.CreateIntent(r.Context(), domain.CreateIntentInput{
		RecipientPartnerID: recipientPartnerID,
		MessageType:        request.MessageType,
		PayloadJSON:        string(request.Payload),
		DedupeKey:          request.DedupeKey,
		Source:             request.Source,
		Link:               request.Link,
	})
	if err != nil {
		h.writeInboxError(w, err, "create notification")
		return
	}

	// Fan out to live feeds. Deduped re-sends are harmless: feeds drop
	// inserts whose id is already in the window.
	h.hub.Publish(created)

	httpx.WriteJSON(w, http.StatusCreated, toView(requestLocalizer(r), created))
}

func (h handlers) writeInboxError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, domain.ErrRecipientPartnerIDRequired),
		errors.Is(err, domain.ErrMessageTypeRequired),
		errors.Is(err, domain.ErrNotificationIDRequired):
		httpx.WriteError(w, http.StatusBadRequest, "bad_request")
	case errors.Is(err, domain.ErrStoreNotConfigured):
		httpx.WriteError(w, http.StatusServiceUnavailable, "notifications_unavailable")
	default:
		h.logger.Error().Err(err).Str("operation", operation).Msg("notification request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
	}
}
