// Package domain implements partner notification lifecycle behavior.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lumendist/partnerhub/internal/platform/id"
)

var (
	// ErrNotFound indicates a notification record was not found.
	ErrNotFound = errors.New("notification not found")
	// ErrConflict indicates a write collided with an existing uniqueness constraint.
	ErrConflict = errors.New("notification conflict")
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("notification store is not configured")
	// ErrRecipientPartnerIDRequired indicates recipient identity is required.
	ErrRecipientPartnerIDRequired = errors.New("recipient partner id is required")
	// ErrMessageTypeRequired indicates a message type is required.
	ErrMessageTypeRequired = errors.New("notification message type is required")
	// ErrNotificationIDRequired indicates a notification id is required.
	ErrNotificationIDRequired = errors.New("notification id is required")
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// Notification captures one partner-targeted notification item.
type Notification struct {
	ID                 string
	RecipientPartnerID string
	MessageType        string
	PayloadJSON        string
	DedupeKey          string
	Source             string
	Link               string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ReadAt             *time.Time
}

// Read reports whether the notification has been acknowledged.
func (n Notification) Read() bool {
	return n.ReadAt != nil
}

// CreateIntentInput describes one producer notification request.
type CreateIntentInput struct {
	RecipientPartnerID string
	MessageType        string
	PayloadJSON        string
	DedupeKey          string
	Source             string
	Link               string
}

// Store is the domain persistence boundary for notification lifecycle behavior.
type Store interface {
	GetNotificationByRecipientAndDedupeKey(ctx context.Context, recipientPartnerID string, dedupeKey string) (Notification, error)
	PutNotification(ctx context.Context, notification Notification) error
	ListRecentByRecipient(ctx context.Context, recipientPartnerID string, limit int) ([]Notification, error)
	CountUnreadByRecipient(ctx context.Context, recipientPartnerID string) (int, error)
	MarkNotificationRead(ctx context.Context, recipientPartnerID string, notificationID string, readAt time.Time) (Notification, error)
	MarkAllNotificationsRead(ctx context.Context, recipientPartnerID string, readAt time.Time) (int, error)
}

// Service orchestrates recipient inbox lifecycle behavior.
type Service struct {
	store Store
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs the notification domain use-cases.
func NewService(store Store, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store: store,
		clock: clock,
		newID: newID,
	}
}

// CreateIntent stores one notification item. When a dedupe key is provided and
// the recipient already holds a matching item, the existing item is returned
// and no new row is written.
func (s *Service) CreateIntent(ctx context.Context, input CreateIntentInput) (Notification, error) {
	if s == nil || s.store == nil {
		return Notification{}, ErrStoreNotConfigured
	}
	recipientPartnerID := strings.TrimSpace(input.RecipientPartnerID)
	if recipientPartnerID == "" {
		return Notification{}, ErrRecipientPartnerIDRequired
	}
	messageType := NormalizeMessageType(input.MessageType)
	if messageType == "" {
		return Notification{}, ErrMessageTypeRequired
	}

	dedupeKey := strings.TrimSpace(input.DedupeKey)
	if dedupeKey != "" {
		existing, err := s.store.GetNotificationByRecipientAndDedupeKey(ctx, recipientPartnerID, dedupeKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Notification{}, err
		}
	}

	notificationID, err := s.newID()
	if err != nil {
		return Notification{}, err
	}
	now := s.nowUTC()
	notification := Notification{
		ID:                 notificationID,
		RecipientPartnerID: recipientPartnerID,
		MessageType:        messageType,
		PayloadJSON:        strings.TrimSpace(input.PayloadJSON),
		DedupeKey:          dedupeKey,
		Source:             strings.TrimSpace(input.Source),
		Link:               strings.TrimSpace(input.Link),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.PutNotification(ctx, notification); err != nil {
		// A concurrent producer may have won the dedupe race.
		if dedupeKey != "" && errors.Is(err, ErrConflict) {
			existing, lookupErr := s.store.GetNotificationByRecipientAndDedupeKey(ctx, recipientPartnerID, dedupeKey)
			if lookupErr == nil {
				return existing, nil
			}
		}
		return Notification{}, err
	}
	return notification, nil
}

// ListRecent lists the recipient's most recent notifications, newest first.
func (s *Service) ListRecent(ctx context.Context, recipientPartnerID string, limit int) ([]Notification, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return nil, ErrRecipientPartnerIDRequired
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	return s.store.ListRecentByRecipient(ctx, recipientPartnerID, limit)
}

// CountUnread returns the recipient's unread notification count.
func (s *Service) CountUnread(ctx context.Context, recipientPartnerID string) (int, error) {
	if s == nil || s.store == nil {
		return 0, ErrStoreNotConfigured
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return 0, ErrRecipientPartnerIDRequired
	}
	return s.store.CountUnreadByRecipient(ctx, recipientPartnerID)
}

// MarkRead marks one recipient notification as read. Marking an already-read
// notification is a no-op success.
func (s *Service) MarkRead(ctx context.Context, recipientPartnerID string, notificationID string) (Notification, error) {
	if s == nil || s.store == nil {
		return Notification{}, ErrStoreNotConfigured
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return Notification{}, ErrRecipientPartnerIDRequired
	}
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return Notification{}, ErrNotificationIDRequired
	}
	return s.store.MarkNotificationRead(ctx, recipientPartnerID, notificationID, s.nowUTC())
}

// MarkAllRead marks every unread recipient notification as read and returns
// how many rows changed.
func (s *Service) MarkAllRead(ctx context.Context, recipientPartnerID string) (int, error) {
	if s == nil || s.store == nil {
		return 0, ErrStoreNotConfigured
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return 0, ErrRecipientPartnerIDRequired
	}
	return s.store.MarkAllNotificationsRead(ctx, recipientPartnerID, s.nowUTC())
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
