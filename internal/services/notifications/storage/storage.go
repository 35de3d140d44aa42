// Package storage defines persistence contracts for notification state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateDedupeKey indicates a recipient already holds a notification
// with the same dedupe key.
var ErrDuplicateDedupeKey = errors.New("duplicate dedupe key")

// NotificationRecord is one stored notification row.
type NotificationRecord struct {
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

// Store is the persistence boundary for notification rows.
type Store interface {
	PutNotification(ctx context.Context, record NotificationRecord) error
	GetNotification(ctx context.Context, recipientPartnerID string, notificationID string) (NotificationRecord, error)
	GetNotificationByDedupeKey(ctx context.Context, recipientPartnerID string, dedupeKey string) (NotificationRecord, error)
	ListRecentByRecipient(ctx context.Context, recipientPartnerID string, limit int) ([]NotificationRecord, error)
	CountUnreadByRecipient(ctx context.Context, recipientPartnerID string) (int, error)
	MarkNotificationRead(ctx context.Context, recipientPartnerID string, notificationID string, readAt time.Time) (NotificationRecord, error)
	MarkAllNotificationsRead(ctx context.Context, recipientPartnerID string, readAt time.Time) (int, error)
}
