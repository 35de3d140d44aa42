// Package app wires notification persistence into the domain boundary.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
	"github.com/lumendist/partnerhub/internal/services/notifications/storage"
)

// DomainStore adapts the storage boundary to the domain Store contract.
type DomainStore struct {
	store storage.Store
}

// NewDomainStore constructs the storage-backed domain store.
func NewDomainStore(store storage.Store) *DomainStore {
	return &DomainStore{store: store}
}

// GetNotificationByRecipientAndDedupeKey loads one notification by dedupe key.
func (a *DomainStore) GetNotificationByRecipientAndDedupeKey(ctx context.Context, recipientPartnerID string, dedupeKey string) (domain.Notification, error) {
	if a == nil || a.store == nil {
		return domain.Notification{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetNotificationByDedupeKey(ctx, recipientPartnerID, dedupeKey)
	if err != nil {
		return domain.Notification{}, mapStorageError(err)
	}
	return toDomainNotification(record), nil
}

// PutNotification inserts one notification row.
func (a *DomainStore) PutNotification(ctx context.Context, notification domain.Notification) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	if err := a.store.PutNotification(ctx, toStorageNotification(notification)); err != nil {
		return mapStorageError(err)
	}
	return nil
}

// ListRecentByRecipient lists the recipient's newest notifications first.
func (a *DomainStore) ListRecentByRecipient(ctx context.Context, recipientPartnerID string, limit int) ([]domain.Notification, error) {
	if a == nil || a.store == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.store.ListRecentByRecipient(ctx, recipientPartnerID, limit)
	if err != nil {
		return nil, mapStorageError(err)
	}
	notifications := make([]domain.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, toDomainNotification(record))
	}
	return notifications, nil
}

// CountUnreadByRecipient counts unread recipient notifications.
func (a *DomainStore) CountUnreadByRecipient(ctx context.Context, recipientPartnerID string) (int, error) {
	if a == nil || a.store == nil {
		return 0, domain.ErrStoreNotConfigured
	}
	count, err := a.store.CountUnreadByRecipient(ctx, recipientPartnerID)
	if err != nil {
		return 0, mapStorageError(err)
	}
	return count, nil
}

// MarkNotificationRead stamps one unread recipient notification.
func (a *DomainStore) MarkNotificationRead(ctx context.Context, recipientPartnerID string, notificationID string, readAt time.Time) (domain.Notification, error) {
	if a == nil || a.store == nil {
		return domain.Notification{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.MarkNotificationRead(ctx, recipientPartnerID, notificationID, readAt)
	if err != nil {
		return domain.Notification{}, mapStorageError(err)
	}
	return toDomainNotification(record), nil
}

// MarkAllNotificationsRead stamps every unread recipient notification.
func (a *DomainStore) MarkAllNotificationsRead(ctx context.Context, recipientPartnerID string, readAt time.Time) (int, error) {
	if a == nil || a.store == nil {
		return 0, domain.ErrStoreNotConfigured
	}
	changed, err := a.store.MarkAllNotificationsRead(ctx, recipientPartnerID, readAt)
	if err != nil {
		return 0, mapStorageError(err)
	}
	return changed, nil
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, storage.ErrDuplicateDedupeKey):
		return domain.ErrConflict
	default:
		return err
	}
}

func toDomainNotification(record storage.NotificationRecord) domain.Notification {
	return domain.Notification{
		ID:                 record.ID,
		RecipientPartnerID: record.RecipientPartnerID,
		MessageType:        record.MessageType,
		PayloadJSON:        record.PayloadJSON,
		DedupeKey:          record.DedupeKey,
		Source:             record.Source,
		Link:               record.Link,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
		ReadAt:             record.ReadAt,
	}
}

func toStorageNotification(notification domain.Notification) storage.NotificationRecord {
	return storage.NotificationRecord{
		ID:                 notification.ID,
		RecipientPartnerID: notification.RecipientPartnerID,
		MessageType:        notification.MessageType,
		PayloadJSON:        notification.PayloadJSON,
		DedupeKey:          notification.DedupeKey,
		Source:             notification.Source,
		Link:               notification.Link,
		CreatedAt:          notification.CreatedAt,
		UpdatedAt:          notification.UpdatedAt,
		ReadAt:             notification.ReadAt,
	}
}
