// Package sqlite provides SQLite-backed persistence for notification state.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/lumendist/partnerhub/internal/platform/storage/sqlitemigrate"
	"github.com/lumendist/partnerhub/internal/services/notifications/storage"
	"github.com/lumendist/partnerhub/internal/services/notifications/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for notification rows.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a notification SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutNotification inserts one notification row. A dedupe-key collision for the
// same recipient surfaces as ErrDuplicateDedupeKey.
func (s *Store) PutNotification(ctx context.Context, record storage.NotificationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeNotificationRecord(record)
	if err != nil {
		return err
	}

	var readAt any
	if normalized.ReadAt != nil {
		readAt = toMillis(*normalized.ReadAt)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO notifications (
		id, recipient_partner_id, message_type, payload_json, dedupe_key,
		source, link, created_at, updated_at, read_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		normalized.ID,
		normalized.RecipientPartnerID,
		normalized.MessageType,
		normalized.PayloadJSON,
		normalized.DedupeKey,
		normalized.Source,
		normalized.Link,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
		readAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) && normalized.DedupeKey != "" {
			return storage.ErrDuplicateDedupeKey
		}
		return fmt.Errorf("put notification: %w", err)
	}
	return nil
}

// GetNotification loads one recipient-scoped notification row.
func (s *Store) GetNotification(ctx context.Context, recipientPartnerID string, notificationID string) (storage.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.NotificationRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.NotificationRecord{}, fmt.Errorf("storage is not configured")
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	notificationID = strings.TrimSpace(notificationID)
	if recipientPartnerID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("recipient partner id is required")
	}
	if notificationID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("notification id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, selectNotificationColumns+`
WHERE recipient_partner_id = ? AND id = ?
`, recipientPartnerID, notificationID)
	record, err := scanNotification(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.NotificationRecord{}, storage.ErrNotFound
		}
		return storage.NotificationRecord{}, fmt.Errorf("get notification: %w", err)
	}
	return record, nil
}

// GetNotificationByDedupeKey loads one notification row by recipient and dedupe key.
func (s *Store) GetNotificationByDedupeKey(ctx context.Context, recipientPartnerID string, dedupeKey string) (storage.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.NotificationRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.NotificationRecord{}, fmt.Errorf("storage is not configured")
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	dedupeKey = strings.TrimSpace(dedupeKey)
	if recipientPartnerID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("recipient partner id is required")
	}
	if dedupeKey == "" {
		return storage.NotificationRecord{}, fmt.Errorf("dedupe key is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, selectNotificationColumns+`
WHERE recipient_partner_id = ? AND dedupe_key = ?
`, recipientPartnerID, dedupeKey)
	record, err := scanNotification(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.NotificationRecord{}, storage.ErrNotFound
		}
		return storage.NotificationRecord{}, fmt.Errorf("get notification by dedupe key: %w", err)
	}
	return record, nil
}

// ListRecentByRecipient lists the recipient's newest notifications first.
// Ties on created_at break by id descending so the order is stable.
func (s *Store) ListRecentByRecipient(ctx context.Context, recipientPartnerID string, limit int) ([]storage.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return nil, fmt.Errorf("recipient partner id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.sqlDB.QueryContext(ctx, selectNotificationColumns+`
WHERE recipient_partner_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, recipientPartnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var records []storage.NotificationRecord
	for rows.Next() {
		record, scanErr := scanNotification(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan notification row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return records, nil
}

// CountUnreadByRecipient counts unread recipient notifications.
func (s *Store) CountUnreadByRecipient(ctx context.Context, recipientPartnerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return 0, fmt.Errorf("recipient partner id is required")
	}

	var count int
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(*) FROM notifications
WHERE recipient_partner_id = ? AND read_at IS NULL
`, recipientPartnerID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead stamps read_at on one unread row. Already-read rows are
// returned unchanged; missing rows surface as ErrNotFound.
func (s *Store) MarkNotificationRead(ctx context.Context, recipientPartnerID string, notificationID string, readAt time.Time) (storage.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.NotificationRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.NotificationRecord{}, fmt.Errorf("storage is not configured")
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	notificationID = strings.TrimSpace(notificationID)
	if recipientPartnerID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("recipient partner id is required")
	}
	if notificationID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("notification id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
UPDATE notifications
SET read_at = ?, updated_at = ?
WHERE recipient_partner_id = ? AND id = ? AND read_at IS NULL
`, toMillis(readAt), toMillis(readAt), recipientPartnerID, notificationID)
	if err != nil {
		return storage.NotificationRecord{}, fmt.Errorf("mark notification read: %w", err)
	}
	return s.GetNotification(ctx, recipientPartnerID, notificationID)
}

// MarkAllNotificationsRead stamps read_at on every unread recipient row and
// returns how many rows changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipientPartnerID string, readAt time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if recipientPartnerID == "" {
		return 0, fmt.Errorf("recipient partner id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE notifications
SET read_at = ?, updated_at = ?
WHERE recipient_partner_id = ? AND read_at IS NULL
`, toMillis(readAt), toMillis(readAt), recipientPartnerID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(changed), nil
}

const selectNotificationColumns = `
SELECT id, recipient_partner_id, message_type, payload_json, dedupe_key,
       source, link, created_at, updated_at, read_at
FROM notifications
`

type scanner func(dest ...any) error

func normalizeNotificationRecord(record storage.NotificationRecord) (storage.NotificationRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.RecipientPartnerID = strings.TrimSpace(record.RecipientPartnerID)
	record.MessageType = strings.TrimSpace(record.MessageType)
	record.DedupeKey = strings.TrimSpace(record.DedupeKey)
	record.Source = strings.TrimSpace(record.Source)
	record.Link = strings.TrimSpace(record.Link)
	if record.ID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("notification id is required")
	}
	if record.RecipientPartnerID == "" {
		return storage.NotificationRecord{}, fmt.Errorf("recipient partner id is required")
	}
	if record.MessageType == "" {
		return storage.NotificationRecord{}, fmt.Errorf("message type is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.NotificationRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.NotificationRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func scanNotification(scan scanner) (storage.NotificationRecord, error) {
	var record storage.NotificationRecord
	var createdAt int64
	var updatedAt int64
	var readAt sql.NullInt64
	if err := scan(
		&record.ID,
		&record.RecipientPartnerID,
		&record.MessageType,
		&record.PayloadJSON,
		&record.DedupeKey,
		&record.Source,
		&record.Link,
		&createdAt,
		&updatedAt,
		&readAt,
	); err != nil {
		return storage.NotificationRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	if readAt.Valid {
		at := fromMillis(readAt.Int64)
		record.ReadAt = &at
	}
	return record, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
