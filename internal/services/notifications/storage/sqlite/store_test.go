package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumendist/partnerhub/internal/services/notifications/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir() + "/notifications.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func testRecord(id string, createdAt time.Time) storage.NotificationRecord {
	return storage.NotificationRecord{
		ID:                 id,
		RecipientPartnerID: "partner-1",
		MessageType:        "order.created",
		PayloadJSON:        `{"order_id":"ord-1"}`,
		Source:             "orders",
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

func TestNotificationRoundTrip(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	record := testRecord("notif-1", now)
	record.Link = "/orders/ord-1"
	if err := store.PutNotification(context.Background(), record); err != nil {
		t.Fatalf("put notification: %v", err)
	}

	loaded, err := store.GetNotification(context.Background(), "partner-1", "notif-1")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if loaded.MessageType != "order.created" {
		t.Fatalf("message type = %q, want order.created", loaded.MessageType)
	}
	if loaded.Link != "/orders/ord-1" {
		t.Fatalf("link = %q, want /orders/ord-1", loaded.Link)
	}
	if !loaded.CreatedAt.Equal(now) {
		t.Fatalf("created at = %v, want %v", loaded.CreatedAt, now)
	}
	if loaded.ReadAt != nil {
		t.Fatalf("read at = %v, want nil", loaded.ReadAt)
	}
}

func TestGetNotificationIsRecipientScoped(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	if err := store.PutNotification(context.Background(), testRecord("notif-1", now)); err != nil {
		t.Fatalf("put notification: %v", err)
	}

	if _, err := store.GetNotification(context.Background(), "partner-2", "notif-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign recipient, got %v", err)
	}
}

func TestDedupeKeyUniquePerRecipient(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	first := testRecord("notif-1", now)
	first.DedupeKey = "stock.low:sku-42"
	if err := store.PutNotification(context.Background(), first); err != nil {
		t.Fatalf("put first: %v", err)
	}

	duplicate := testRecord("notif-2", now)
	duplicate.DedupeKey = "stock.low:sku-42"
	if err := store.PutNotification(context.Background(), duplicate); !errors.Is(err, storage.ErrDuplicateDedupeKey) {
		t.Fatalf("expected ErrDuplicateDedupeKey, got %v", err)
	}

	other := testRecord("notif-3", now)
	other.RecipientPartnerID = "partner-2"
	other.DedupeKey = "stock.low:sku-42"
	if err := store.PutNotification(context.Background(), other); err != nil {
		t.Fatalf("same key for other recipient should insert: %v", err)
	}

	loaded, err := store.GetNotificationByDedupeKey(context.Background(), "partner-1", "stock.low:sku-42")
	if err != nil {
		t.Fatalf("get by dedupe key: %v", err)
	}
	if loaded.ID != "notif-1" {
		t.Fatalf("loaded id = %q, want notif-1", loaded.ID)
	}
}

func TestBlankDedupeKeysDoNotCollide(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if err := store.PutNotification(context.Background(), testRecord(fmt.Sprintf("notif-%d", i), now)); err != nil {
			t.Fatalf("put notification %d: %v", i, err)
		}
	}
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := store.PutNotification(context.Background(), testRecord(fmt.Sprintf("notif-%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("put notification %d: %v", i, err)
		}
	}

	records, err := store.ListRecentByRecipient(context.Background(), "partner-1", 3)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records len = %d, want 3", len(records))
	}
	if records[0].ID != "notif-4" || records[1].ID != "notif-3" || records[2].ID != "notif-2" {
		t.Fatalf("unexpected order: %s %s %s", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestListRecentBreaksTiesByID(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	for _, id := range []string{"notif-a", "notif-c", "notif-b"} {
		if err := store.PutNotification(context.Background(), testRecord(id, now)); err != nil {
			t.Fatalf("put notification %s: %v", id, err)
		}
	}

	records, err := store.ListRecentByRecipient(context.Background(), "partner-1", 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if records[0].ID != "notif-c" || records[1].ID != "notif-b" || records[2].ID != "notif-a" {
		t.Fatalf("unexpected tie order: %s %s %s", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := store.PutNotification(context.Background(), testRecord("notif-1", now)); err != nil {
		t.Fatalf("put notification: %v", err)
	}

	readAt := now.Add(time.Minute)
	marked, err := store.MarkNotificationRead(context.Background(), "partner-1", "notif-1", readAt)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if marked.ReadAt == nil || !marked.ReadAt.Equal(readAt) {
		t.Fatalf("read at = %v, want %v", marked.ReadAt, readAt)
	}

	// Marking again must not move the original read timestamp.
	again, err := store.MarkNotificationRead(context.Background(), "partner-1", "notif-1", readAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("second mark read: %v", err)
	}
	if again.ReadAt == nil || !again.ReadAt.Equal(readAt) {
		t.Fatalf("read at moved to %v, want %v", again.ReadAt, readAt)
	}

	if _, err := store.MarkNotificationRead(context.Background(), "partner-1", "missing", readAt); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkAllAndCountUnread(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 4; i++ {
		if err := store.PutNotification(context.Background(), testRecord(fmt.Sprintf("notif-%d", i), now)); err != nil {
			t.Fatalf("put notification %d: %v", i, err)
		}
	}
	if _, err := store.MarkNotificationRead(context.Background(), "partner-1", "notif-0", now.Add(time.Second)); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := store.CountUnreadByRecipient(context.Background(), "partner-1")
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unread != 3 {
		t.Fatalf("unread = %d, want 3", unread)
	}

	changed, err := store.MarkAllNotificationsRead(context.Background(), "partner-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if changed != 3 {
		t.Fatalf("changed = %d, want 3", changed)
	}

	unread, err = store.CountUnreadByRecipient(context.Background(), "partner-1")
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unread != 0 {
		t.Fatalf("unread = %d, want 0", unread)
	}
}

func TestPutNotificationValidatesRecord(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	record := testRecord("", now)
	if err := store.PutNotification(context.Background(), record); err == nil {
		t.Fatal("expected error for blank id")
	}
	record = testRecord("notif-1", now)
	record.MessageType = "  "
	if err := store.PutNotification(context.Background(), record); err == nil {
		t.Fatal("expected error for blank message type")
	}
}
