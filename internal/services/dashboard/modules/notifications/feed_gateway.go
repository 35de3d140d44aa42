package notifications

import (
	"context"
	"errors"

	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
	"github.com/lumendist/partnerhub/internal/services/notifications/feed"
	"github.com/lumendist/partnerhub/internal/services/notifications/hub"
)

// feedSource adapts the inbox and live hub to the feed's event-source contract.
type feedSource struct {
	inbox Inbox
	hub   *hub.Hub
}

func (s feedSource) FetchRecent(ctx context.Context, partnerID string, limit int) ([]domain.Notification, error) {
	if s.inbox == nil {
		return nil, errors.New("inbox is not configured")
	}
	return s.inbox.ListRecent(ctx, partnerID, limit)
}

func (s feedSource) Subscribe(partnerID string, handler func(domain.Notification)) (feed.Subscription, error) {
	if s.hub == nil {
		return nil, errors.New("live hub is not configured")
	}
	return s.hub.Subscribe(partnerID, handler), nil
}

// feedReadMarker persists feed read acknowledgements through the inbox.
type feedReadMarker struct {
	inbox Inbox
}

func (m feedReadMarker) MarkRead(ctx context.Context, partnerID string, notificationID string) error {
	if m.inbox == nil {
		return errors.New("inbox is not configured")
	}
	_, err := m.inbox.MarkRead(ctx, partnerID, notificationID)
	if errors.Is(err, domain.ErrNotFound) {
		// The item aged out of persistence between render and click. The
		// optimistic local mark already happened; nothing to persist.
		return nil
	}
	return err
}
