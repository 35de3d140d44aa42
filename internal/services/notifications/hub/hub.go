// Package hub fans freshly created notifications out to live subscribers.
package hub

import (
	"strings"
	"sync"

	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
)

// Handler receives one inserted notification for a subscribed recipient.
type Handler func(domain.Notification)

// Hub routes notification inserts to per-recipient subscribers. Delivery is
// in-process and best effort: a recipient with no subscribers drops the event.
type Hub struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[string]map[int]Handler
}

// New constructs an empty hub.
func New() *Hub {
	return &Hub{
		subscribers: make(map[string]map[int]Handler),
	}
}

// Subscription is a handle for one live subscriber.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the subscriber. Cancel is idempotent.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Subscribe registers a handler for one recipient's inserts. The handler is
// invoked synchronously on the publishing goroutine and must not block.
func (h *Hub) Subscribe(recipientPartnerID string, handler Handler) *Subscription {
	recipientPartnerID = strings.TrimSpace(recipientPartnerID)
	if h == nil || recipientPartnerID == "" || handler == nil {
		return &Subscription{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	subscriberID := h.nextID
	if h.subscribers[recipientPartnerID] == nil {
		h.subscribers[recipientPartnerID] = make(map[int]Handler)
	}
	h.subscribers[recipientPartnerID][subscriberID] = handler

	return &Subscription{cancel: func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[recipientPartnerID], subscriberID)
		if len(h.subscribers[recipientPartnerID]) == 0 {
			delete(h.subscribers, recipientPartnerID)
		}
	}}
}

// Publish delivers one notification to the recipient's live subscribers.
func (h *Hub) Publish(notification domain.Notification) {
	if h == nil {
		return
	}
	recipientPartnerID := strings.TrimSpace(notification.RecipientPartnerID)
	if recipientPartnerID == "" {
		return
	}

	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subscribers[recipientPartnerID]))
	for _, handler := range h.subscribers[recipientPartnerID] {
		handlers = append(handlers, handler)
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(notification)
	}
}

// SubscriberCount reports how many live subscribers a recipient has.
func (h *Hub) SubscriberCount(recipientPartnerID string) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[strings.TrimSpace(recipientPartnerID)])
}
