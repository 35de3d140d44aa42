// Package feed maintains a bounded live window over a partner's newest
// notifications for the dashboard bell.
package feed

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumendist/partnerhub/internal/platform/timeouts"
	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
)

const defaultCapacity = 10

var (
	// ErrSourceNotConfigured indicates the feed is missing its event source.
	ErrSourceNotConfigured = errors.New("feed event source is not configured")
	// ErrPartnerIDRequired indicates the feed needs a partner identity.
	ErrPartnerIDRequired = errors.New("partner id is required")
	// ErrNotificationIDRequired indicates a notification id is required.
	ErrNotificationIDRequired = errors.New("notification id is required")
)

// State is one lifecycle phase of a feed.
type State string

const (
	// StateUninitialized is the phase before Start.
	StateUninitialized State = "uninitialized"
	// StateLoading is the phase while the initial fetch is in flight.
	StateLoading State = "loading"
	// StateReady is the live phase with the subscription active.
	StateReady State = "ready"
	// StateClosed is the terminal phase after Stop.
	StateClosed State = "closed"
)

// Subscription is a cancelable live-event registration.
type Subscription interface {
	Cancel()
}

// EventSource supplies the feed's initial window and its live inserts.
type EventSource interface {
	FetchRecent(ctx context.Context, partnerID string, limit int) ([]domain.Notification, error)
	Subscribe(partnerID string, handler func(domain.Notification)) (Subscription, error)
}

// ReadMarker persists read acknowledgements behind the feed's optimistic state.
type ReadMarker interface {
	MarkRead(ctx context.Context, partnerID string, notificationID string) error
}

// Snapshot is one consistent view of the feed window.
type Snapshot struct {
	State         State
	Notifications []domain.Notification
	UnreadCount   int
}

// Config tunes one feed instance.
type Config struct {
	PartnerID string
	// Capacity bounds the window size. Zero means the default of 10.
	Capacity int
	// OnChange, when set, receives a snapshot after every window change.
	// It is invoked outside the feed lock but never concurrently with itself
	// for a single mutation path.
	OnChange func(Snapshot)
	Logger   zerolog.Logger
	Clock    func() time.Time
}

// Feed holds a bounded, newest-first window of one partner's notifications.
// All methods are safe for concurrent use.
type Feed struct {
	source    EventSource
	marker    ReadMarker
	partnerID string
	capacity  int
	onChange  func(Snapshot)
	logger    zerolog.Logger
	clock     func() time.Time

	mu     sync.Mutex
	state  State
	window []domain.Notification
	unread int
	sub    Subscription
}

// New constructs a feed in the uninitialized state.
func New(source EventSource, marker ReadMarker, cfg Config) (*Feed, error) {
	if source == nil {
		return nil, ErrSourceNotConfigured
	}
	partnerID := strings.TrimSpace(cfg.PartnerID)
	if partnerID == "" {
		return nil, ErrPartnerIDRequired
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Feed{
		source:    source,
		marker:    marker,
		partnerID: partnerID,
		capacity:  capacity,
		onChange:  cfg.OnChange,
		logger:    cfg.Logger.With().Str("component", "notification_feed").Str("partner_id", partnerID).Logger(),
		clock:     clock,
		state:     StateUninitialized,
	}, nil
}

// Start loads the initial window and activates the live subscription. Calling
// Start on a feed that already started, or on a closed feed, is a no-op.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateUninitialized {
		f.mu.Unlock()
		return nil
	}
	f.state = StateLoading
	f.mu.Unlock()

	// Subscribe before fetching so inserts racing the fetch are merged into
	// the window instead of lost.
	sub, err := f.source.Subscribe(f.partnerID, f.handleInsert)
	if err != nil {
		f.logger.Warn().Err(err).Msg("live subscription unavailable, feed will not receive inserts")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeouts.FeedFetch)
	defer cancel()
	fetched, fetchErr := f.source.FetchRecent(fetchCtx, f.partnerID, f.capacity)
	if fetchErr != nil {
		f.logger.Warn().Err(fetchErr).Msg("initial feed fetch failed, starting with an empty window")
	}

	f.mu.Lock()
	if f.state == StateClosed {
		// Stopped while the fetch was in flight. Discard the result.
		f.mu.Unlock()
		if sub != nil {
			sub.Cancel()
		}
		return nil
	}
	f.sub = sub
	for _, item := range fetched {
		f.insertLocked(item)
	}
	f.sortAndTruncateLocked()
	f.state = StateReady
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snapshot)
	if fetchErr != nil {
		return fetchErr
	}
	return nil
}

// MarkRead flips one window item to read and persists the acknowledgement.
// The local flip survives a persistence failure. IDs no longer in the window
// skip the local flip but still get the persistence attempt, since the row
// may have been evicted from the window yet exist in storage.
func (f *Feed) MarkRead(ctx context.Context, notificationID string) error {
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return ErrNotificationIDRequired
	}

	f.mu.Lock()
	if f.state == StateClosed || f.state == StateUninitialized {
		f.mu.Unlock()
		return nil
	}
	changed := false
	if index := f.indexOfLocked(notificationID); index >= 0 && f.window[index].ReadAt == nil {
		readAt := f.clock().UTC()
		f.window[index].ReadAt = &readAt
		f.recomputeUnreadLocked()
		changed = true
	}
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if changed {
		f.notify(snapshot)
	}
	if f.marker == nil {
		return nil
	}

	markCtx, cancel := context.WithTimeout(ctx, timeouts.MarkRead)
	defer cancel()
	if err := f.marker.MarkRead(markCtx, f.partnerID, notificationID); err != nil {
		f.logger.Warn().Err(err).Str("notification_id", notificationID).Msg("read acknowledgement not persisted, keeping local state")
		return err
	}
	return nil
}

// Stop cancels the live subscription and closes the feed. Stop is idempotent
// and the closed state is terminal.
func (f *Feed) Stop() {
	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return
	}
	f.state = StateClosed
	sub := f.sub
	f.sub = nil
	f.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

// Snapshot returns a copy of the current window state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// State reports the feed's lifecycle phase.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// UnreadCount reports how many window items are unread.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

func (f *Feed) handleInsert(notification domain.Notification) {
	f.mu.Lock()
	if f.state == StateClosed || f.state == StateUninitialized {
		f.mu.Unlock()
		return
	}
	if f.indexOfLocked(notification.ID) >= 0 {
		f.mu.Unlock()
		return
	}
	f.insertLocked(notification)
	f.sortAndTruncateLocked()
	ready := f.state == StateReady
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if ready {
		f.notify(snapshot)
	}
}

func (f *Feed) insertLocked(notification domain.Notification) {
	if strings.TrimSpace(notification.ID) == "" {
		return
	}
	if f.indexOfLocked(notification.ID) >= 0 {
		return
	}
	f.window = append(f.window, notification)
}

// sortAndTruncateLocked restores the newest-first invariant: sort by creation
// time descending with id as the tie break, drop overflow past capacity, and
// recompute the unread count from what remains.
func (f *Feed) sortAndTruncateLocked() {
	sort.SliceStable(f.window, func(i, j int) bool {
		if !f.window[i].CreatedAt.Equal(f.window[j].CreatedAt) {
			return f.window[i].CreatedAt.After(f.window[j].CreatedAt)
		}
		return f.window[i].ID > f.window[j].ID
	})
	if len(f.window) > f.capacity {
		f.window = f.window[:f.capacity]
	}
	f.recomputeUnreadLocked()
}

func (f *Feed) recomputeUnreadLocked() {
	count := 0
	for _, item := range f.window {
		if item.ReadAt == nil {
			count++
		}
	}
	f.unread = count
}

func (f *Feed) indexOfLocked(notificationID string) int {
	for i, item := range f.window {
		if item.ID == notificationID {
			return i
		}
	}
	return -1
}

func (f *Feed) snapshotLocked() Snapshot {
	items := make([]domain.Notification, len(f.window))
	copy(items, f.window)
	return Snapshot{
		State:         f.state,
		Notifications: items,
		UnreadCount:   f.unread,
	}
}

func (f *Feed) notify(snapshot Snapshot) {
	if f.onChange == nil {
		return
	}
	f.onChange(snapshot)
}
