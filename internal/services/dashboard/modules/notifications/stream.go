package notifications

import (
	"strings"

	"golang.org/x/net/websocket"

	"github.com/lumendist/partnerhub/internal/platform/requestctx"
	"github.com/lumendist/partnerhub/internal/services/notifications/feed"
	"github.com/lumendist/partnerhub/internal/services/notifications/render"
)

const streamUpdateBuffer = 8

type streamPayload struct {
	State         string             `json:"state"`
	UnreadCount   int                `json:"unread_count"`
	Notifications []notificationView `json:"notifications"`
}

type streamCommand struct {
	Action         string `json:"action"`
	NotificationID string `json:"notification_id"`
}

// handleStream serves one live bell connection. Each connection owns its own
// feed: the window loads on connect, live inserts push fresh snapshots, and
// closing the socket tears the feed down.
func (h handlers) handleStream(ws *websocket.Conn) {
	defer ws.Close()
	if h.inbox == nil {
		return
	}

	request := ws.Request()
	partnerID := requestctx.PartnerIDFromContext(request.Context())
	loc := requestLocalizer(request)

	updates := make(chan feed.Snapshot, streamUpdateBuffer)
	bell, err := feed.New(
		feedSource{inbox: h.inbox, hub: h.hub},
		feedReadMarker{inbox: h.inbox},
		feed.Config{
			PartnerID: partnerID,
			Logger:    h.logger,
			OnChange: func(snapshot feed.Snapshot) {
				select {
				case updates <- snapshot:
				default:
					// A slow socket drops intermediate snapshots; the next
					// one carries the full window anyway.
				}
			},
		},
	)
	if err != nil {
		h.logger.Warn().Err(err).Msg("bell feed rejected connection")
		return
	}
	defer bell.Stop()

	if err := bell.Start(request.Context()); err != nil {
		h.logger.Warn().Err(err).Str("partner_id", partnerID).Msg("bell feed started degraded")
	}

	// Start already queued the ready snapshot, so the writer's first send is
	// the initial window.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case snapshot := <-updates:
				if err := websocket.JSON.Send(ws, toStreamPayload(loc, snapshot)); err != nil {
					return
				}
			}
		}
	}()

	for {
		var command streamCommand
		if err := websocket.JSON.Receive(ws, &command); err != nil {
			return
		}
		switch strings.TrimSpace(command.Action) {
		case "mark_read":
			if err := bell.MarkRead(request.Context(), command.NotificationID); err != nil {
				h.logger.Warn().Err(err).Msg("bell mark-read failed")
			}
		default:
			// Unknown commands are ignored so older clients keep working.
		}
	}
}

func toStreamPayload(loc render.Localizer, snapshot feed.Snapshot) streamPayload {
	return streamPayload{
		State:         string(snapshot.State),
		UnreadCount:   snapshot.UnreadCount,
		Notifications: toViews(loc, snapshot.Notifications),
	}
}
