package notifications

import (
	"net/http"
	"strings"

	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
	"github.com/lumendist/partnerhub/internal/services/notifications/render"
)

type notificationView struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	MessageType string `json:"message_type"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Link        string `json:"link,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	Read        bool   `json:"read"`
}

func toView(loc render.Localizer, notification domain.Notification) notificationView {
	rendered := render.Render(loc, render.Input{
		MessageType: notification.MessageType,
		PayloadJSON: notification.PayloadJSON,
	})
	return notificationView{
		ID:          notification.ID,
		Category:    string(domain.CategoryOf(notification.MessageType)),
		MessageType: notification.MessageType,
		Title:       rendered.Title,
		Body:        rendered.BodyText,
		Link:        notification.Link,
		CreatedAt:   notification.CreatedAt.UTC().UnixMilli(),
		Read:        notification.Read(),
	}
}

func toViews(loc render.Localizer, notifications []domain.Notification) []notificationView {
	views := make([]notificationView, 0, len(notifications))
	for _, notification := range notifications {
		views = append(views, toView(loc, notification))
	}
	return views
}

// requestLocalizer resolves the request language from the Accept-Language
// header. Only the first language token is consulted.
func requestLocalizer(r *http.Request) render.Localizer {
	if r == nil {
		return render.PrinterFor("")
	}
	header := r.Header.Get("Accept-Language")
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return render.PrinterFor(first)
}
