// Package routepath stores canonical HTTP paths for dashboard modules.
package routepath

const (
	Health = "/up"

	AccessPrefix       = "/api/access/"
	AccessCheckPattern = AccessPrefix + "{contentKey}"

	Notifications           = "/api/notifications"
	NotificationsUnread     = "/api/notifications/unread"
	NotificationsReadAll    = "/api/notifications/read-all"
	NotificationReadPattern = "/api/notifications/{notificationID}/read"
	NotificationsStream     = "/api/notifications/ws"
)
