package domain

import "strings"

const (
	// MessageTypeOrderCreated announces a new order placed for the partner.
	MessageTypeOrderCreated = "order.created"
	// MessageTypeOrderShipped announces an order leaving the warehouse.
	MessageTypeOrderShipped = "order.shipped"
	// MessageTypeStockLow warns about low stock on a product the partner carries.
	MessageTypeStockLow = "stock.low"
	// MessageTypeStockReplenished announces restocked inventory.
	MessageTypeStockReplenished = "stock.replenished"
	// MessageTypePartnerTierChanged announces a partner tier change.
	MessageTypePartnerTierChanged = "partner.tier_changed"
	// MessageTypePaymentReceived confirms a settled payment.
	MessageTypePaymentReceived = "payment.received"
	// MessageTypePaymentOverdue flags an overdue invoice.
	MessageTypePaymentOverdue = "payment.overdue"
)

// Category buckets message types for the dashboard bell filter.
type Category string

const (
	// CategoryOrder groups order lifecycle notifications.
	CategoryOrder Category = "order"
	// CategoryStock groups inventory notifications.
	CategoryStock Category = "stock"
	// CategoryPartner groups partner account notifications.
	CategoryPartner Category = "partner"
	// CategoryPayment groups billing notifications.
	CategoryPayment Category = "payment"
	// CategoryGeneral is the fallback for unrecognized message types.
	CategoryGeneral Category = "general"
)

// NormalizeMessageType normalizes a producer-provided message type token.
func NormalizeMessageType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CategoryOf derives the dashboard category from a message type namespace.
func CategoryOf(messageType string) Category {
	namespace, _, _ := strings.Cut(NormalizeMessageType(messageType), ".")
	switch namespace {
	case "order":
		return CategoryOrder
	case "stock":
		return CategoryStock
	case "partner":
		return CategoryPartner
	case "payment":
		return CategoryPayment
	default:
		return CategoryGeneral
	}
}
