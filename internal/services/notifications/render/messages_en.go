package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "notification.generic.title", defaultGenericTitle)
	message.SetString(lang, "notification.generic.body", defaultGenericBody)
	message.SetString(lang, "notification.order_created.title", "New order placed")
	message.SetString(lang, "notification.order_created.body", "Order %s was placed on your account.")
	message.SetString(lang, "notification.order_shipped.title", "Order shipped")
	message.SetString(lang, "notification.order_shipped.body", "Order %s has left the warehouse.")
	message.SetString(lang, "notification.stock_low.title", "Low stock warning")
	message.SetString(lang, "notification.stock_low.body", "%s is running low. Reorder soon to avoid gaps.")
	message.SetString(lang, "notification.stock_replenished.title", "Stock replenished")
	message.SetString(lang, "notification.stock_replenished.body", "%s is back in stock.")
	message.SetString(lang, "notification.partner_tier_changed.title", "Partner tier updated")
	message.SetString(lang, "notification.partner_tier_changed.body", "Your partner tier is now %s.")
	message.SetString(lang, "notification.payment_received.title", "Payment received")
	message.SetString(lang, "notification.payment_received.body", "Payment for invoice %s was received.")
	message.SetString(lang, "notification.payment_overdue.title", "Payment overdue")
	message.SetString(lang, "notification.payment_overdue.body", "Invoice %s is past due.")
}
