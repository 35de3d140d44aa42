// Package render localizes stored notification artifacts into display copy.
package render

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lumendist/partnerhub/internal/services/notifications/domain"
)

const (
	defaultGenericTitle = "Notification"
	defaultGenericBody  = "You have a new notification."
)

// Input is one render request for a stored notification artifact.
type Input struct {
	MessageType string
	PayloadJSON string
}

// Output is localized copy derived from one notification artifact.
type Output struct {
	Title    string
	BodyText string
}

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// PrinterFor resolves a locale token to a message printer. Unknown locales
// fall back to English.
func PrinterFor(locale string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

type orderPayload struct {
	OrderID string `json:"order_id"`
}

type stockPayload struct {
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
}

type tierPayload struct {
	Tier string `json:"tier"`
}

type paymentPayload struct {
	InvoiceID string `json:"invoice_id"`
}

// Render returns localized copy for one notification artifact. Unrecognized
// message types and malformed payloads fall back to generic copy.
func Render(loc Localizer, input Input) Output {
	switch domain.NormalizeMessageType(input.MessageType) {
	case domain.MessageTypeOrderCreated:
		return renderOrder(loc, input, "notification.order_created")
	case domain.MessageTypeOrderShipped:
		return renderOrder(loc, input, "notification.order_shipped")
	case domain.MessageTypeStockLow:
		return renderStock(loc, input, "notification.stock_low")
	case domain.MessageTypeStockReplenished:
		return renderStock(loc, input, "notification.stock_replenished")
	case domain.MessageTypePartnerTierChanged:
		return renderTierChanged(loc, input)
	case domain.MessageTypePaymentReceived:
		return renderPayment(loc, input, "notification.payment_received")
	case domain.MessageTypePaymentOverdue:
		return renderPayment(loc, input, "notification.payment_overdue")
	default:
		return genericOutput(loc)
	}
}

func renderOrder(loc Localizer, input Input, prefix string) Output {
	payload := orderPayload{}
	if !decodePayload(input.PayloadJSON, &payload) {
		return genericOutput(loc)
	}
	return keyedOutput(loc, prefix, payload.OrderID)
}

func renderStock(loc Localizer, input Input, prefix string) Output {
	payload := stockPayload{}
	if !decodePayload(input.PayloadJSON, &payload) {
		return genericOutput(loc)
	}
	product := strings.TrimSpace(payload.ProductName)
	if product == "" {
		product = strings.TrimSpace(payload.SKU)
	}
	return keyedOutput(loc, prefix, product)
}

func renderTierChanged(loc Localizer, input Input) Output {
	payload := tierPayload{}
	if !decodePayload(input.PayloadJSON, &payload) {
		return genericOutput(loc)
	}
	return keyedOutput(loc, "notification.partner_tier_changed", payload.Tier)
}

func renderPayment(loc Localizer, input Input, prefix string) Output {
	payload := paymentPayload{}
	if !decodePayload(input.PayloadJSON, &payload) {
		return genericOutput(loc)
	}
	return keyedOutput(loc, prefix, payload.InvoiceID)
}

func keyedOutput(loc Localizer, prefix string, arg string) Output {
	titleKey := prefix + ".title"
	bodyKey := prefix + ".body"
	title := localize(loc, titleKey)
	body := localize(loc, bodyKey, strings.TrimSpace(arg))
	if title == titleKey || body == bodyKey {
		return genericOutput(loc)
	}
	return Output{Title: title, BodyText: body}
}

func genericOutput(loc Localizer) Output {
	return Output{
		Title:    localizeWithFallback(loc, "notification.generic.title", defaultGenericTitle),
		BodyText: localizeWithFallback(loc, "notification.generic.body", defaultGenericBody),
	}
}

func decodePayload(raw string, target any) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	return json.Unmarshal([]byte(raw), target) == nil
}

func localize(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		if asString, ok := key.(string); ok {
			return asString
		}
		return ""
	}
	return loc.Sprintf(key, args...)
}

func localizeWithFallback(loc Localizer, key string, fallback string) string {
	value := strings.TrimSpace(localize(loc, key))
	if value == "" || value == key {
		return fallback
	}
	return value
}
