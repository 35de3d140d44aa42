package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, "notification.generic.title", "Notificação")
	message.SetString(lang, "notification.generic.body", "Você tem uma nova notificação.")
	message.SetString(lang, "notification.order_created.title", "Novo pedido registrado")
	message.SetString(lang, "notification.order_created.body", "O pedido %s foi registrado na sua conta.")
	message.SetString(lang, "notification.order_shipped.title", "Pedido enviado")
	message.SetString(lang, "notification.order_shipped.body", "O pedido %s saiu do depósito.")
	message.SetString(lang, "notification.stock_low.title", "Alerta de estoque baixo")
	message.SetString(lang, "notification.stock_low.body", "%s está acabando. Reponha em breve para evitar faltas.")
	message.SetString(lang, "notification.stock_replenished.title", "Estoque reposto")
	message.SetString(lang, "notification.stock_replenished.body", "%s voltou ao estoque.")
	message.SetString(lang, "notification.partner_tier_changed.title", "Nível de parceiro atualizado")
	message.SetString(lang, "notification.partner_tier_changed.body", "Seu nível de parceiro agora é %s.")
	message.SetString(lang, "notification.payment_received.title", "Pagamento recebido")
	message.SetString(lang, "notification.payment_received.body", "O pagamento da fatura %s foi recebido.")
	message.SetString(lang, "notification.payment_overdue.title", "Pagamento em atraso")
	message.SetString(lang, "notification.payment_overdue.body", "A fatura %s está vencida.")
}
