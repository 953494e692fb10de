package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/grasdvirus/prime-panier/internal/domain/contact"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/trade"
	"go.uber.org/zap"
)

// MailHandler emails the shop administrator when an order is placed or a
// contact message arrives. Delivery failures are logged and swallowed so the
// storefront request that raised the event is never affected.
type MailHandler struct {
	mailer   Mailer
	to       string
	currency string
	logger   *zap.Logger
}

// NewMailHandler creates a new MailHandler
func NewMailHandler(mailer Mailer, adminEmail, currency string, logger *zap.Logger) *MailHandler {
	return &MailHandler{
		mailer:   mailer,
		to:       adminEmail,
		currency: currency,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *MailHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, contact.EventTypeMessageReceived}
}

// Handle sends the notification matching the event
func (h *MailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.to == "" {
		h.logger.Debug("Admin email not configured, skipping notification",
			zap.String("event_type", event.EventType()))
		return nil
	}

	var email Email
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		email = h.orderEmail(e)
	case *contact.MessageReceivedEvent:
		email = h.messageEmail(e)
	default:
		return nil
	}
	email.To = h.to

	if err := h.mailer.Send(ctx, email); err != nil {
		h.logger.Error("Failed to send admin notification",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID()),
			zap.Error(err))
		return nil
	}

	h.logger.Info("Admin notification sent",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID()))
	return nil
}

func (h *MailHandler) orderEmail(e *trade.OrderPlacedEvent) Email {
	total := fmt.Sprintf("%s %s", formatAmount(e.Total), h.currency)
	text := fmt.Sprintf(
		"Nouvelle commande %s\n\nClient : %s\nTéléphone : %s\nAdresse : %s\nArticles : %d\nTotal : %s\n",
		e.OrderID, e.CustomerName, e.Phone, e.Address, e.ItemCount, total)

	var b strings.Builder
	b.WriteString("<h2>Nouvelle commande</h2><ul>")
	fmt.Fprintf(&b, "<li><strong>Commande :</strong> %s</li>", html.EscapeString(e.OrderID))
	fmt.Fprintf(&b, "<li><strong>Client :</strong> %s</li>", html.EscapeString(e.CustomerName))
	fmt.Fprintf(&b, "<li><strong>Téléphone :</strong> %s</li>", html.EscapeString(e.Phone))
	fmt.Fprintf(&b, "<li><strong>Adresse :</strong> %s</li>", html.EscapeString(e.Address))
	fmt.Fprintf(&b, "<li><strong>Articles :</strong> %d</li>", e.ItemCount)
	fmt.Fprintf(&b, "<li><strong>Total :</strong> %s</li>", html.EscapeString(total))
	b.WriteString("</ul>")

	return Email{
		Subject: fmt.Sprintf("Nouvelle commande de %s", e.CustomerName),
		Text:    text,
		HTML:    b.String(),
	}
}

func (h *MailHandler) messageEmail(e *contact.MessageReceivedEvent) Email {
	text := fmt.Sprintf("Nouveau message de %s <%s>\n\n%s\n", e.Name, e.Email, e.Excerpt)
	body := fmt.Sprintf(
		"<h2>Nouveau message</h2><p><strong>%s</strong> &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(e.Name), html.EscapeString(e.Email), html.EscapeString(e.Excerpt))

	return Email{
		Subject: fmt.Sprintf("Nouveau message de %s", e.Name),
		Text:    text,
		HTML:    body,
		ReplyTo: e.Email,
	}
}

// formatAmount prints whole amounts without decimals
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
