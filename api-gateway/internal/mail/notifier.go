package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"go.uber.org/zap"
)

// Invoice is what a paid checkout session turns into.
type Invoice struct {
	Number        string
	CustomerEmail string
	CustomerName  string
	ServiceName   string
	Amount        string
	Date          time.Time
	TransactionID string
}

// Notifier renders and sends the site's two mails: the admin notification
// for a new message and the customer invoice.
type Notifier struct {
	sender   Sender
	adminTo  string
	adminURL string
	logger   *zap.Logger

	// Timeout bounds each asynchronous send.
	Timeout time.Duration
}

func NewNotifier(sender Sender, adminTo, adminURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		adminTo:  adminTo,
		adminURL: adminURL,
		logger:   logger,
		Timeout:  30 * time.Second,
	}
}

func NotificationSubject(name string) string {
	return fmt.Sprintf("📬 Nouveau message de %s - Webly", name)
}

func InvoiceSubject(number string) string {
	return fmt.Sprintf("📋 Facture #%s - Webly", number)
}

func (n *Notifier) NotifyNewMessage(ctx context.Context, msg domain.Message) error {
	data := struct {
		Msg      domain.Message
		AdminURL string
	}{Msg: msg, AdminURL: n.adminURL}

	html, err := render(notificationHTMLTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}
	text, err := render(notificationTextTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	return n.sender.Send(ctx, Message{
		To:      n.adminTo,
		Subject: NotificationSubject(msg.Name),
		Text:    text,
		HTML:    html,
	})
}

func (n *Notifier) SendInvoice(ctx context.Context, inv Invoice) error {
	if inv.CustomerName == "" {
		inv.CustomerName, _, _ = strings.Cut(inv.CustomerEmail, "@")
	}
	data := struct {
		Invoice
		FormattedDate string
		Rule          string
	}{Invoice: inv, FormattedDate: FrenchDate(inv.Date), Rule: strings.Repeat("=", 50)}

	html, err := render(invoiceHTMLTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	text, err := render(invoiceTextTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}

	return n.sender.Send(ctx, Message{
		To:      inv.CustomerEmail,
		Subject: InvoiceSubject(inv.Number),
		Text:    text,
		HTML:    html,
	})
}

// NotifyAsync sends the notification on its own goroutine. Failures are
// logged only.
func (n *Notifier) NotifyAsync(msg domain.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
		defer cancel()
		if err := n.NotifyNewMessage(ctx, msg); err != nil {
			n.logger.Error("notification mail failed",
				zap.Int64("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}()
}
