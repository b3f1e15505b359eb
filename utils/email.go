package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

// EmailService sends order notifications using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
	inbox  string
}

// NewEmailService returns nil when no Postmark token is configured, which
// disables order notifications.
func NewEmailService(apiToken, sender, inbox string) *EmailService {
	if apiToken == "" || inbox == "" {
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
		inbox:  inbox,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	zap.S().Infow("Email sent successfully", "to", toEmail, "subject", subject)
	return nil
}

// OrderPlaced mails the order confirmation to the operations inbox
func (es *EmailService) OrderPlaced(_ context.Context, order models.Order) error {
	subject := fmt.Sprintf("Order Confirmation - %s", order.OrderNumber)
	return es.SendEmail(es.inbox, subject, OrderConfirmationHTML(order), OrderConfirmationText(order))
}

// OrderConfirmationText renders the plain text body of a confirmation
func OrderConfirmationText(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s placed %s\n\n", order.OrderNumber, order.OrderDate.Format("2006-01-02 15:04 MST"))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s (%s) $%.2f\n", item.Quantity, item.Product.Name, item.Product.PrimaryColor(), item.LineTotal())
	}
	fmt.Fprintf(&b, "\nItems: %d\nTotal: $%.2f\n", order.ItemCount(), order.Total)
	fmt.Fprintf(&b, "Shipping to: %s\n%s\n%s\n", order.ShippingInfo.FullName(), order.ShippingInfo.Street, order.ShippingInfo.CityLine())
	return b.String()
}

// OrderConfirmationHTML renders the HTML body of a confirmation
func OrderConfirmationHTML(order models.Order) string {
	s := order.ShippingInfo
	return fmt.Sprintf(
		"<strong>Order %s</strong><br><br>Items: <strong>%d</strong><br>Total: <strong>$%.2f</strong><br><br>Shipping to: %s<br>%s<br>%s<br><br>Estimated Delivery: 3-5 business days",
		html.EscapeString(order.OrderNumber),
		order.ItemCount(),
		order.Total,
		html.EscapeString(s.FullName()),
		html.EscapeString(s.Street),
		html.EscapeString(s.CityLine()),
	)
}
