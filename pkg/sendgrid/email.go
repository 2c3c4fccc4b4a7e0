package sendgrid

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

// Send delivers msg through the SendGrid v3 mail API.
func (e *emailService) Send(ctx context.Context, msg *models.EmailMessage) error {

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", msg.To))

	for _, cc := range msg.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}

	personalization.Subject = msg.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", msg.Content))
	if msg.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTMLContent))
	}

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

// GetSendGridClient provides access to the internal sendgrid.Client.
func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}
