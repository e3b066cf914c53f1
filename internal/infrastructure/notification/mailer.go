package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"alquilar.backend/internal/config"
	"alquilar.backend/internal/domain/entities"
)

// Mailer delivers transactional email through the external email service.
// Callers treat delivery as best effort; a failed send never fails the
// operation that triggered it.
type Mailer struct {
	baseURL string
	apiKey  string
	sender  string
	http    *http.Client
}

// NewMailer creates a mailer from configuration
func NewMailer(cfg config.NotificationConfig) *Mailer {
	return &Mailer{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type emailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send delivers a single email
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(emailPayload{
		From:    m.sender,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("email service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}
	return nil
}

// BookingConfirmation composes the confirmation email for a paid booking
func BookingConfirmation(user *entities.User, booking *entities.Booking) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed: %s", booking.BookingReference)

	vehicle := "your vehicle"
	if booking.Car != nil {
		vehicle = fmt.Sprintf("%s %s", booking.Car.Make, booking.Car.Model)
	}

	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your booking %s is confirmed.\n\n"+
			"Vehicle: %s\n"+
			"Pick-up: %s\n"+
			"Return: %s\n"+
			"Total charged: %s USD\n\n"+
			"We look forward to seeing you.\n",
		user.Name,
		booking.BookingReference,
		vehicle,
		booking.StartDate.Format("Monday, 2 January 2006 15:04"),
		booking.EndDate.Format("Monday, 2 January 2006 15:04"),
		booking.TotalAmount.StringFixed(2),
	)
	return subject, body
}

// BookingCancellation composes the cancellation notice, including the refund
// line only when funds were actually returned
func BookingCancellation(user *entities.User, booking *entities.Booking, refunded bool) (subject, body string) {
	subject = fmt.Sprintf("Booking cancelled: %s", booking.BookingReference)

	body = fmt.Sprintf("Dear %s,\n\nYour booking %s has been cancelled.\n",
		user.Name, booking.BookingReference)
	if refunded {
		body += fmt.Sprintf("A refund of %s USD has been issued to your original payment method.\n",
			booking.TotalAmount.StringFixed(2))
	}
	return subject, body
}
