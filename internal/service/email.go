package service

import (
	"fmt"
	"net/smtp"

	"github.com/kovazenko1977/sanatory/internal/models"
)

type EmailService struct {
	from          string
	password      string
	host          string
	port          string
	testEmailOnly string // If set, all emails go to this address (for testing)
}

// NewEmailService creates a new email service using SMTP
func NewEmailService(smtpHost, smtpPort, username, password, fromEmail, testEmailOnly string) (*EmailService, error) {
	if smtpHost == "" || username == "" || password == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete")
	}

	return &EmailService{
		from:          fromEmail,
		password:      password,
		host:          smtpHost,
		port:          smtpPort,
		testEmailOnly: testEmailOnly,
	}, nil
}

// NotifyBookingCreated sends the booking confirmation to the guest. Guests
// without an email address are skipped.
func (s *EmailService) NotifyBookingCreated(booking *models.Booking, guest *models.Guest, room *models.RoomInstance) error {
	if guest == nil || guest.Email == "" {
		return nil
	}

	// Override recipient for testing if TEST_EMAIL_ONLY is set
	actualRecipient := guest.Email
	if s.testEmailOnly != "" {
		actualRecipient = s.testEmailOnly
	}

	roomNumber := "—"
	if room != nil {
		roomNumber = room.RoomNumber
	}

	subject := fmt.Sprintf("Booking confirmation #%d", booking.ID)
	body := fmt.Sprintf(`Hello %s,

Your booking has been registered.

Booking number: %d
Room: %s
Check-in: %s
Check-out: %s
Total: %.2f

We look forward to your stay.
`, guest.FirstName, booking.ID, roomNumber, booking.CheckIn, booking.CheckOut, booking.TotalPrice)

	if s.testEmailOnly != "" && guest.Email != actualRecipient {
		body += fmt.Sprintf("\n[TEST MODE] Original recipient: %s\n", guest.Email)
	}

	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", s.from, actualRecipient, subject, body)

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	addr := s.host + ":" + s.port

	if err := smtp.SendMail(addr, auth, s.from, []string{actualRecipient}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", actualRecipient, err)
	}

	return nil
}
