package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"marina-backend/models"

	"github.com/shopspring/decimal"
)

// Notifier is the fire-and-forget notification collaborator. Failures are
// logged by implementations and must never roll back a state transition.
type Notifier interface {
	BookingConfirmed(booking *models.Booking)
	BookingCancelled(booking *models.Booking, refund decimal.Decimal)
	CodeIssued(email, code string, expiresAt time.Time)
}

// LogNotifier just logs. Default in development.
type LogNotifier struct{}

func (LogNotifier) BookingConfirmed(booking *models.Booking) {
	log.Printf("notify: booking %s confirmed for customer %d", booking.ReferenceCode, booking.CustomerID)
}

func (LogNotifier) BookingCancelled(booking *models.Booking, refund decimal.Decimal) {
	log.Printf("notify: booking %s cancelled, refund %s", booking.ReferenceCode, refund.StringFixed(2))
}

func (LogNotifier) CodeIssued(email, code string, expiresAt time.Time) {
	log.Printf("notify: verification code issued to %s, expires %s", email, expiresAt.Format(time.RFC3339))
}

// SMTPNotifier emails customers through a plain SMTP relay, configured via
// SMTP_HOST / SMTP_PORT / SMTP_USER / SMTP_PASS / SMTP_FROM.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewSMTPNotifierFromEnv() *SMTPNotifier {
	return &SMTPNotifier{
		Host: os.Getenv("SMTP_HOST"),
		Port: envDefault("SMTP_PORT", "587"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: envDefault("SMTP_FROM", "no-reply@marina.local"),
	}
}

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (n *SMTPNotifier) send(to, subject, body string) {
	if n.Host == "" || to == "" {
		return
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", n.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if n.User != "" {
		auth = smtp.PlainAuth("", n.User, n.Pass, n.Host)
	}

	if err := smtp.SendMail(n.Host+":"+n.Port, auth, n.From, []string{to}, []byte(msg)); err != nil {
		log.Printf("warning: failed to send %q to %s: %v", subject, to, err)
	}
}

func (n *SMTPNotifier) BookingConfirmed(booking *models.Booking) {
	body := fmt.Sprintf(
		"Your slip booking %s is confirmed.\n\nCheck-in: %s\nCheck-out: %s\nTotal: %s\n",
		booking.ReferenceCode,
		booking.CheckIn.Format("2006-01-02"),
		booking.CheckOut.Format("2006-01-02"),
		booking.Total.StringFixed(2),
	)
	n.send(booking.Customer.Email, "Booking confirmed", body)
}

func (n *SMTPNotifier) BookingCancelled(booking *models.Booking, refund decimal.Decimal) {
	body := fmt.Sprintf(
		"Your slip booking %s has been cancelled.\nRefund amount: %s\n",
		booking.ReferenceCode,
		refund.StringFixed(2),
	)
	n.send(booking.Customer.Email, "Booking cancelled", body)
}

func (n *SMTPNotifier) CodeIssued(email, code string, expiresAt time.Time) {
	body := fmt.Sprintf(
		"Your verification code is %s.\nIt expires at %s.\n",
		code,
		expiresAt.Format(time.RFC1123),
	)
	n.send(email, "Your verification code", body)
}
