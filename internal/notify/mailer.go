package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/smtp"
	"net/textproto"
	"strconv"

	"github.com/oxrse/surgery-booking-backend/internal/invite"
	"github.com/oxrse/surgery-booking-backend/internal/pkg/apperror"
)

const contentClass = "urn:content-classes:calendarmessage"

// Mailer relays a calendar invite to the requester.
type Mailer interface {
	SendInvite(ctx context.Context, inv invite.Invite, to, from string) error
}

// SMTPMailer submits mail over SMTP with STARTTLS and authentication, the way
// transactional providers like Mailjet accept it.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, Username: username, Password: password}
}

func (m *SMTPMailer) SendInvite(ctx context.Context, inv invite.Invite, to, from string) error {
	if err := m.send(ctx, inv, to, from); err != nil {
		return apperror.Wrap(err, http.StatusBadGateway, apperror.KindDispatchFailed, "failed to send confirmation email")
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, inv invite.Invite, to, from string) error {
	msg, err := buildMessage(inv, to, from)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial mail server: %w", err)
	}

	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open smtp session: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if m.Username != "" {
		auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from rejected: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to rejected: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data command failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return c.Quit()
}

// buildMessage assembles the MIME message: a plain-text body for humans plus
// the iCalendar attachment mail clients turn into an "add to calendar" prompt.
func buildMessage(inv invite.Invite, to, from string) ([]byte, error) {
	ics, err := inv.ICS()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	// Message headers go in first; the multipart writer appends after them.
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", inv.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Class: %s\r\n", contentClass)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	fmt.Fprintf(textPart, "%s\r\n", inv.Description)

	calHeader := textproto.MIMEHeader{}
	calHeader.Set("Content-Type", `text/calendar; method=REQUEST; name="invite.ics"`)
	calHeader.Set("Content-Transfer-Encoding", "base64")
	calHeader.Set("Content-Description", "invite.ics")
	calHeader.Set("Content-Class", contentClass)
	calHeader.Set("Content-Disposition", `attachment; filename="invite.ics"`)
	calPart, err := mw.CreatePart(calHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar part: %w", err)
	}
	fmt.Fprint(calPart, base64.StdEncoding.EncodeToString(ics))

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf.Bytes(), nil
}
