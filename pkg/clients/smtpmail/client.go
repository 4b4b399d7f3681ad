package smtpmail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/callmint/backend/pkg/config"
	apperrors "github.com/callmint/backend/pkg/errors"
)

// Message is one outbound email. An empty To falls back to the configured
// operator address, mirroring how notification recipients are defaulted.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

// Client defines the interface for the SMTP delivery gateway
type Client interface {
	// Verify establishes and checks the transport connection without
	// sending anything. A failure means the service should report the
	// email subsystem as unavailable rather than attempt a send.
	Verify() error

	// Send makes exactly one delivery attempt and returns the generated
	// transport message id. No retries are performed here; retry policy,
	// if any, belongs to the caller.
	Send(msg Message) (string, error)
}

type clientImpl struct {
	cfg *config.EmailConfig
}

// NewClient creates a new SMTP delivery client
func NewClient(cfg *config.EmailConfig) Client {
	return &clientImpl{cfg: cfg}
}

// checkConfig fails closed when transport credentials are missing.
func (c *clientImpl) checkConfig() *apperrors.DeliveryError {
	if c.cfg.Host == "" || c.cfg.Username == "" || c.cfg.Password == "" {
		return apperrors.NewDelivery(apperrors.CodeConfig, "email transport is not configured", nil)
	}
	return nil
}

func (c *clientImpl) Verify() error {
	if cfgErr := c.checkConfig(); cfgErr != nil {
		return cfgErr
	}

	cl, err := c.connect()
	if err != nil {
		log.Printf("[EMAIL] Transport verification failed: %v", err)
		return apperrors.NewDelivery(apperrors.CodeUnavailable, "email transport verification failed", err)
	}
	if err := cl.Quit(); err != nil {
		cl.Close()
	}
	return nil
}

func (c *clientImpl) Send(msg Message) (string, error) {
	if cfgErr := c.checkConfig(); cfgErr != nil {
		return "", cfgErr
	}

	to := msg.To
	if to == "" {
		to = c.cfg.ContactEmail
	}

	cl, err := c.connect()
	if err != nil {
		return "", classify(err)
	}
	defer cl.Close()

	if err := cl.Mail(c.cfg.FromEmail); err != nil {
		return "", classify(err)
	}
	if err := cl.Rcpt(to); err != nil {
		return "", classify(err)
	}

	w, err := cl.Data()
	if err != nil {
		return "", classify(err)
	}

	messageID := c.newMessageID()
	if _, err := w.Write(c.buildMIME(msg, to, messageID)); err != nil {
		w.Close()
		return "", classify(err)
	}
	if err := w.Close(); err != nil {
		return "", classify(err)
	}

	if err := cl.Quit(); err != nil {
		// The message was already accepted; a noisy QUIT is not a failure.
		log.Printf("[EMAIL] QUIT after accepted message failed: %v", err)
	}

	log.Printf("[EMAIL] Message sent: id=%s", messageID)
	return messageID, nil
}

// connect dials the server, upgrades to TLS where possible and
// authenticates. The entire exchange is bounded by the configured timeout.
func (c *clientImpl) connect() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	dialer := &net.Dialer{Timeout: c.cfg.Timeout}

	var conn net.Conn
	var err error
	if c.cfg.Secure {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: c.cfg.Host})
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	if c.cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	}

	cl, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if !c.cfg.Secure {
		if ok, _ := cl.Extension("STARTTLS"); ok {
			if err := cl.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
				cl.Close()
				return nil, err
			}
		}
	}

	if ok, _ := cl.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := cl.Auth(auth); err != nil {
			cl.Close()
			return nil, err
		}
	}

	return cl, nil
}

// buildMIME renders the multipart/alternative wire message
func (c *clientImpl) buildMIME(msg Message, to, messageID string) []byte {
	from := c.cfg.FromEmail
	if c.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail)
	}

	boundary := "----=_Part_" + uuid.NewString()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	if msg.ReplyTo != "" {
		b.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	b.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	if msg.HTML != "" {
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.HTML)
		b.WriteString("\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

// newMessageID generates an RFC 5322 Message-ID under the sender's domain
func (c *clientImpl) newMessageID() string {
	domain := "callmint.tech"
	if at := strings.LastIndex(c.cfg.FromEmail, "@"); at >= 0 && at < len(c.cfg.FromEmail)-1 {
		domain = c.cfg.FromEmail[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// classify maps raw transport errors into the internal delivery taxonomy so
// provider-specific error shapes never leak past this boundary.
func classify(err error) *apperrors.DeliveryError {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return apperrors.NewDelivery(apperrors.CodeAuth, "smtp authentication rejected", err)
		}
		return apperrors.NewDelivery(apperrors.CodeGeneric, "smtp command rejected", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
		return apperrors.NewDelivery(apperrors.CodeConnection, "smtp connection failed", err)
	}

	return apperrors.NewDelivery(apperrors.CodeGeneric, "smtp delivery failed", err)
}
