package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/rs/zerolog/log"
)

// Message is a rendered HTML email for a single recipient.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay. Port 465 uses implicit TLS,
// everything else upgrades with STARTTLS when the server offers it and
// stays plain otherwise.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     *mail.Address
}

func NewSMTPSender(host string, port int, username, password, fromAddress, fromName string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     &mail.Address{Name: fromName, Address: fromAddress},
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := Compose(s.from, msg, time.Now())
	if err != nil {
		return err
	}

	var auth sasl.Client
	if s.username != "" {
		auth = sasl.NewPlainClient("", s.username, s.password)
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	if err := s.deliver(addr, auth, msg.To, raw); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) deliver(addr string, auth sasl.Client, to string, raw []byte) error {
	tlsConfig := &tls.Config{ServerName: s.host}

	if s.port == 465 {
		c, err := smtp.DialTLS(addr, tlsConfig)
		if err != nil {
			return err
		}
		defer c.Close()
		return s.submit(c, auth, to, raw)
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	// relays without STARTTLS (local postfix, mail catchers) get plain SMTP
	if ok, _ := c.Extension("STARTTLS"); ok {
		c.Close()
		if c, err = smtp.DialStartTLS(addr, tlsConfig); err != nil {
			return err
		}
	}
	defer c.Close()
	return s.submit(c, auth, to, raw)
}

func (s *SMTPSender) submit(c *smtp.Client, auth sasl.Client, to string, raw []byte) error {
	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.SendMail(s.from.Address, []string{to}, bytes.NewReader(raw)); err != nil {
		return err
	}
	return c.Quit()
}

// Compose renders msg as an RFC 5322 message with a single HTML part.
func Compose(from *mail.Address, msg Message, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{{Name: msg.ToName, Address: msg.To}})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if _, err := io.WriteString(w, msg.HTML); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}

// LogSender only logs messages. Used when no SMTP relay is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("component", "mailer").
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("SMTP not configured, email not sent")
	return nil
}
