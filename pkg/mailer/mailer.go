package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoRecipients письмо без получателей
	ErrNoRecipients = errors.New("mailer: no recipients")
	// ErrSend ошибка отправки письма
	ErrSend = errors.New("mailer: failed to send message")
)

// Message простое текстовое письмо
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Config параметры SMTP сервера
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendFunc сигнатура smtp.SendMail, подменяется в тестах
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer отправляет письма через SMTP
type SMTPMailer struct {
	cfg  Config
	send sendFunc
	now  func() time.Time
}

// NewSMTPMailer создает SMTP отправителя
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		send: smtp.SendMail,
		now:  time.Now,
	}
}

// Send отправляет письмо. smtp.SendMail не принимает контекст,
// поэтому отмена проверяется только до начала отправки.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, msg.To, m.render(msg)); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

func (m *SMTPMailer) render(msg Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return buf.Bytes()
}
