package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.example.com", Port: 587, Username: "shop", Password: "secret", From: "shop@example.com"})
	m.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{
		To:      []string{"jane@example.com"},
		Subject: "Appointment received",
		Body:    "Hello\nSee you soon",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Appointment received\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nHello\r\nSee you soon")
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 25, From: "shop@example.com"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipients)
	assert.ErrorIs(t, m.Send(context.Background(), Message{To: []string{"a@example.com"}}), ErrSend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: []string{"a@example.com"}}), context.Canceled)
}
