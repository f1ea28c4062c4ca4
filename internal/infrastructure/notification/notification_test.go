package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

func testEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		Enabled:  true,
		Host:     "smtp.firm.example",
		Port:     587,
		From:     "office@firm.example",
		FromName: "Firm Office",
	}
}

func testEmail() shared.EmailMessage {
	return shared.EmailMessage{
		To:       []string{"client@example.com"},
		ReplyTo:  "reception@firm.example",
		Subject:  "Your booking is confirmed",
		TextBody: "See you soon.",
		HTMLBody: "<p>See you soon.</p>",
	}
}

func TestNewSMTPMailer_RequiresHostAndFrom(t *testing.T) {
	cfg := testEmailConfig()
	cfg.Host = ""
	_, err := NewSMTPMailer(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = testEmailConfig()
	cfg.From = ""
	_, err = NewSMTPMailer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSMTPMailer_BuildMessage(t *testing.T) {
	m, err := NewSMTPMailer(testEmailConfig(), zap.NewNop())
	require.NoError(t, err)

	msg, err := m.buildMessage(testEmail())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, `From: "Firm Office" <office@firm.example>`)
	assert.Contains(t, raw, "To: <client@example.com>")
	assert.Contains(t, raw, "Reply-To: <reception@firm.example>")
	assert.Contains(t, raw, "Subject: Your booking is confirmed")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestSMTPMailer_BuildMessage_Rejects(t *testing.T) {
	m, err := NewSMTPMailer(testEmailConfig(), zap.NewNop())
	require.NoError(t, err)

	noRecipients := testEmail()
	noRecipients.To = nil
	_, err = m.buildMessage(noRecipients)
	assert.Error(t, err)

	noSubject := testEmail()
	noSubject.Subject = "  "
	_, err = m.buildMessage(noSubject)
	assert.Error(t, err)

	badAddress := testEmail()
	badAddress.To = []string{"not an address"}
	_, err = m.buildMessage(badAddress)
	assert.Error(t, err)
}

func TestSMTPMailer_Send(t *testing.T) {
	m, err := NewSMTPMailer(testEmailConfig(), zap.NewNop())
	require.NoError(t, err)

	var sent []*mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = append(sent, msg)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), testEmail()))
	assert.Len(t, sent, 1)
	assert.True(t, m.Enabled())
}

func TestSMTPMailer_SendFailure(t *testing.T) {
	m, err := NewSMTPMailer(testEmailConfig(), zap.NewNop())
	require.NoError(t, err)
	m.send = func(context.Context, *mail.Msg) error { return errors.New("connection refused") }

	err = m.Send(context.Background(), testEmail())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp: failed to send email")
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, mail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicy("Opportunistic"))
	assert.Equal(t, mail.TLSMandatory, tlsPolicy("mandatory"))
	assert.Equal(t, mail.TLSMandatory, tlsPolicy(""))
}

func TestNewMailer(t *testing.T) {
	cfg := testEmailConfig()
	cfg.Enabled = false
	m, err := NewMailer(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Send(context.Background(), testEmail()), shared.ErrChannelDisabled)

	m, err = NewMailer(testEmailConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)
}

func TestSlackNotifier_Notify(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n, err := NewSlackNotifier(config.SlackConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		Channel:    "#bookings",
		Username:   "Website",
	}, zap.NewNop())
	require.NoError(t, err)

	err = n.Notify(context.Background(), shared.ChatMessage{
		Title:   "New booking paid",
		Text:    "PL-20240501-K7QZ",
		Fields:  []shared.ChatField{{Label: "Client", Value: "Jane Citizen"}, {Label: "Amount", Value: "220.00 AUD"}},
		LinkURL: "https://firm.example/admin/bookings/1",
	})
	require.NoError(t, err)

	assert.Equal(t, "#bookings", body["channel"])
	assert.Equal(t, "Website", body["username"])
	assert.Equal(t, "New booking paid", body["text"])
	blocks, ok := body["blocks"].([]any)
	require.True(t, ok)
	// header, text, fields, actions
	assert.Len(t, blocks, 4)
}

func TestSlackNotifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n, err := NewSlackNotifier(config.SlackConfig{WebhookURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	err = n.Notify(context.Background(), shared.ChatMessage{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack: failed to post webhook")
}

func TestSlackNotifier_SplitsFields(t *testing.T) {
	n, err := NewSlackNotifier(config.SlackConfig{WebhookURL: "https://hooks.slack.example/x"}, zap.NewNop())
	require.NoError(t, err)

	fields := make([]shared.ChatField, 12)
	for i := range fields {
		fields[i] = shared.ChatField{Label: "k", Value: "v"}
	}
	msg := n.buildMessage(shared.ChatMessage{Title: "t", Fields: fields})

	// header plus two field sections
	assert.Len(t, msg.Blocks.BlockSet, 3)
}

func TestNewChatNotifier(t *testing.T) {
	n, err := NewChatNotifier(config.SlackConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, n.Enabled())
	assert.ErrorIs(t, n.Notify(context.Background(), shared.ChatMessage{}), shared.ErrChannelDisabled)

	_, err = NewChatNotifier(config.SlackConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)
}
