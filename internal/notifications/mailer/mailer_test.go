package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

func TestNew_WithoutSMTPHostLogsOnly(t *testing.T) {
	m, err := New(&config.MailConfig{})
	require.NoError(t, err)
	assert.IsType(t, LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), domain.Message{To: "a@example.com", Subject: "hi"}))
}

func TestNew_SMTP(t *testing.T) {
	m, err := New(&config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUsername: "u", SMTPPassword: "p"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)
}

func TestBuildMsg(t *testing.T) {
	msg, err := buildMsg("Pinmark <no-reply@pinmark.app>", domain.Message{
		To:      "alice@example.com",
		Subject: "New mark on hero.png",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Subject: New mark on hero.png")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "plain body")

	_, err = buildMsg("Pinmark <no-reply@pinmark.app>", domain.Message{To: "not an address"})
	assert.Error(t, err)
}

func TestRenderer(t *testing.T) {
	r := NewRenderer("https://app.pinmark.test/")

	msg, err := r.Activity(
		domain.Recipient{Email: "bob@example.com", Username: "bob"},
		"alice",
		domain.KindMark,
		domain.ActivityContext{ImageID: "i1", ImageName: "<hero>.png", ProjectID: "p1", ProjectName: "Launch"},
	)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", msg.To)
	assert.Equal(t, "New mark on <hero>.png", msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;hero&gt;.png")
	assert.Contains(t, msg.HTML, "https://app.pinmark.test/projects/p1/images/i1")
	assert.Contains(t, msg.Text, "alice left a new mark")

	inv, err := r.ShareInvite(domain.ShareInvite{ProjectName: "Launch", InviteeEmail: "carol@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Someone invited you to Launch", inv.Subject)
	assert.Contains(t, inv.HTML, "/invitations")
}
