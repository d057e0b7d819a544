package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistara-fest/backend/pkg/queue"
)

func TestRender_registrationVerified(t *testing.T) {
	p := queue.RegistrationPayload{RegistrationID: "r-1", EventName: "FRAME BY FRAME", Name: "<Asha>", TeamName: "Reel Makers"}
	subject, html, text, err := Render(TemplateRegistrationVerified, p)
	require.NoError(t, err)

	assert.Equal(t, "Your registration for FRAME BY FRAME is confirmed", subject)
	assert.Contains(t, html, "&lt;Asha&gt;")
	assert.Contains(t, html, "Team: Reel Makers")
	assert.Contains(t, text, "Hi <Asha>,")
	assert.Contains(t, text, "Registration ID: r-1")
}

func TestRender_unknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestRegistrationAlertText(t *testing.T) {
	solo := RegistrationAlertText(queue.RegistrationPayload{
		EventName: "VOICE QUEST (Solo)", ParticipationType: "Solo", Name: "Asha",
		Email: "a@example.com", College: "KPR", Year: "3", PaymentProofURL: "https://x/p.jpg",
	})
	assert.Contains(t, solo, "New registration: VOICE QUEST (Solo)")
	assert.Contains(t, solo, "Name: Asha")
	assert.NotContains(t, solo, "Phone:")

	team := RegistrationAlertText(queue.RegistrationPayload{ParticipationType: "Team", TeamName: "Crew", TeamSize: 4})
	assert.Contains(t, team, "Team: Crew (4 members)")
}

func TestFallbacks(t *testing.T) {
	m := NewMailer(MailerConfig{Provider: "carrier-pigeon"}, nil)
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "s", "", "t"))

	a, err := NewAlerter("", 0, nil)
	require.NoError(t, err)
	assert.NoError(t, a.NewRegistration(context.Background(), queue.RegistrationPayload{}))
}
