package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplates(t *testing.T) {
	subject, text, err := Render(EmailJob{
		To: "b@example.com", Template: "invite", Language: "en-US",
		Data: map[string]string{"inviter": "a@example.com", "target": "b@example.com"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "a@example.com")

	subject, text, err = Render(EmailJob{
		To: "u@example.com", Template: "reset", Language: "xx-XX",
		Data: map[string]string{"resetLink": "https://locshare.app/reset/abc"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "https://locshare.app/reset/abc")
}

func TestRenderRawJobPassesThrough(t *testing.T) {
	subject, text, err := Render(EmailJob{To: "u@example.com", Subject: "s", Text: "t"})
	require.NoError(t, err)
	assert.Equal(t, "s", subject)
	assert.Equal(t, "t", text)

	_, _, err = Render(EmailJob{To: "u@example.com"})
	assert.Error(t, err)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render(EmailJob{To: "u@example.com", Template: "universal"})
	assert.Error(t, err)
}
