package notify

import (
	"testing"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/RinkiBai/portfolio-backend/internal/contact/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var env = Envelope{FromName: "Contact Form", From: "site@example.com", To: "owner@example.com"}

func submission(msg string) *domain.Submission {
	return &domain.Submission{
		ID:        "8d0c7c1e-7d4b-4a0e-9a55-1f5f0f3b7a10",
		Name:      sanitize.Strict("Tom & Jerry"),
		Email:     "tom@example.com",
		Message:   sanitize.Strict(msg),
		CreatedAt: time.Date(2025, 5, 4, 9, 30, 0, 0, time.UTC),
	}
}

func TestCompose(t *testing.T) {
	m, err := Compose(env, submission("Hi <b>there</b>, 1 < 2"))
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", m.To)
	assert.Equal(t, "site@example.com", m.From)
	assert.Equal(t, "tom@example.com", m.ReplyTo)
	assert.Equal(t, "New Contact Form Submission", m.Subject)

	assert.Contains(t, m.Text, "You received a new message from Tom & Jerry (tom@example.com):")
	assert.Contains(t, m.Text, "Hi there, 1 < 2")

	assert.Contains(t, m.HTML, "<strong>Tom &amp; Jerry</strong>")
	assert.Contains(t, m.HTML, "Hi there, 1 &lt; 2")
	assert.NotContains(t, m.HTML, "&amp;amp;")
	assert.Contains(t, m.HTML, "8d0c7c1e-7d4b-4a0e-9a55-1f5f0f3b7a10")
}

func TestCompose_MessageMarkup(t *testing.T) {
	m, err := Compose(env, submission("Fish & chips, \"quoted\".\nSecond line"))
	require.NoError(t, err)

	assert.Contains(t, m.Text, "Fish & chips, \"quoted\".\nSecond line")
	assert.Contains(t, m.HTML, "Fish &amp; chips")
	assert.Contains(t, m.HTML, "<br")
	assert.Contains(t, m.HTML, "Second line")
	assert.NotContains(t, m.HTML, "&amp;amp;")
}

func TestCompose_EncodedTagsStayText(t *testing.T) {
	s := submission("ok")
	s.Message = "plain <b>not bold</b> text"

	m, err := Compose(env, s)
	require.NoError(t, err)
	assert.NotContains(t, m.HTML, "<b>")
	assert.Contains(t, m.HTML, "&lt;b&gt;not bold&lt;/b&gt;")
}
