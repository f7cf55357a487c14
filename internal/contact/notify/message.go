// Package notify relays accepted submissions to the site operator by email.
package notify

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/RinkiBai/portfolio-backend/internal/contact/sanitize"
)

// Message is a composed outbound email.
type Message struct {
	FromName string
	From     string
	To       string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

const subject = "New Contact Form Submission"

var textBody = template.Must(template.New("text").Parse(
	`You received a new message from {{.Name}} ({{.Email}}):

{{.Message}}

--
Submission {{.ID}} received {{.Received}}
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<p>You received a new message from <strong>{{.Name}}</strong> ({{.Email}}):</p>
<p>{{.Message}}</p>
<hr>
<p style="color:#888;font-size:12px">Submission {{.ID}} received {{.Received}}</p>
`))

type bodyData struct {
	ID       string
	Name     string
	Email    string
	Message  any
	Received string
}

// Envelope holds the fixed addressing of operator notifications.
type Envelope struct {
	FromName string
	From     string
	To       string
}

// Compose builds the operator notification for a stored submission. The
// reply-to header is the submitter so the operator can answer directly.
func Compose(env Envelope, s *domain.Submission) (*Message, error) {
	data := bodyData{
		ID:       s.ID,
		Name:     s.Name,
		Email:    s.Email,
		Message:  s.Message,
		Received: s.CreatedAt.UTC().Format(time.RFC1123),
	}

	var text bytes.Buffer
	if err := textBody.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}

	data.Message = messageMarkup(s.Message)
	var markup bytes.Buffer
	if err := htmlBody.Execute(&markup, data); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	return &Message{
		FromName: env.FromName,
		From:     env.From,
		To:       env.To,
		ReplyTo:  s.Email,
		Subject:  subject,
		Text:     text.String(),
		HTML:     markup.String(),
	}, nil
}

// messageMarkup escapes the stored plain text and keeps its line breaks.
// ForEmail runs last so only the inline allow-list can reach the mail body.
func messageMarkup(text string) htmltemplate.HTML {
	escaped := html.EscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return htmltemplate.HTML(sanitize.ForEmail(strings.ReplaceAll(escaped, "\n", "<br>")))
}
