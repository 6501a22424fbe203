package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	emailAdapter "memberdesk/internal/adapters/email"
	"memberdesk/internal/application/format"
	"memberdesk/internal/domain/member"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

const welcomeSubject = "Welcome to the gym, your Member ID is inside"

var welcomeBody = template.Must(template.New("welcome").Parse(`# Welcome, {{.FirstName}}!

Your registration is in. Keep this Member ID handy:

**{{.UniqueCode}}**

| Plan | Starts | Ends | Amount due |
|------|--------|------|------------|
| {{.GymPlan}} | {{.StartDate}} | {{.EndDate}} | {{.Amount}} |

Show the ID at the front desk to settle your payment and activate the membership.
`))

var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// WelcomeEmail sends the registration confirmation.
type WelcomeEmail struct {
	Sender  emailAdapter.Sender
	From    string
	ReplyTo string
}

// Render builds the HTML body for m.
func (w *WelcomeEmail) Render(m member.Member) (string, error) {
	var md bytes.Buffer
	err := welcomeBody.Execute(&md, struct {
		member.Member
		Amount string
	}{m, format.Peso(m.PricePaid)})
	if err != nil {
		return "", fmt.Errorf("render welcome markdown: %w", err)
	}
	var html bytes.Buffer
	if err := mdRenderer.Convert(md.Bytes(), &html); err != nil {
		return "", fmt.Errorf("convert welcome markdown: %w", err)
	}
	return html.String(), nil
}

// Send delivers the welcome email to m.
// PRE: m.Email is set
func (w *WelcomeEmail) Send(ctx context.Context, m member.Member) error {
	if m.Email == "" {
		return nil
	}
	html, err := w.Render(m)
	if err != nil {
		return err
	}
	_, err = w.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{m.Email},
		From:    w.From,
		Subject: welcomeSubject,
		HTML:    html,
		ReplyTo: w.ReplyTo,
	})
	return err
}
