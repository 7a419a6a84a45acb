package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

var activityHTML = template.Must(template.New("activity").Parse(`<p>Hi {{.Recipient}},</p>
<p>{{.Actor}} left a new {{.What}} on <strong>{{.ImageName}}</strong> in <strong>{{.ProjectName}}</strong>.</p>
<p><a href="{{.Link}}">Open the image</a></p>`))

var inviteHTML = template.Must(template.New("invite").Parse(`<p>Hi,</p>
<p>{{.Inviter}} invited you to review <strong>{{.ProjectName}}</strong>.</p>
<p><a href="{{.Link}}">See your invitations</a></p>`))

// Renderer builds email bodies with links into the web app.
type Renderer struct {
	appURL string
}

func NewRenderer(appURL string) *Renderer {
	return &Renderer{appURL: strings.TrimRight(appURL, "/")}
}

func (r *Renderer) link(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return r.appURL + "/" + strings.Join(escaped, "/")
}

// Activity renders the email for a new mark or comment.
func (r *Renderer) Activity(to domain.Recipient, actor string, kind domain.Kind, ac domain.ActivityContext) (domain.Message, error) {
	what := "comment"
	if kind == domain.KindMark {
		what = "mark"
	}
	name := to.Username
	if name == "" {
		name = "there"
	}

	data := struct {
		Recipient, Actor, What, ImageName, ProjectName, Link string
	}{
		Recipient:   name,
		Actor:       actor,
		What:        what,
		ImageName:   ac.ImageName,
		ProjectName: ac.ProjectName,
		Link:        r.link("projects", ac.ProjectID, "images", ac.ImageID),
	}

	var buf bytes.Buffer
	if err := activityHTML.Execute(&buf, data); err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      to.Email,
		Subject: fmt.Sprintf("New %s on %s", what, ac.ImageName),
		HTML:    buf.String(),
		Text: fmt.Sprintf("%s left a new %s on %s in %s.\n\n%s\n",
			actor, what, ac.ImageName, ac.ProjectName, data.Link),
	}, nil
}

// ShareInvite renders the invitation email.
func (r *Renderer) ShareInvite(si domain.ShareInvite) (domain.Message, error) {
	inviter := si.InviterName
	if inviter == "" {
		inviter = "Someone"
	}
	data := struct {
		Inviter, ProjectName, Link string
	}{
		Inviter:     inviter,
		ProjectName: si.ProjectName,
		Link:        r.link("invitations"),
	}

	var buf bytes.Buffer
	if err := inviteHTML.Execute(&buf, data); err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      si.InviteeEmail,
		Subject: fmt.Sprintf("%s invited you to %s", inviter, si.ProjectName),
		HTML:    buf.String(),
		Text:    fmt.Sprintf("%s invited you to review %s.\n\n%s\n", inviter, si.ProjectName, data.Link),
	}, nil
}
