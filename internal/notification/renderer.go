package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	authdomain "planner-backend/internal/auth/domain"
	notedomain "planner-backend/internal/note/domain"
	taskdomain "planner-backend/internal/task/domain"
	"planner-backend/pkg/mailer"
)

//go:embed templates/*.html
var templateFS embed.FS

const excerptLength = 100

type kind string

const (
	kindTaskReminder         kind = "task_reminder"
	kindNotesDigest          kind = "notes_digest"
	kindNotificationsEnabled kind = "notifications_enabled"
)

var accents = map[kind]string{
	kindTaskReminder:         "#667eea",
	kindNotesDigest:          "#8b5cf6",
	kindNotificationsEnabled: "#10b981",
}

// Renderer turns reminder content into HTML emails.
type Renderer struct {
	templates map[kind]*template.Template
	appURL    string
	product   string
	loc       *time.Location
}

// NewRenderer parses the embedded templates. product is the name shown in
// the footer; due dates are formatted in loc.
func NewRenderer(appURL, product string, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.Local
	}
	r := &Renderer{
		templates: make(map[kind]*template.Template, len(accents)),
		appURL:    strings.TrimRight(appURL, "/"),
		product:   product,
		loc:       loc,
	}
	for k := range accents {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(k)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", k, err)
		}
		r.templates[k] = t
	}
	return r, nil
}

type noteView struct {
	Title   string
	Color   string
	Excerpt string
}

func (r *Renderer) TaskReminder(user *authdomain.User, task *taskdomain.Task) (mailer.Message, error) {
	due := "tomorrow"
	if task.DueDate != nil {
		due = task.DueDate.In(r.loc).Format("Monday, January 2, 2006")
	}
	return r.render(kindTaskReminder, user,
		fmt.Sprintf("Task Reminder: %q is due tomorrow", task.Title),
		map[string]interface{}{"Task": task, "Due": due})
}

func (r *Renderer) NotesDigest(user *authdomain.User, notes []*notedomain.Note) (mailer.Message, error) {
	views := make([]noteView, 0, len(notes))
	for _, n := range notes {
		color := n.Color
		if color == "" {
			color = notedomain.DefaultColor
		}
		views = append(views, noteView{Title: n.Title, Color: color, Excerpt: excerpt(n.Content, excerptLength)})
	}
	subject := fmt.Sprintf("You have %d pinned note to review", len(notes))
	if len(notes) != 1 {
		subject = fmt.Sprintf("You have %d pinned notes to review", len(notes))
	}
	return r.render(kindNotesDigest, user, subject, map[string]interface{}{"Notes": views})
}

func (r *Renderer) NotificationsEnabled(user *authdomain.User) (mailer.Message, error) {
	return r.render(kindNotificationsEnabled, user, "Email Notifications Enabled", nil)
}

func (r *Renderer) render(k kind, user *authdomain.User, subject string, data map[string]interface{}) (mailer.Message, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["Name"] = user.Name
	data["AppURL"] = r.appURL
	data["Product"] = r.product
	data["Accent"] = accents[k]

	var buf bytes.Buffer
	if err := r.templates[k].ExecuteTemplate(&buf, "layout", data); err != nil {
		return mailer.Message{}, fmt.Errorf("render %s: %w", k, err)
	}
	return mailer.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: subject,
		HTML:    buf.String(),
	}, nil
}

// excerpt shortens s to n runes, adding an ellipsis when cut.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
