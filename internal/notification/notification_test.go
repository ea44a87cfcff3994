package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	authdomain "planner-backend/internal/auth/domain"
	notedomain "planner-backend/internal/note/domain"
	taskdomain "planner-backend/internal/task/domain"
	"planner-backend/pkg/fcm"
	"planner-backend/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakePusher struct {
	tokens []string
	failed []string
}

func (p *fakePusher) Send(_ context.Context, tokens []string, _ fcm.Push) ([]string, error) {
	p.tokens = append(p.tokens, tokens...)
	return p.failed, nil
}

type fakeTokenRepo struct {
	tokens  []authdomain.FCMToken
	deleted []string
}

func (r *fakeTokenRepo) SaveToken(context.Context, string, string, string) error { return nil }
func (r *fakeTokenRepo) GetTokensByUserID(context.Context, string) ([]authdomain.FCMToken, error) {
	return r.tokens, nil
}
func (r *fakeTokenRepo) DeleteToken(context.Context, string, string) error { return nil }
func (r *fakeTokenRepo) DeleteTokens(_ context.Context, tokens []string) error {
	r.deleted = append(r.deleted, tokens...)
	return nil
}

var ada = &authdomain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", EmailNotifications: true}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("http://app.test/", "Task Manager", time.UTC)
	require.NoError(t, err)
	return r
}

func TestRenderTaskReminder(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)

	due := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	msg, err := r.TaskReminder(ada, &taskdomain.Task{ID: "t1", Title: "<b>Pay</b> rent", Description: "before noon", DueDate: &due})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Ada", msg.ToName)
	assert.Contains(t, msg.Subject, "is due tomorrow")
	assert.Contains(t, msg.HTML, "Tuesday, January 2, 2024")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Pay&lt;/b&gt; rent")
	assert.Contains(t, msg.HTML, "before noon")
	assert.Contains(t, msg.HTML, `href="http://app.test"`)
	assert.Contains(t, msg.HTML, "Task Manager - Stay organized")
}

func TestRenderNotesDigest(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)

	long := strings.Repeat("x", 150)
	msg, err := r.NotesDigest(ada, []*notedomain.Note{
		{Title: "Groceries", Content: long, Color: "#fef3c7"},
		{Title: "Ideas", Content: "short"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You have 2 pinned notes to review", msg.Subject)
	assert.Contains(t, msg.HTML, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, msg.HTML, strings.Repeat("x", 101))
	assert.Contains(t, msg.HTML, "#fef3c7")
	assert.Contains(t, msg.HTML, "http://app.test/notes")

	msg, err = r.NotesDigest(ada, []*notedomain.Note{{Title: "Solo", Content: "c"}})
	require.NoError(t, err)
	assert.Equal(t, "You have 1 pinned note to review", msg.Subject)
}

func TestServicePushesAndPrunesTokens(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	pusher := &fakePusher{failed: []string{"stale"}}
	tokens := &fakeTokenRepo{tokens: []authdomain.FCMToken{{Token: "good"}, {Token: "stale"}}}
	svc := NewService(sender, newRenderer(t), pusher, tokens)

	require.NoError(t, svc.SendTaskReminder(context.Background(), ada, &taskdomain.Task{ID: "t1", Title: "Pay rent"}))
	assert.Equal(t, 1, sender.count())
	assert.Equal(t, []string{"good", "stale"}, pusher.tokens)
	assert.Equal(t, []string{"stale"}, tokens.deleted)
}

func TestServiceReportsEmailFailureOnly(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: errors.New("relay down")}
	pusher := &fakePusher{}
	svc := NewService(sender, newRenderer(t), pusher, &fakeTokenRepo{tokens: []authdomain.FCMToken{{Token: "good"}}})

	err := svc.SendNotesDigest(context.Background(), ada, []*notedomain.Note{{Title: "n", Content: "c"}})
	assert.Error(t, err)
	assert.Empty(t, pusher.tokens, "no push when the email was not delivered")

	// without a pusher the email path still works
	ok := NewService(&recordingSender{}, newRenderer(t), nil, nil)
	assert.NoError(t, ok.SendNotesDigest(context.Background(), ada, []*notedomain.Note{{Title: "n", Content: "c"}}))
}

func TestOutboxDeliversQueuedConfirmations(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	outbox := NewOutbox(NewService(sender, newRenderer(t), nil, nil), 2)
	outbox.Start()

	assert.True(t, outbox.QueueNotificationsEnabled(ada))
	assert.True(t, outbox.QueueNotificationsEnabled(ada))
	outbox.Stop()

	assert.Equal(t, 2, sender.count())
	assert.Equal(t, "Email Notifications Enabled", sender.sent[0].Subject)
	assert.False(t, outbox.QueueNotificationsEnabled(ada), "closed outbox rejects jobs")
}
