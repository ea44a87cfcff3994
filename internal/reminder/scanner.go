package reminder

import (
	"context"
	"fmt"
	"time"

	authdomain "planner-backend/internal/auth/domain"
	notedomain "planner-backend/internal/note/domain"
	taskdomain "planner-backend/internal/task/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DigestLimit caps how many pinned notes go into one digest.
const DigestLimit = 5

type TaskSource interface {
	FindPendingDueBetween(ctx context.Context, from, to time.Time) ([]*taskdomain.Task, error)
}

type UserSource interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*authdomain.User, error)
	FindWithNotificationsEnabled(ctx context.Context) ([]*authdomain.User, error)
}

type NoteSource interface {
	FindPinnedByUserID(ctx context.Context, userID string, limit int) ([]*notedomain.Note, error)
}

// Notifier delivers one rendered reminder to one user.
type Notifier interface {
	SendTaskReminder(ctx context.Context, user *authdomain.User, task *taskdomain.Task) error
	SendNotesDigest(ctx context.Context, user *authdomain.User, notes []*notedomain.Note) error
}

// Result summarises one scan.
type Result struct {
	Scanned int `json:"scanned"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Scanner selects due items and dispatches reminders. It keeps no state
// between runs, so running a scan twice sends twice.
type Scanner struct {
	tasks    TaskSource
	users    UserSource
	notes    NoteSource
	notifier Notifier
	loc      *time.Location
	logger   zerolog.Logger
}

// NewScanner creates a Scanner. Calendar days are computed in loc.
func NewScanner(tasks TaskSource, users UserSource, notes NoteSource, notifier Notifier, loc *time.Location) *Scanner {
	if loc == nil {
		loc = time.Local
	}
	return &Scanner{
		tasks:    tasks,
		users:    users,
		notes:    notes,
		notifier: notifier,
		loc:      loc,
		logger:   log.With().Str("component", "reminder").Logger(),
	}
}

// TomorrowWindow returns [tomorrow 00:00, the day after 00:00) relative to now.
func TomorrowWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	y, m, d := local.Date()
	from := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// RunTaskReminders emails owners of pending tasks due tomorrow. Ineligible
// owners are skipped silently; a failed send is logged and the scan moves on.
func (s *Scanner) RunTaskReminders(ctx context.Context, now time.Time) (Result, error) {
	var res Result
	from, to := TomorrowWindow(now, s.loc)

	tasks, err := s.tasks.FindPendingDueBetween(ctx, from, to)
	if err != nil {
		return res, fmt.Errorf("load due tasks: %w", err)
	}
	res.Scanned = len(tasks)
	if len(tasks) == 0 {
		s.logger.Info().Time("from", from).Time("to", to).Msg("no tasks due tomorrow")
		return res, nil
	}

	ids := make([]string, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}
	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("load task owners: %w", err)
	}

	for _, task := range tasks {
		owner := owners[task.UserID]
		if !owner.CanReceiveEmail() {
			res.Skipped++
			continue
		}
		if err := s.notifier.SendTaskReminder(ctx, owner, task); err != nil {
			res.Failed++
			s.logger.Error().Err(err).Str("task_id", task.ID).Str("user_id", owner.ID).Msg("task reminder failed")
			continue
		}
		res.Sent++
	}

	s.logger.Info().
		Int("scanned", res.Scanned).
		Int("sent", res.Sent).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("task reminder scan finished")
	return res, nil
}

// RunNotesDigest sends each opted-in user one digest of up to DigestLimit
// pinned notes. Users without pinned notes get nothing.
func (s *Scanner) RunNotesDigest(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	users, err := s.users.FindWithNotificationsEnabled(ctx)
	if err != nil {
		return res, fmt.Errorf("load opted-in users: %w", err)
	}
	res.Scanned = len(users)

	for _, user := range users {
		if !user.CanReceiveEmail() {
			res.Skipped++
			continue
		}
		notes, err := s.notes.FindPinnedByUserID(ctx, user.ID, DigestLimit)
		if err != nil {
			return res, fmt.Errorf("load pinned notes for %s: %w", user.ID, err)
		}
		if len(notes) == 0 {
			res.Skipped++
			continue
		}
		if len(notes) > DigestLimit {
			notes = notes[:DigestLimit]
		}
		if err := s.notifier.SendNotesDigest(ctx, user, notes); err != nil {
			res.Failed++
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("notes digest failed")
			continue
		}
		res.Sent++
	}

	s.logger.Info().
		Time("at", now).
		Int("scanned", res.Scanned).
		Int("sent", res.Sent).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("notes digest scan finished")
	return res, nil
}
