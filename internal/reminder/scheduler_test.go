package reminder_test

import (
	"context"
	"testing"
	"time"

	notedomain "planner-backend/internal/note/domain"
	"planner-backend/internal/reminder"
	taskdomain "planner-backend/internal/task/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulerRejectsBadTimes(t *testing.T) {
	t.Parallel()

	scanner := reminder.NewScanner(&fakeTasks{}, users(), &fakeNotes{}, &fakeNotifier{}, time.UTC)
	for _, bad := range []string{"9am", "24:00", "09:60", ""} {
		_, err := reminder.NewScheduler(scanner, reminder.Schedule{TaskCheck: bad, NotesDigest: "08:00"}, time.UTC, nil)
		assert.Error(t, err, bad)
	}
}

func TestNewSchedulerRequiresDigestBeforeTaskCheck(t *testing.T) {
	t.Parallel()

	scanner := reminder.NewScanner(&fakeTasks{}, users(), &fakeNotes{}, &fakeNotifier{}, time.UTC)
	for _, sched := range []reminder.Schedule{
		{TaskCheck: "08:00", NotesDigest: "09:00"},
		{TaskCheck: "09:00", NotesDigest: "09:00"},
	} {
		_, err := reminder.NewScheduler(scanner, sched, time.UTC, nil)
		assert.Error(t, err, sched)
	}

	_, err := reminder.NewScheduler(scanner, reminder.Schedule{TaskCheck: "08:01", NotesDigest: "08:00"}, time.UTC, nil)
	assert.NoError(t, err)
}

func TestSchedulerTriggersUseInjectedClock(t *testing.T) {
	t.Parallel()

	tasks := &fakeTasks{tasks: []*taskdomain.Task{
		{ID: "t1", UserID: "alice", Status: taskdomain.TaskStatusPending, DueDate: at("2024-01-02T08:00:00Z")},
	}}
	notes := &fakeNotes{pinned: map[string][]*notedomain.Note{"alice": pinned(3)}}
	notifier := &fakeNotifier{}
	scanner := reminder.NewScanner(tasks, users(), notes, notifier, time.UTC)

	now := *at("2024-01-01T10:00:00Z")
	s, err := reminder.NewScheduler(scanner, reminder.Schedule{TaskCheck: "09:00", NotesDigest: "08:00"}, time.UTC, func() time.Time { return now })
	require.NoError(t, err)

	res, err := s.TriggerTaskReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)

	res, err = s.TriggerNotesDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Len(t, notifier.sent, 2)

	triggers := s.Triggers()
	require.Len(t, triggers, 2)
	assert.Equal(t, reminder.TriggerNotes, triggers[0].Name)
	assert.True(t, triggers[0].NextRun.Equal(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)), triggers[0].NextRun)
	assert.Equal(t, reminder.TriggerTasks, triggers[1].Name)
	assert.True(t, triggers[1].NextRun.Equal(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)), triggers[1].NextRun)
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()

	scanner := reminder.NewScanner(&fakeTasks{}, users(), &fakeNotes{}, &fakeNotifier{}, time.UTC)
	s, err := reminder.NewScheduler(scanner, reminder.Schedule{TaskCheck: "09:00", NotesDigest: "08:00"}, time.UTC, nil)
	require.NoError(t, err)

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
