package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Trigger names
const (
	TriggerTasks = "task-check"
	TriggerNotes = "notes-digest"
)

// Schedule holds the daily wall-clock times ("HH:MM") of both triggers.
type Schedule struct {
	TaskCheck   string
	NotesDigest string
}

// Scheduler runs the two daily scans on a cron clock. Each trigger is
// serialized with itself, whether it fires from the clock or by hand.
type Scheduler struct {
	scanner  *Scanner
	schedule Schedule
	loc      *time.Location
	now      func() time.Time
	cron     *cron.Cron
	entries  map[string]cron.EntryID
	locks    map[string]*sync.Mutex
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler validates the schedule and registers both triggers. The digest
// must fire strictly before the task check. Nothing fires until Start. now
// defaults to time.Now.
func NewScheduler(scanner *Scanner, schedule Schedule, loc *time.Location, now func() time.Time) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	digestAt, err := parseClock(schedule.NotesDigest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TriggerNotes, err)
	}
	taskAt, err := parseClock(schedule.TaskCheck)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TriggerTasks, err)
	}
	if digestAt >= taskAt {
		return nil, fmt.Errorf("%s (%s) must be earlier than %s (%s)", TriggerNotes, schedule.NotesDigest, TriggerTasks, schedule.TaskCheck)
	}

	logger := log.With().Str("component", "scheduler").Logger()
	cronLogger := cronLogAdapter{logger: logger}

	s := &Scheduler{
		scanner:  scanner,
		schedule: schedule,
		loc:      loc,
		now:      now,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		entries: make(map[string]cron.EntryID, 2),
		locks:   map[string]*sync.Mutex{TriggerTasks: {}, TriggerNotes: {}},
		logger:  logger,
	}

	jobs := []struct {
		name string
		at   string
		run  func()
	}{
		{TriggerNotes, schedule.NotesDigest, func() { s.fire(TriggerNotes) }},
		{TriggerTasks, schedule.TaskCheck, func() { s.fire(TriggerTasks) }},
	}
	for _, job := range jobs {
		spec, err := buildDailySpec(job.at)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", job.name, err)
		}
		id, err := s.cron.AddFunc(spec, job.run)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", job.name, err)
		}
		s.entries[job.name] = id
	}
	return s, nil
}

// Start begins firing triggers in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info().
		Str("task_check", s.schedule.TaskCheck).
		Str("notes_digest", s.schedule.NotesDigest).
		Str("timezone", s.loc.String()).
		Msg("reminder scheduler started")
}

// Stop halts the clock and waits for running scans to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("reminder scheduler stopped")
}

// TriggerTaskReminders runs the task scan now, outside the schedule.
func (s *Scheduler) TriggerTaskReminders(ctx context.Context) (Result, error) {
	return s.run(ctx, TriggerTasks)
}

// TriggerNotesDigest runs the digest scan now, outside the schedule.
func (s *Scheduler) TriggerNotesDigest(ctx context.Context) (Result, error) {
	return s.run(ctx, TriggerNotes)
}

// TriggerInfo describes one trigger for the settings endpoint.
type TriggerInfo struct {
	Name    string    `json:"name"`
	At      string    `json:"at"`
	NextRun time.Time `json:"nextRun"`
}

// Triggers lists both triggers with their next run, computed from the clock
// whether or not the scheduler is started.
func (s *Scheduler) Triggers() []TriggerInfo {
	now := s.now().In(s.loc)
	out := make([]TriggerInfo, 0, 2)
	for _, t := range []struct{ name, at string }{
		{TriggerNotes, s.schedule.NotesDigest},
		{TriggerTasks, s.schedule.TaskCheck},
	} {
		info := TriggerInfo{Name: t.name, At: t.at}
		if entry := s.cron.Entry(s.entries[t.name]); entry.Valid() {
			info.NextRun = entry.Schedule.Next(now)
		}
		out = append(out, info)
	}
	return out
}

// Location is the timezone the triggers fire in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

func (s *Scheduler) fire(name string) {
	if _, err := s.run(context.Background(), name); err != nil {
		s.logger.Error().Err(err).Str("trigger", name).Msg("scan aborted")
	}
}

func (s *Scheduler) run(ctx context.Context, name string) (Result, error) {
	lock := s.locks[name]
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	s.logger.Debug().Str("trigger", name).Time("now", now).Msg("scan starting")
	switch name {
	case TriggerTasks:
		return s.scanner.RunTaskReminders(ctx, now)
	case TriggerNotes:
		return s.scanner.RunNotesDigest(ctx, now)
	}
	return Result{}, fmt.Errorf("unknown trigger %q", name)
}

// buildDailySpec turns "HH:MM" into a seconds-precision cron spec.
func buildDailySpec(timeStr string) (string, error) {
	minutes, err := parseClock(timeStr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0 %d %d * * *", minutes%60, minutes/60), nil
}

// parseClock returns "HH:MM" as minutes after midnight.
func parseClock(timeStr string) (int, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return hour*60 + minute, nil
}

// cronLogAdapter routes robfig/cron logging into zerolog.
type cronLogAdapter struct {
	logger zerolog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
