package domain

import (
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether s is a 24h "HH:MM" wall-clock time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// CalculateProgress returns the share of completed steps as a percentage,
// rounded half up. An empty list is 0.
func CalculateProgress(steps Steps) int {
	total := len(steps)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, s := range steps {
		if s.IsCompleted {
			completed++
		}
	}
	return roundDiv(100*completed, total)
}

// DeriveStatus applies the automatic transitions: 100% completes anything
// that is not cancelled, and partial progress moves scheduled to in-progress.
// Every other combination keeps current.
func DeriveStatus(current Status, progress int) Status {
	switch {
	case progress == 100 && current != StatusCancelled:
		return StatusCompleted
	case progress > 0 && progress < 100 && current == StatusScheduled:
		return StatusInProgress
	default:
		return current
	}
}

// Recalculate prepares w for a write: steps are normalised, progress is
// recomputed, and status is derived unless it was set explicitly in this
// write.
func (w *Workflow) Recalculate(now time.Time, explicitStatus bool) {
	w.Steps = normalizeSteps(w.Steps, now)
	if !w.IsRecurring || w.RecurringDays == nil {
		w.RecurringDays = RecurringDays{}
	}
	w.Progress = CalculateProgress(w.Steps)
	if !explicitStatus {
		w.Status = DeriveStatus(w.Status, w.Progress)
	}
}

// ToggleStep flips the completion flag of the step with the given id.
func (w *Workflow) ToggleStep(stepID string, now time.Time) error {
	for i := range w.Steps {
		if w.Steps[i].ID != stepID {
			continue
		}
		step := &w.Steps[i]
		step.IsCompleted = !step.IsCompleted
		if step.IsCompleted {
			t := now
			step.CompletedAt = &t
		} else {
			step.CompletedAt = nil
		}
		return nil
	}
	return ErrStepNotFound
}

// OccursOn reports whether the workflow's start date falls on the calendar
// day of day, both read in loc. Recurring days are not expanded.
func (w *Workflow) OccursOn(day time.Time, loc *time.Location) bool {
	sy, sm, sd := w.StartDate.In(loc).Date()
	dy, dm, dd := day.In(loc).Date()
	return sy == dy && sm == dm && sd == dd
}

// Duplicate copies w into a new scheduled workflow starting at now. Steps
// keep their order but lose their completion; the end date is not copied.
func (w *Workflow) Duplicate(now time.Time) *Workflow {
	steps := make(Steps, 0, len(w.Steps))
	for _, s := range w.Steps {
		steps = append(steps, Step{
			ID:          uuid.New().String(),
			Title:       s.Title,
			Description: s.Description,
			Duration:    s.Duration,
			Order:       s.Order,
		})
	}
	days := make(RecurringDays, len(w.RecurringDays))
	copy(days, w.RecurringDays)

	dup := &Workflow{
		UserID:        w.UserID,
		Title:         w.Title + copySuffix,
		Description:   w.Description,
		Category:      w.Category,
		StartDate:     now,
		StartTime:     w.StartTime,
		IsRecurring:   w.IsRecurring,
		RecurringDays: days,
		Steps:         steps,
		Status:        StatusScheduled,
		Color:         w.Color,
	}
	dup.Recalculate(now, false)
	return dup
}

// Summarize counts workflows by status and averages their progress.
func Summarize(workflows []*Workflow) Stats {
	stats := Stats{Total: len(workflows)}
	sum := 0
	for _, w := range workflows {
		switch w.Status {
		case StatusScheduled:
			stats.Scheduled++
		case StatusInProgress:
			stats.InProgress++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
		sum += w.Progress
	}
	if stats.Total > 0 {
		stats.AverageProgress = roundDiv(sum, stats.Total)
	}
	return stats
}

// normalizeSteps assigns missing ids and defaults, keeps completedAt in line
// with isCompleted and sorts by order.
func normalizeSteps(steps Steps, now time.Time) Steps {
	if steps == nil {
		return Steps{}
	}
	for i := range steps {
		s := &steps[i]
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.Duration <= 0 {
			s.Duration = DefaultStepDuration
		}
		switch {
		case s.IsCompleted && s.CompletedAt == nil:
			t := now
			s.CompletedAt = &t
		case !s.IsCompleted:
			s.CompletedAt = nil
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps
}

// roundDiv is n/d rounded half up for non-negative n and positive d.
func roundDiv(n, d int) int {
	return (2*n + d) / (2 * d)
}
