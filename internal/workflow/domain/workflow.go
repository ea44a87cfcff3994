package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStepNotFound     = errors.New("step not found")
	ErrInvalidWorkflow  = errors.New("invalid workflow")
)

const (
	DefaultColor        = "#3b82f6"
	DefaultStartTime    = "09:00"
	DefaultStepDuration = 30
	copySuffix          = " (Copy)"
)

type Category string

const (
	CategoryDaily   Category = "daily"
	CategoryWeekly  Category = "weekly"
	CategoryProject Category = "project"
	CategoryMeeting Category = "meeting"
	CategoryCustom  Category = "custom"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDaily, CategoryWeekly, CategoryProject, CategoryMeeting, CategoryCustom:
		return true
	}
	return false
}

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Step is one unit of work inside a workflow. It has no identity outside
// its parent and is always persisted through it.
type Step struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration"` // minutes
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Order       int        `json:"order"`
}

// Steps is stored as a JSON text column
type Steps []Step

// Value implements driver.Valuer
func (s Steps) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Steps) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = Steps{} })
}

// RecurringDays holds lowercase weekday names, stored as a JSON text column
type RecurringDays []string

// Value implements driver.Valuer
func (d RecurringDays) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (d *RecurringDays) Scan(value interface{}) error {
	return scanJSON(value, d, func() { *d = RecurringDays{} })
}

// Validate reports the first name that is not a weekday.
func (d RecurringDays) Validate() error {
	for _, day := range d {
		if _, ok := weekdays[day]; !ok {
			return fmt.Errorf("%w: unknown recurring day %q", ErrInvalidWorkflow, day)
		}
	}
	return nil
}

func scanJSON(value interface{}, dst interface{}, empty func()) error {
	if value == nil {
		empty()
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column value %T", value)
	}
	if len(bytes) == 0 {
		empty()
		return nil
	}
	return json.Unmarshal(bytes, dst)
}

// Workflow is a scheduled, ordered checklist of steps. Progress and, in most
// cases, Status are derived from the steps on every write.
type Workflow struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	UserID        string        `json:"userId" gorm:"index;not null"`
	Title         string        `json:"title" gorm:"not null"`
	Description   string        `json:"description,omitempty"`
	Category      Category      `json:"category" gorm:"index"`
	StartDate     time.Time     `json:"startDate" gorm:"index;not null"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
	StartTime     string        `json:"startTime"`
	IsRecurring   bool          `json:"isRecurring"`
	RecurringDays RecurringDays `json:"recurringDays" gorm:"type:text"`
	Steps         Steps         `json:"steps" gorm:"type:text"`
	Status        Status        `json:"status" gorm:"index"`
	Progress      int           `json:"progress"`
	Color         string        `json:"color"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Stats aggregates a user's workflows
type Stats struct {
	Total           int `json:"total"`
	Scheduled       int `json:"scheduled"`
	InProgress      int `json:"inProgress"`
	Completed       int `json:"completed"`
	Cancelled       int `json:"cancelled"`
	AverageProgress int `json:"averageProgress"`
}
