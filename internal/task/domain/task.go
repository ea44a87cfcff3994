package domain

import (
	"errors"
	"time"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidTask  = errors.New("invalid task")
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusComplete TaskStatus = "complete"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusComplete
}

// Task is a to-do item owned by a single user
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"userId" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" gorm:"index"`
	Status      TaskStatus `json:"status" gorm:"index;default:pending"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
