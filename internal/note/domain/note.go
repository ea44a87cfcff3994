package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrInvalidNote  = errors.New("invalid note")
)

const DefaultColor = "#ffffff"

// Attachment describes an image stored for a note
type Attachment struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Attachments is stored as a JSON text column
type Attachments []Attachment

// Value implements driver.Valuer
func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = Attachments{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported attachments value %T", value)
	}
	if len(bytes) == 0 {
		*a = Attachments{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Note is a free-form memo with optional images
type Note struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	UserID    string      `json:"userId" gorm:"index;not null"`
	Title     string      `json:"title" gorm:"not null"`
	Content   string      `json:"content"`
	Images    Attachments `json:"images" gorm:"type:text"`
	Color     string      `json:"color" gorm:"default:#ffffff"`
	IsPinned  bool        `json:"isPinned" gorm:"index"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Filenames lists the stored file names.
func (a Attachments) Filenames() []string {
	names := make([]string, 0, len(a))
	for _, img := range a {
		names = append(names, img.Filename)
	}
	return names
}
