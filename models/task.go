package models

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultColor is used when a task is saved without a color
	DefaultColor = "#f0f0f0"
)

// Palette lists the colors a task can be tagged with
var Palette = []string{"#f0f0f0", "#FFD1DC", "#D4F1F4", "#D9F7BE", "#FFF3B0", "#E2D1F9"}

type Task struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Teacher   string    `json:"teacher"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Color     string    `json:"color"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DueAt combines the due date and the due time (seconds zeroed) in loc
func (t Task) DueAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	day, err := time.ParseInLocation(DateLayout, t.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: %w", t.Date, err)
	}
	clock, err := time.Parse(TimeLayout, t.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due time %q: %w", t.Time, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// IsOverdue reports whether a pending task's due instant is not after now
func (t Task) IsOverdue(now time.Time, loc *time.Location) bool {
	if t.Completed {
		return false
	}
	due, err := t.DueAt(loc)
	if err != nil {
		return false
	}
	return !due.After(now)
}

// Weekday returns the day of the week of the due date
func (t Task) Weekday() (time.Weekday, error) {
	day, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Sunday, err
	}
	return day.Weekday(), nil
}

type CreateTaskRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Subject string `json:"subject" validate:"max=100"`
	Teacher string `json:"teacher" validate:"max=100"`
	Date    string `json:"date" validate:"required,dateformat"`
	Time    string `json:"time" validate:"required,clock"`
	Color   string `json:"color" validate:"omitempty,taskcolor"`
}

type UpdateTaskRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Subject   string `json:"subject" validate:"max=100"`
	Teacher   string `json:"teacher" validate:"max=100"`
	Date      string `json:"date" validate:"required,dateformat"`
	Time      string `json:"time" validate:"required,clock"`
	Color     string `json:"color" validate:"omitempty,taskcolor"`
	Completed bool   `json:"completed"`
}

type ReminderActionRequest struct {
	Action string `json:"action" validate:"required,oneof=complete reschedule dismiss"`
}

type OverdueActionRequest struct {
	Action string `json:"action" validate:"required,oneof=complete reschedule ignore"`
}

type UpdatePreferencesRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}

type Preferences struct {
	Theme string `json:"theme"`
}
