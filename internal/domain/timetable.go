package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TimetableSlot is one cell of a school's weekly schedule. Drag-and-drop edits
// from the client arrive as full-slot updates and are reconciled against the
// stored grid: moving a slot onto an occupied (day, time) is a conflict.
type TimetableSlot struct {
	ID          uuid.UUID `json:"id"`
	SchoolID    uuid.UUID `json:"school_id"`
	Day         string    `json:"day"` // "Monday".."Friday"
	Time        string    `json:"time"` // "HH:MM", 24h
	Subject     string    `json:"subject"`
	TeacherName string    `json:"teacher"`
	Room        string    `json:"room"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var schoolDays = map[string]struct{}{
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {}, "Friday": {},
}

var ErrInvalidSlot = errors.New("timetable: invalid slot")

// Validate checks the day and time fields.
func (s *TimetableSlot) Validate() error {
	if _, ok := schoolDays[s.Day]; !ok {
		return ErrInvalidSlot
	}
	if _, err := time.Parse("15:04", s.Time); err != nil {
		return ErrInvalidSlot
	}
	return nil
}

type TimetableRepository interface {
	Create(ctx context.Context, s *TimetableSlot) error
	GetByID(ctx context.Context, schoolID, id uuid.UUID) (*TimetableSlot, error)
	// GetByDayTime returns the slot occupying (day, time), if any.
	GetByDayTime(ctx context.Context, schoolID uuid.UUID, day, at string) (*TimetableSlot, error)
	Update(ctx context.Context, s *TimetableSlot) error
	List(ctx context.Context, schoolID uuid.UUID) ([]*TimetableSlot, error)
	Delete(ctx context.Context, schoolID, id uuid.UUID) error
}
