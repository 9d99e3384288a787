package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Grade struct {
	ID           uuid.UUID `json:"id"`
	SchoolID     uuid.UUID `json:"school_id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	Grade        int       `json:"grade"` // 0..100
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var ErrGradeOutOfRange = errors.New("grade: must be between 0 and 100")

// NewGrade creates a Grade with a range-checked score.
func NewGrade(schoolID, enrollmentID uuid.UUID, score int, comment string) (*Grade, error) {
	if schoolID == uuid.Nil {
		return nil, errors.New("grade: school ID is required")
	}
	if enrollmentID == uuid.Nil {
		return nil, errors.New("grade: enrollment ID is required")
	}
	if score < 0 || score > 100 {
		return nil, ErrGradeOutOfRange
	}
	now := time.Now()
	return &Grade{
		ID:           uuid.New(),
		SchoolID:     schoolID,
		EnrollmentID: enrollmentID,
		Grade:        score,
		Comment:      comment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GradeRecord is a Grade joined with its enrollment's student and course,
// which is the shape the grades view renders.
type GradeRecord struct {
	Grade
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseName  string    `json:"course_name"`
	TeacherID   uuid.UUID `json:"teacher_id"`
}

type GradeRepository interface {
	Create(ctx context.Context, g *Grade) error
	GetByID(ctx context.Context, schoolID, id uuid.UUID) (*Grade, error)
	Update(ctx context.Context, g *Grade) error
	Delete(ctx context.Context, schoolID, id uuid.UUID) error

	// Joined listings, each scoped to the caller's visibility.
	ListAll(ctx context.Context, schoolID uuid.UUID) ([]*GradeRecord, error)
	ListByTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*GradeRecord, error)
	ListByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]*GradeRecord, error)
}
