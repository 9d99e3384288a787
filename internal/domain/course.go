package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id"`
	SchoolID    uuid.UUID `json:"school_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCourse creates a Course with validated required fields.
func NewCourse(schoolID uuid.UUID, name, description string, teacherID uuid.UUID) (*Course, error) {
	if schoolID == uuid.Nil {
		return nil, errors.New("course: school ID is required")
	}
	if name == "" {
		return nil, errors.New("course: name is required")
	}
	if teacherID == uuid.Nil {
		return nil, errors.New("course: teacher ID is required")
	}
	return &Course{
		ID:          uuid.New(),
		SchoolID:    schoolID,
		Name:        name,
		Description: description,
		TeacherID:   teacherID,
		CreatedAt:   time.Now(),
	}, nil
}

// CourseMaterial is the metadata record for an uploaded file. File bytes are
// handled by the upload collaborator; only the record is managed here.
type CourseMaterial struct {
	ID         uuid.UUID `json:"id"`
	SchoolID   uuid.UUID `json:"school_id"`
	CourseID   uuid.UUID `json:"course_id"`
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	Size       int64     `json:"size"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	SchoolID  uuid.UUID `json:"school_id"`
	StudentID uuid.UUID `json:"student_id"`
	CourseID  uuid.UUID `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, schoolID, id uuid.UUID) (*Course, error)
	Update(ctx context.Context, c *Course) error
	List(ctx context.Context, schoolID uuid.UUID) ([]*Course, error)
	ListByTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*Course, error)
	Delete(ctx context.Context, schoolID, id uuid.UUID) error
}

type MaterialRepository interface {
	Create(ctx context.Context, m *CourseMaterial) error
	GetByID(ctx context.Context, schoolID, id uuid.UUID) (*CourseMaterial, error)
	ListByCourse(ctx context.Context, schoolID, courseID uuid.UUID) ([]*CourseMaterial, error)
	Delete(ctx context.Context, schoolID, id uuid.UUID) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	GetByID(ctx context.Context, schoolID, id uuid.UUID) (*Enrollment, error)
	ListByCourse(ctx context.Context, schoolID, courseID uuid.UUID) ([]*Enrollment, error)
	ListByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]*Enrollment, error)
	Delete(ctx context.Context, schoolID, studentID, courseID uuid.UUID) error
}
