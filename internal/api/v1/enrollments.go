package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/server/middleware"
)

type CreateEnrollmentInput struct {
	Body struct {
		StudentID uuid.UUID `json:"student_id" doc:"Student to enroll"`
		CourseID  uuid.UUID `json:"course_id" doc:"Course to enroll into"`
	}
}

type EnrollmentOutput struct {
	Body domain.Enrollment
}

type ListEnrollmentsInput struct {
	CourseID  uuid.UUID `query:"course_id" doc:"Filter by course"`
	StudentID uuid.UUID `query:"student_id" doc:"Filter by student"`
}

type ListEnrollmentsOutput struct {
	Body []*domain.Enrollment
}

type DeleteEnrollmentInput struct {
	StudentID uuid.UUID `query:"student_id" required:"true" doc:"Enrolled student"`
	CourseID  uuid.UUID `query:"course_id" required:"true" doc:"Enrolled course"`
}

// RegisterEnrollmentRoutes registers roster management. Teachers may manage
// the roster of their own courses; school admins of any course.
func RegisterEnrollmentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-enrollment",
		Method:      http.MethodPost,
		Path:        "/enrollments",
		Summary:     "Enroll a student in a course",
		Tags:        []string{"Enrollments"},
	}, func(ctx context.Context, input *CreateEnrollmentInput) (*EnrollmentOutput, error) {
		course, err := mutableCourse(ctx, store, input.Body.CourseID)
		if err != nil {
			return nil, err
		}

		student, err := store.Users().GetByID(ctx, course.SchoolID, input.Body.StudentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("student not found")
			}
			return nil, huma.Error500InternalServerError("failed to load student", err)
		}
		if student.Role != domain.RoleStudent {
			return nil, huma.Error422UnprocessableEntity("only students can be enrolled")
		}

		enrollment := &domain.Enrollment{
			ID:        uuid.New(),
			SchoolID:  course.SchoolID,
			StudentID: student.ID,
			CourseID:  course.ID,
		}
		if err := store.Enrollments().Create(ctx, enrollment); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("student is already enrolled")
			}
			return nil, huma.Error500InternalServerError("failed to create enrollment", err)
		}

		return &EnrollmentOutput{Body: *enrollment}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-enrollments",
		Method:      http.MethodGet,
		Path:        "/enrollments",
		Summary:     "List enrollments by course or student",
		Tags:        []string{"Enrollments"},
	}, func(ctx context.Context, input *ListEnrollmentsInput) (*ListEnrollmentsOutput, error) {
		schoolID, ok := middleware.SchoolIDFromContext(ctx)
		if !ok || schoolID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing school context")
		}

		var (
			enrollments []*domain.Enrollment
			err         error
		)
		switch {
		case input.CourseID != uuid.Nil:
			enrollments, err = store.Enrollments().ListByCourse(ctx, schoolID, input.CourseID)
		case input.StudentID != uuid.Nil:
			enrollments, err = store.Enrollments().ListByStudent(ctx, schoolID, input.StudentID)
		default:
			return nil, huma.Error422UnprocessableEntity("course_id or student_id is required")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list enrollments", err)
		}

		return &ListEnrollmentsOutput{Body: enrollments}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-enrollment",
		Method:      http.MethodDelete,
		Path:        "/enrollments",
		Summary:     "Remove a student from a course",
		Tags:        []string{"Enrollments"},
	}, func(ctx context.Context, input *DeleteEnrollmentInput) (*struct{}, error) {
		course, err := mutableCourse(ctx, store, input.CourseID)
		if err != nil {
			return nil, err
		}

		if err := store.Enrollments().Delete(ctx, course.SchoolID, input.StudentID, course.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("enrollment not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete enrollment", err)
		}

		return nil, nil
	})
}
