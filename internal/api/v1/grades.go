package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/policy"
)

type CreateGradeInput struct {
	Body struct {
		EnrollmentID uuid.UUID `json:"enrollment_id" doc:"Graded enrollment"`
		Grade        int       `json:"grade" minimum:"0" maximum:"100" doc:"Score out of 100"`
		Comment      string    `json:"comment,omitempty" maxLength:"2000" doc:"Free-form remark"`
	}
}

type GradeOutput struct {
	Body domain.Grade
}

type ListGradesOutput struct {
	Body []*domain.GradeRecord
}

type UpdateGradeInput struct {
	ID   uuid.UUID `path:"id" doc:"Grade ID"`
	Body struct {
		Grade   *int    `json:"grade,omitempty" minimum:"0" maximum:"100" doc:"New score"`
		Comment *string `json:"comment,omitempty" maxLength:"2000" doc:"New remark"`
	}
}

type DeleteGradeInput struct {
	ID uuid.UUID `path:"id" doc:"Grade ID"`
}

// RegisterGradeRoutes registers grade management. Listing is filtered by the
// caller's role: admins see the whole school, teachers their own courses,
// students only their own records. Mutations are ownership-checked through
// the enrollment's course.
func RegisterGradeRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-grade",
		Method:      http.MethodPost,
		Path:        "/grades",
		Summary:     "Record a grade",
		Tags:        []string{"Grades"},
	}, func(ctx context.Context, input *CreateGradeInput) (*GradeOutput, error) {
		schoolID, _, role, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}
		if !policy.For(role).Can(policy.ViewGrades, policy.ActionCreateGrade) {
			return nil, huma.Error403Forbidden("not allowed to record grades")
		}

		enrollment, err := gradableEnrollment(ctx, store, schoolID, input.Body.EnrollmentID)
		if err != nil {
			return nil, err
		}

		grade, err := domain.NewGrade(schoolID, enrollment.ID, input.Body.Grade, input.Body.Comment)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		if err := store.Grades().Create(ctx, grade); err != nil {
			return nil, huma.Error500InternalServerError("failed to record grade", err)
		}

		return &GradeOutput{Body: *grade}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-grades",
		Method:      http.MethodGet,
		Path:        "/grades",
		Summary:     "List grades visible to the caller",
		Tags:        []string{"Grades"},
	}, func(ctx context.Context, _ *struct{}) (*ListGradesOutput, error) {
		schoolID, userID, role, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		var records []*domain.GradeRecord
		switch role {
		case domain.RoleSchoolAdmin:
			records, err = store.Grades().ListAll(ctx, schoolID)
		case domain.RoleTeacher:
			records, err = store.Grades().ListByTeacher(ctx, schoolID, userID)
		case domain.RoleStudent:
			records, err = store.Grades().ListByStudent(ctx, schoolID, userID)
		default:
			return nil, huma.Error403Forbidden("no grade visibility for this role")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list grades", err)
		}

		return &ListGradesOutput{Body: records}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-grade",
		Method:      http.MethodPatch,
		Path:        "/grades/{id}",
		Summary:     "Update a grade",
		Tags:        []string{"Grades"},
	}, func(ctx context.Context, input *UpdateGradeInput) (*GradeOutput, error) {
		schoolID, _, role, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}
		if !policy.For(role).Can(policy.ViewGrades, policy.ActionEditGrade) {
			return nil, huma.Error403Forbidden("not allowed to edit grades")
		}

		grade, err := store.Grades().GetByID(ctx, schoolID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("grade not found")
			}
			return nil, huma.Error500InternalServerError("failed to load grade", err)
		}
		if _, err := gradableEnrollment(ctx, store, schoolID, grade.EnrollmentID); err != nil {
			return nil, err
		}

		if input.Body.Grade != nil {
			if *input.Body.Grade < 0 || *input.Body.Grade > 100 {
				return nil, huma.Error422UnprocessableEntity(domain.ErrGradeOutOfRange.Error())
			}
			grade.Grade = *input.Body.Grade
		}
		if input.Body.Comment != nil {
			grade.Comment = *input.Body.Comment
		}
		if err := store.Grades().Update(ctx, grade); err != nil {
			return nil, huma.Error500InternalServerError("failed to update grade", err)
		}

		return &GradeOutput{Body: *grade}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-grade",
		Method:      http.MethodDelete,
		Path:        "/grades/{id}",
		Summary:     "Delete a grade",
		Tags:        []string{"Grades"},
	}, func(ctx context.Context, input *DeleteGradeInput) (*struct{}, error) {
		schoolID, _, role, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}
		if !policy.For(role).Can(policy.ViewGrades, policy.ActionDeleteGrade) {
			return nil, huma.Error403Forbidden("not allowed to delete grades")
		}

		grade, err := store.Grades().GetByID(ctx, schoolID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("grade not found")
			}
			return nil, huma.Error500InternalServerError("failed to load grade", err)
		}
		if _, err := gradableEnrollment(ctx, store, schoolID, grade.EnrollmentID); err != nil {
			return nil, err
		}

		if err := store.Grades().Delete(ctx, schoolID, grade.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete grade", err)
		}

		return nil, nil
	})
}

// gradableEnrollment loads an enrollment and verifies the caller may grade
// it, which follows ownership of the enrollment's course.
func gradableEnrollment(ctx context.Context, store DataStore, schoolID uuid.UUID, enrollmentID uuid.UUID) (*domain.Enrollment, error) {
	enrollment, err := store.Enrollments().GetByID(ctx, schoolID, enrollmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("enrollment not found")
		}
		return nil, huma.Error500InternalServerError("failed to load enrollment", err)
	}

	if _, err := mutableCourse(ctx, store, enrollment.CourseID); err != nil {
		return nil, err
	}

	return enrollment, nil
}
