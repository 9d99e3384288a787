package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/policy"
	"github.com/opencampus/campus/internal/server/middleware"
)

type CreateCourseInput struct {
	Body struct {
		Name        string    `json:"name" minLength:"1" maxLength:"255" doc:"Course name"`
		Description string    `json:"description,omitempty" maxLength:"2000" doc:"Course description"`
		TeacherID   uuid.UUID `json:"teacher_id,omitempty" doc:"Assigned teacher; defaults to the caller for teachers"`
	}
}

type CourseOutput struct {
	Body domain.Course
}

type ListCoursesOutput struct {
	Body []*domain.Course
}

type GetCourseInput struct {
	ID uuid.UUID `path:"id" doc:"Course ID"`
}

type UpdateCourseInput struct {
	ID   uuid.UUID `path:"id" doc:"Course ID"`
	Body struct {
		Name        string `json:"name,omitempty" maxLength:"255" doc:"New course name"`
		Description string `json:"description,omitempty" maxLength:"2000" doc:"New description"`
	}
}

type DeleteCourseInput struct {
	ID uuid.UUID `path:"id" doc:"Course ID"`
}

type AddMaterialInput struct {
	CourseID uuid.UUID `path:"id" doc:"Course ID"`
	Body     struct {
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Material display name"`
		FilePath string `json:"file_path" minLength:"1" maxLength:"1024" doc:"Stored file path"`
		FileType string `json:"file_type,omitempty" maxLength:"64" doc:"MIME type or extension"`
		Size     int64  `json:"size,omitempty" minimum:"0" doc:"File size in bytes"`
	}
}

type MaterialOutput struct {
	Body domain.CourseMaterial
}

type ListMaterialsInput struct {
	CourseID uuid.UUID `path:"id" doc:"Course ID"`
}

type ListMaterialsOutput struct {
	Body []*domain.CourseMaterial
}

type DeleteMaterialInput struct {
	ID uuid.UUID `path:"id" doc:"Material ID"`
}

// RegisterCourseRoutes registers course CRUD and course material metadata
// management. Mutations are gated per row: teachers may only touch their own
// courses while school admins may touch any course in their school.
func RegisterCourseRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-course",
		Method:      http.MethodPost,
		Path:        "/courses",
		Summary:     "Create a course",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *CreateCourseInput) (*CourseOutput, error) {
		schoolID, userID, role, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}
		if !policy.For(role).Can(policy.ViewCourses, policy.ActionCreateCourse) {
			return nil, huma.Error403Forbidden("not allowed to create courses")
		}

		teacherID := input.Body.TeacherID
		if role == domain.RoleTeacher {
			// Teachers always own the courses they create.
			teacherID = userID
		}
		if teacherID == uuid.Nil {
			return nil, huma.Error422UnprocessableEntity("teacher_id is required")
		}

		course, err := domain.NewCourse(schoolID, input.Body.Name, input.Body.Description, teacherID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		if err := store.Courses().Create(ctx, course); err != nil {
			return nil, huma.Error500InternalServerError("failed to create course", err)
		}

		return &CourseOutput{Body: *course}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-courses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List the school's courses",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, _ *struct{}) (*ListCoursesOutput, error) {
		schoolID, _, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		courses, err := store.Courses().List(ctx, schoolID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list courses", err)
		}

		return &ListCoursesOutput{Body: courses}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-course",
		Method:      http.MethodGet,
		Path:        "/courses/{id}",
		Summary:     "Get a course",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *GetCourseInput) (*CourseOutput, error) {
		schoolID, _, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		course, err := store.Courses().GetByID(ctx, schoolID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("course not found")
			}
			return nil, huma.Error500InternalServerError("failed to load course", err)
		}

		return &CourseOutput{Body: *course}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-course",
		Method:      http.MethodPatch,
		Path:        "/courses/{id}",
		Summary:     "Update a course",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *UpdateCourseInput) (*CourseOutput, error) {
		course, err := mutableCourse(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}

		if input.Body.Name != "" {
			course.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			course.Description = input.Body.Description
		}
		if err := store.Courses().Update(ctx, course); err != nil {
			return nil, huma.Error500InternalServerError("failed to update course", err)
		}

		return &CourseOutput{Body: *course}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-course",
		Method:      http.MethodDelete,
		Path:        "/courses/{id}",
		Summary:     "Delete a course",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *DeleteCourseInput) (*struct{}, error) {
		course, err := mutableCourse(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}

		if err := store.Courses().Delete(ctx, course.SchoolID, course.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("course not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete course", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-material",
		Method:      http.MethodPost,
		Path:        "/courses/{id}/materials",
		Summary:     "Attach a material to a course",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *AddMaterialInput) (*MaterialOutput, error) {
		_, userID, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}
		course, err := mutableCourse(ctx, store, input.CourseID)
		if err != nil {
			return nil, err
		}

		material := &domain.CourseMaterial{
			ID:         uuid.New(),
			SchoolID:   course.SchoolID,
			CourseID:   course.ID,
			Name:       input.Body.Name,
			FilePath:   input.Body.FilePath,
			FileType:   input.Body.FileType,
			Size:       input.Body.Size,
			UploadedBy: userID,
		}
		if err := store.Materials().Create(ctx, material); err != nil {
			return nil, huma.Error500InternalServerError("failed to add material", err)
		}

		return &MaterialOutput{Body: *material}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-materials",
		Method:      http.MethodGet,
		Path:        "/courses/{id}/materials",
		Summary:     "List a course's materials",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *ListMaterialsInput) (*ListMaterialsOutput, error) {
		schoolID, _, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Courses().GetByID(ctx, schoolID, input.CourseID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("course not found")
			}
			return nil, huma.Error500InternalServerError("failed to load course", err)
		}

		materials, err := store.Materials().ListByCourse(ctx, schoolID, input.CourseID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list materials", err)
		}

		return &ListMaterialsOutput{Body: materials}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-material",
		Method:      http.MethodDelete,
		Path:        "/materials/{id}",
		Summary:     "Remove a material",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *DeleteMaterialInput) (*struct{}, error) {
		schoolID, _, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		material, err := store.Materials().GetByID(ctx, schoolID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("material not found")
			}
			return nil, huma.Error500InternalServerError("failed to load material", err)
		}

		// Ownership follows the parent course.
		if _, err := mutableCourse(ctx, store, material.CourseID); err != nil {
			return nil, err
		}

		if err := store.Materials().Delete(ctx, schoolID, material.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete material", err)
		}

		return nil, nil
	})
}

// tenantScope extracts the authenticated caller's school, user and role. It
// rejects operator sessions, which carry no school.
func tenantScope(ctx context.Context) (uuid.UUID, uuid.UUID, domain.Role, error) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, "", huma.Error401Unauthorized("authentication required")
	}
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, "", huma.Error401Unauthorized("authentication required")
	}
	schoolID, ok := middleware.SchoolIDFromContext(ctx)
	if !ok || schoolID == uuid.Nil {
		return uuid.Nil, uuid.Nil, "", huma.Error403Forbidden("missing school context")
	}
	return schoolID, userID, role, nil
}

// mutableCourse loads a course and verifies the caller may mutate it. The
// check runs against the row's teacher, not the routing table, so a teacher
// editing a colleague's course gets 403 even though the view admits them.
func mutableCourse(ctx context.Context, store DataStore, courseID uuid.UUID) (*domain.Course, error) {
	schoolID, userID, role, err := tenantScope(ctx)
	if err != nil {
		return nil, err
	}

	course, err := store.Courses().GetByID(ctx, schoolID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("course not found")
		}
		return nil, huma.Error500InternalServerError("failed to load course", err)
	}

	if !policy.CanMutateCourse(role, userID, course.TeacherID) {
		return nil, huma.Error403Forbidden("not allowed to modify this course")
	}

	return course, nil
}
