package v1_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/opencampus/campus/internal/api/v1"
	"github.com/opencampus/campus/internal/domain"
)

// ---------------------------------------------------------------------------
// TestCreateEnrollment
// ---------------------------------------------------------------------------

func TestCreateEnrollment(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()
	teacherID := uuid.New()
	courseID := uuid.New()
	studentID := uuid.New()

	rosterStore := func(enrollRepo *mockEnrollmentRepo) *mockDataStore {
		return &mockDataStore{
			courses: &mockCourseRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Course, error) {
					return &domain.Course{ID: courseID, SchoolID: schoolID, TeacherID: teacherID}, nil
				},
			},
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, _, uid uuid.UUID) (*domain.User, error) {
					return &domain.User{ID: uid, SchoolID: schoolID, Role: domain.RoleStudent}, nil
				},
			},
			enrollments: enrollRepo,
		}
	}

	t.Run("course_teacher_enrolls_student", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		store := rosterStore(&mockEnrollmentRepo{
			createFunc: func(_ context.Context, e *domain.Enrollment) error {
				createCalled = true
				assert.Equal(t, studentID, e.StudentID)
				assert.Equal(t, courseID, e.CourseID)
				assert.Equal(t, schoolID, e.SchoolID)
				return nil
			},
		})
		v1.RegisterEnrollmentRoutes(api, store)

		ctx := sessionCtx(schoolID, teacherID, domain.RoleTeacher)
		resp := api.PostCtx(ctx, "/enrollments", map[string]any{
			"student_id": studentID.String(),
			"course_id":  courseID.String(),
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled, "store.Enrollments().Create must be invoked")
	})

	t.Run("duplicate_enrollment", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := rosterStore(&mockEnrollmentRepo{
			createFunc: func(_ context.Context, _ *domain.Enrollment) error {
				return domain.ErrConflict
			},
		})
		v1.RegisterEnrollmentRoutes(api, store)

		ctx := sessionCtx(schoolID, teacherID, domain.RoleTeacher)
		resp := api.PostCtx(ctx, "/enrollments", map[string]any{
			"student_id": studentID.String(),
			"course_id":  courseID.String(),
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("only_students_can_be_enrolled", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := rosterStore(&mockEnrollmentRepo{})
		store.users = &mockUserRepo{
			getByIDFunc: func(_ context.Context, _, uid uuid.UUID) (*domain.User, error) {
				return &domain.User{ID: uid, SchoolID: schoolID, Role: domain.RoleTeacher}, nil
			},
		}
		v1.RegisterEnrollmentRoutes(api, store)

		ctx := sessionCtx(schoolID, teacherID, domain.RoleTeacher)
		resp := api.PostCtx(ctx, "/enrollments", map[string]any{
			"student_id": uuid.NewString(),
			"course_id":  courseID.String(),
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("other_teacher_is_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := rosterStore(&mockEnrollmentRepo{})
		v1.RegisterEnrollmentRoutes(api, store)

		ctx := sessionCtx(schoolID, uuid.New(), domain.RoleTeacher)
		resp := api.PostCtx(ctx, "/enrollments", map[string]any{
			"student_id": studentID.String(),
			"course_id":  courseID.String(),
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestDeleteEnrollment
// ---------------------------------------------------------------------------

func TestDeleteEnrollment(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()
	teacherID := uuid.New()
	courseID := uuid.New()
	studentID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var deleteCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			courses: &mockCourseRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Course, error) {
					return &domain.Course{ID: courseID, SchoolID: schoolID, TeacherID: teacherID}, nil
				},
			},
			enrollments: &mockEnrollmentRepo{
				deleteFunc: func(_ context.Context, sid, uid, cid uuid.UUID) error {
					deleteCalled = true
					assert.Equal(t, schoolID, sid)
					assert.Equal(t, studentID, uid)
					assert.Equal(t, courseID, cid)
					return nil
				},
			},
		}
		v1.RegisterEnrollmentRoutes(api, store)

		ctx := sessionCtx(schoolID, teacherID, domain.RoleTeacher)
		resp := api.DeleteCtx(ctx, "/enrollments?student_id="+studentID.String()+"&course_id="+courseID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleteCalled, "store.Enrollments().Delete must be invoked")
	})

	t.Run("unknown_enrollment", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			courses: &mockCourseRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Course, error) {
					return &domain.Course{ID: courseID, SchoolID: schoolID, TeacherID: teacherID}, nil
				},
			},
			enrollments: &mockEnrollmentRepo{
				deleteFunc: func(_ context.Context, _, _, _ uuid.UUID) error {
					return domain.ErrNotFound
				},
			},
		}
		v1.RegisterEnrollmentRoutes(api, store)

		ctx := sessionCtx(schoolID, teacherID, domain.RoleTeacher)
		resp := api.DeleteCtx(ctx, "/enrollments?student_id="+uuid.NewString()+"&course_id="+courseID.String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
