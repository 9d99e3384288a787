package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/campus/internal/domain"
)

func TestRoleValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role domain.Role
		want bool
	}{
		{domain.RoleSystemAdmin, true},
		{domain.RoleSchoolAdmin, true},
		{domain.RoleTeacher, true},
		{domain.RoleStudent, true},
		{domain.Role("superuser"), false},
		{domain.Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

func TestUserIdentityProjection(t *testing.T) {
	t.Parallel()

	u := &domain.User{
		ID:           uuid.New(),
		SchoolID:     uuid.New(),
		Email:        "ada@north.example",
		FullName:     "Ada Lovelace",
		PasswordHash: "deadbeef$cafe",
		Role:         domain.RoleTeacher,
	}

	id := u.Identity()

	assert.Equal(t, u.ID, id.ID)
	assert.Equal(t, u.Email, id.Email)
	assert.Equal(t, u.FullName, id.FullName)
	assert.Equal(t, u.Role, id.Role)
}

func TestNewSchool(t *testing.T) {
	t.Parallel()

	t.Run("defaults_branding", func(t *testing.T) {
		t.Parallel()

		s, err := domain.NewSchool("Northside High", "north.campus.example", "", "", "")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, "#4F46E5", s.PrimaryColor)
		assert.Equal(t, "#4338CA", s.SecondaryColor)
		assert.False(t, s.CreatedAt.IsZero())
	})

	t.Run("missing_name", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewSchool("", "north.campus.example", "", "", "")
		assert.Error(t, err)
	})

	t.Run("missing_domain", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewSchool("Northside High", "", "", "", "")
		assert.Error(t, err)
	})
}

func TestNewCourse(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()
	teacherID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		c, err := domain.NewCourse(schoolID, "Mathematics 101", "Intro algebra", teacherID)
		require.NoError(t, err)
		assert.Equal(t, schoolID, c.SchoolID)
		assert.Equal(t, teacherID, c.TeacherID)
	})

	t.Run("nil_school", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCourse(uuid.Nil, "Mathematics 101", "", teacherID)
		assert.Error(t, err)
	})

	t.Run("nil_teacher", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCourse(schoolID, "Mathematics 101", "", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestNewGrade(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()
	enrollmentID := uuid.New()

	tests := []struct {
		name    string
		score   int
		wantErr error
	}{
		{name: "zero", score: 0},
		{name: "hundred", score: 100},
		{name: "mid", score: 85},
		{name: "negative", score: -1, wantErr: domain.ErrGradeOutOfRange},
		{name: "over", score: 101, wantErr: domain.ErrGradeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := domain.NewGrade(schoolID, enrollmentID, tt.score, "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.score, g.Grade)
		})
	}
}

func TestTimetableSlotValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		day  string
		at   string
		ok   bool
	}{
		{name: "monday_morning", day: "Monday", at: "09:00", ok: true},
		{name: "friday_afternoon", day: "Friday", at: "14:30", ok: true},
		{name: "weekend", day: "Saturday", at: "09:00", ok: false},
		{name: "bad_time", day: "Monday", at: "9am", ok: false},
		{name: "empty", day: "", at: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &domain.TimetableSlot{Day: tt.day, Time: tt.at, Subject: "Physics"}
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidSlot)
			}
		})
	}
}
