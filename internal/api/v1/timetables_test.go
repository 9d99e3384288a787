package v1_test

import (
	"context"
	"encoding/json"
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
// TestCreateTimetableSlot
// ---------------------------------------------------------------------------

func TestCreateTimetableSlot(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()
	adminCtx := sessionCtx(schoolID, uuid.New(), domain.RoleSchoolAdmin)

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				createFunc: func(_ context.Context, s *domain.TimetableSlot) error {
					createCalled = true
					assert.Equal(t, schoolID, s.SchoolID)
					assert.Equal(t, "Monday", s.Day)
					assert.Equal(t, "09:00", s.Time)
					return nil
				},
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.PostCtx(adminCtx, "/timetables", map[string]any{
			"day":     "Monday",
			"time":    "09:00",
			"subject": "Algebra",
			"teacher": "Ms. Lee",
			"room":    "202",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled, "store.Timetables().Create must be invoked")
	})

	t.Run("occupied_cell", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				createFunc: func(_ context.Context, _ *domain.TimetableSlot) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.PostCtx(adminCtx, "/timetables", map[string]any{
			"day":     "Monday",
			"time":    "09:00",
			"subject": "Algebra",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("teacher_cannot_edit_grid", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTimetableRoutes(api, &mockDataStore{})

		ctx := sessionCtx(schoolID, uuid.New(), domain.RoleTeacher)
		resp := api.PostCtx(ctx, "/timetables", map[string]any{
			"day":     "Monday",
			"time":    "09:00",
			"subject": "Algebra",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestMoveTimetableSlot
// ---------------------------------------------------------------------------

func TestMoveTimetableSlot(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()
	slotID := uuid.New()
	adminCtx := sessionCtx(schoolID, uuid.New(), domain.RoleSchoolAdmin)

	slot := func() *domain.TimetableSlot {
		return &domain.TimetableSlot{
			ID:       slotID,
			SchoolID: schoolID,
			Day:      "Monday",
			Time:     "09:00",
			Subject:  "Algebra",
		}
	}

	t.Run("move_to_free_cell", func(t *testing.T) {
		t.Parallel()

		var updated *domain.TimetableSlot
		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				getByIDFunc: func(_ context.Context, _, id uuid.UUID) (*domain.TimetableSlot, error) {
					assert.Equal(t, slotID, id)
					return slot(), nil
				},
				getByDayTimeFunc: func(_ context.Context, _ uuid.UUID, day, at string) (*domain.TimetableSlot, error) {
					assert.Equal(t, "Tuesday", day)
					assert.Equal(t, "10:00", at)
					return nil, domain.ErrNotFound
				},
				updateFunc: func(_ context.Context, s *domain.TimetableSlot) error {
					updated = s
					return nil
				},
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.PutCtx(adminCtx, "/timetables/"+slotID.String(), map[string]any{
			"day":     "Tuesday",
			"time":    "10:00",
			"subject": "Algebra",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "Tuesday", updated.Day)
		assert.Equal(t, "10:00", updated.Time)
	})

	t.Run("move_onto_occupied_cell", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.TimetableSlot, error) {
					return slot(), nil
				},
				getByDayTimeFunc: func(_ context.Context, _ uuid.UUID, _, _ string) (*domain.TimetableSlot, error) {
					return &domain.TimetableSlot{ID: uuid.New(), Day: "Tuesday", Time: "10:00", Subject: "Biology"}, nil
				},
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.PutCtx(adminCtx, "/timetables/"+slotID.String(), map[string]any{
			"day":     "Tuesday",
			"time":    "10:00",
			"subject": "Algebra",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("edit_in_place_is_not_a_conflict", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.TimetableSlot, error) {
					return slot(), nil
				},
				getByDayTimeFunc: func(_ context.Context, _ uuid.UUID, _, _ string) (*domain.TimetableSlot, error) {
					// The occupant is the slot being edited.
					return slot(), nil
				},
				updateFunc: func(_ context.Context, _ *domain.TimetableSlot) error { return nil },
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.PutCtx(adminCtx, "/timetables/"+slotID.String(), map[string]any{
			"day":     "Monday",
			"time":    "09:00",
			"subject": "Algebra II",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		var body domain.TimetableSlot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Algebra II", body.Subject)
	})

	t.Run("unknown_slot", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.TimetableSlot, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.PutCtx(adminCtx, "/timetables/"+uuid.NewString(), map[string]any{
			"day":     "Monday",
			"time":    "09:00",
			"subject": "Algebra",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestListTimetable
// ---------------------------------------------------------------------------

func TestListTimetable(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()

	t.Run("any_member_reads_grid", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timetables: &mockTimetableRepo{
				listFunc: func(_ context.Context, sid uuid.UUID) ([]*domain.TimetableSlot, error) {
					assert.Equal(t, schoolID, sid)
					return []*domain.TimetableSlot{
						{ID: uuid.New(), Day: "Monday", Time: "09:00", Subject: "Algebra"},
					}, nil
				},
			},
		}
		v1.RegisterTimetableRoutes(api, store)

		resp := api.GetCtx(sessionCtx(schoolID, uuid.New(), domain.RoleStudent), "/timetables")

		require.Equal(t, http.StatusOK, resp.Code)
		var body []domain.TimetableSlot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "Algebra", body[0].Subject)
	})

	t.Run("operator_session_has_no_grid", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTimetableRoutes(api, &mockDataStore{})

		resp := api.GetCtx(operatorCtx(uuid.New()), "/timetables")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
