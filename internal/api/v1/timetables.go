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

type CreateSlotInput struct {
	Body struct {
		Day     string `json:"day" enum:"Monday,Tuesday,Wednesday,Thursday,Friday" doc:"School day"`
		Time    string `json:"time" pattern:"^[0-2][0-9]:[0-5][0-9]$" doc:"Start time, 24h HH:MM"`
		Subject string `json:"subject" minLength:"1" maxLength:"255" doc:"Subject taught"`
		Teacher string `json:"teacher,omitempty" maxLength:"255" doc:"Teacher display name"`
		Room    string `json:"room,omitempty" maxLength:"64" doc:"Room identifier"`
	}
}

type SlotOutput struct {
	Body domain.TimetableSlot
}

type ListSlotsOutput struct {
	Body []*domain.TimetableSlot
}

type UpdateSlotInput struct {
	ID   uuid.UUID `path:"id" doc:"Slot ID"`
	Body struct {
		Day     string `json:"day" enum:"Monday,Tuesday,Wednesday,Thursday,Friday" doc:"School day"`
		Time    string `json:"time" pattern:"^[0-2][0-9]:[0-5][0-9]$" doc:"Start time, 24h HH:MM"`
		Subject string `json:"subject" minLength:"1" maxLength:"255" doc:"Subject taught"`
		Teacher string `json:"teacher,omitempty" maxLength:"255" doc:"Teacher display name"`
		Room    string `json:"room,omitempty" maxLength:"64" doc:"Room identifier"`
	}
}

type DeleteSlotInput struct {
	ID uuid.UUID `path:"id" doc:"Slot ID"`
}

// RegisterTimetableRoutes registers the weekly schedule grid. Slot moves
// arrive as full updates and are reconciled against the stored grid, so a
// stale client moving a slot onto an occupied cell gets a conflict instead
// of silently overwriting.
func RegisterTimetableRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-timetable",
		Method:      http.MethodGet,
		Path:        "/timetables",
		Summary:     "List the school's timetable slots",
		Tags:        []string{"Timetables"},
	}, func(ctx context.Context, _ *struct{}) (*ListSlotsOutput, error) {
		schoolID, ok := middleware.SchoolIDFromContext(ctx)
		if !ok || schoolID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing school context")
		}

		slots, err := store.Timetables().List(ctx, schoolID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list timetable", err)
		}

		return &ListSlotsOutput{Body: slots}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-timetable-slot",
		Method:      http.MethodPost,
		Path:        "/timetables",
		Summary:     "Add a timetable slot",
		Tags:        []string{"Timetables"},
	}, func(ctx context.Context, input *CreateSlotInput) (*SlotOutput, error) {
		schoolID, err := schoolAdminScope(ctx)
		if err != nil {
			return nil, err
		}

		slot := &domain.TimetableSlot{
			ID:          uuid.New(),
			SchoolID:    schoolID,
			Day:         input.Body.Day,
			Time:        input.Body.Time,
			Subject:     input.Body.Subject,
			TeacherName: input.Body.Teacher,
			Room:        input.Body.Room,
		}
		if err := slot.Validate(); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		if err := store.Timetables().Create(ctx, slot); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("the slot is already occupied")
			}
			return nil, huma.Error500InternalServerError("failed to create slot", err)
		}

		return &SlotOutput{Body: *slot}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-timetable-slot",
		Method:      http.MethodPut,
		Path:        "/timetables/{id}",
		Summary:     "Move or edit a timetable slot",
		Tags:        []string{"Timetables"},
	}, func(ctx context.Context, input *UpdateSlotInput) (*SlotOutput, error) {
		schoolID, err := schoolAdminScope(ctx)
		if err != nil {
			return nil, err
		}

		slot, err := store.Timetables().GetByID(ctx, schoolID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("slot not found")
			}
			return nil, huma.Error500InternalServerError("failed to load slot", err)
		}

		// Reconcile the move against the current grid before writing.
		occupant, err := store.Timetables().GetByDayTime(ctx, schoolID, input.Body.Day, input.Body.Time)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check slot target", err)
		}
		if occupant != nil && occupant.ID != slot.ID {
			return nil, huma.Error409Conflict("the target slot is already occupied")
		}

		slot.Day = input.Body.Day
		slot.Time = input.Body.Time
		slot.Subject = input.Body.Subject
		slot.TeacherName = input.Body.Teacher
		slot.Room = input.Body.Room
		if err := slot.Validate(); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		if err := store.Timetables().Update(ctx, slot); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("the target slot is already occupied")
			}
			return nil, huma.Error500InternalServerError("failed to update slot", err)
		}

		return &SlotOutput{Body: *slot}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-timetable-slot",
		Method:      http.MethodDelete,
		Path:        "/timetables/{id}",
		Summary:     "Remove a timetable slot",
		Tags:        []string{"Timetables"},
	}, func(ctx context.Context, input *DeleteSlotInput) (*struct{}, error) {
		schoolID, err := schoolAdminScope(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Timetables().Delete(ctx, schoolID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("slot not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete slot", err)
		}

		return nil, nil
	})
}
