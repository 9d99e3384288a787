package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencampus/campus/internal/domain"
)

type TimetableRepo struct {
	pool *pgxpool.Pool
}

func NewTimetableRepo(pool *pgxpool.Pool) *TimetableRepo {
	return &TimetableRepo{pool: pool}
}

func (r *TimetableRepo) Create(ctx context.Context, s *domain.TimetableSlot) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO timetable_slots (id, school_id, day, time, subject, teacher_name, room, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.SchoolID, s.Day, s.Time, s.Subject, s.TeacherName, s.Room, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("timetableRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("timetableRepo.Create: %w", err)
	}

	return nil
}

func (r *TimetableRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.TimetableSlot, error) {
	var s domain.TimetableSlot

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, day, time, subject, teacher_name, room, updated_at
		 FROM timetable_slots WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	).Scan(&s.ID, &s.SchoolID, &s.Day, &s.Time, &s.Subject, &s.TeacherName, &s.Room, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("timetableRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("timetableRepo.GetByID: %w", err)
	}

	return &s, nil
}

func (r *TimetableRepo) GetByDayTime(ctx context.Context, schoolID uuid.UUID, day, at string) (*domain.TimetableSlot, error) {
	var s domain.TimetableSlot

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, day, time, subject, teacher_name, room, updated_at
		 FROM timetable_slots WHERE school_id = $1 AND day = $2 AND time = $3`,
		schoolID, day, at,
	).Scan(&s.ID, &s.SchoolID, &s.Day, &s.Time, &s.Subject, &s.TeacherName, &s.Room, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("timetableRepo.GetByDayTime: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("timetableRepo.GetByDayTime: %w", err)
	}

	return &s, nil
}

func (r *TimetableRepo) Update(ctx context.Context, s *domain.TimetableSlot) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE timetable_slots SET day = $1, time = $2, subject = $3, teacher_name = $4, room = $5, updated_at = now()
		 WHERE id = $6 AND school_id = $7`,
		s.Day, s.Time, s.Subject, s.TeacherName, s.Room, s.ID, s.SchoolID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("timetableRepo.Update: %w", domain.ErrConflict)
		}
		return fmt.Errorf("timetableRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("timetableRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TimetableRepo) List(ctx context.Context, schoolID uuid.UUID) ([]*domain.TimetableSlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, day, time, subject, teacher_name, room, updated_at
		 FROM timetable_slots WHERE school_id = $1
		 ORDER BY day, time LIMIT 2000`,
		schoolID,
	)
	if err != nil {
		return nil, fmt.Errorf("timetableRepo.List: %w", err)
	}
	defer rows.Close()

	var slots []*domain.TimetableSlot
	for rows.Next() {
		var s domain.TimetableSlot

		err = rows.Scan(&s.ID, &s.SchoolID, &s.Day, &s.Time, &s.Subject, &s.TeacherName, &s.Room, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("timetableRepo.List: scan: %w", err)
		}

		slots = append(slots, &s)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("timetableRepo.List: %w", err)
	}

	return slots, nil
}

func (r *TimetableRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM timetable_slots WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	)
	if err != nil {
		return fmt.Errorf("timetableRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("timetableRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
