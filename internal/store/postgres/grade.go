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

type GradeRepo struct {
	pool *pgxpool.Pool
}

func NewGradeRepo(pool *pgxpool.Pool) *GradeRepo {
	return &GradeRepo{pool: pool}
}

func (r *GradeRepo) Create(ctx context.Context, g *domain.Grade) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO grades (id, school_id, enrollment_id, grade, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		g.ID, g.SchoolID, g.EnrollmentID, g.Grade, g.Comment, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("gradeRepo.Create: %w", err)
	}

	return nil
}

func (r *GradeRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.Grade, error) {
	var g domain.Grade

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, enrollment_id, grade, comment, created_at, updated_at
		 FROM grades WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	).Scan(&g.ID, &g.SchoolID, &g.EnrollmentID, &g.Grade, &g.Comment, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("gradeRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("gradeRepo.GetByID: %w", err)
	}

	return &g, nil
}

func (r *GradeRepo) Update(ctx context.Context, g *domain.Grade) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE grades SET grade = $1, comment = $2, updated_at = now()
		 WHERE id = $3 AND school_id = $4`,
		g.Grade, g.Comment, g.ID, g.SchoolID,
	)
	if err != nil {
		return fmt.Errorf("gradeRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gradeRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *GradeRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM grades WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	)
	if err != nil {
		return fmt.Errorf("gradeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gradeRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

const gradeRecordSelect = `
	SELECT g.id, g.school_id, g.enrollment_id, g.grade, g.comment, g.created_at, g.updated_at,
	       e.student_id, s.full_name, e.course_id, c.name, c.teacher_id
	FROM grades g
	JOIN enrollments e ON e.id = g.enrollment_id
	JOIN users s ON s.id = e.student_id
	JOIN courses c ON c.id = e.course_id`

func (r *GradeRepo) ListAll(ctx context.Context, schoolID uuid.UUID) ([]*domain.GradeRecord, error) {
	rows, err := r.pool.Query(ctx,
		gradeRecordSelect+`
		 WHERE g.school_id = $1
		 ORDER BY g.created_at DESC LIMIT 2000`,
		schoolID,
	)
	if err != nil {
		return nil, fmt.Errorf("gradeRepo.ListAll: %w", err)
	}
	defer rows.Close()

	return scanGradeRecords(rows, "gradeRepo.ListAll")
}

func (r *GradeRepo) ListByTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*domain.GradeRecord, error) {
	rows, err := r.pool.Query(ctx,
		gradeRecordSelect+`
		 WHERE g.school_id = $1 AND c.teacher_id = $2
		 ORDER BY g.created_at DESC LIMIT 2000`,
		schoolID, teacherID,
	)
	if err != nil {
		return nil, fmt.Errorf("gradeRepo.ListByTeacher: %w", err)
	}
	defer rows.Close()

	return scanGradeRecords(rows, "gradeRepo.ListByTeacher")
}

func (r *GradeRepo) ListByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]*domain.GradeRecord, error) {
	rows, err := r.pool.Query(ctx,
		gradeRecordSelect+`
		 WHERE g.school_id = $1 AND e.student_id = $2
		 ORDER BY g.created_at DESC LIMIT 2000`,
		schoolID, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("gradeRepo.ListByStudent: %w", err)
	}
	defer rows.Close()

	return scanGradeRecords(rows, "gradeRepo.ListByStudent")
}

func scanGradeRecords(rows pgx.Rows, op string) ([]*domain.GradeRecord, error) {
	var records []*domain.GradeRecord
	for rows.Next() {
		var rec domain.GradeRecord

		err := rows.Scan(
			&rec.ID, &rec.SchoolID, &rec.EnrollmentID, &rec.Grade.Grade, &rec.Comment, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.StudentID, &rec.StudentName, &rec.CourseID, &rec.CourseName, &rec.TeacherID,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}
