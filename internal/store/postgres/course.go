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

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) Create(ctx context.Context, c *domain.Course) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO courses (id, school_id, name, description, teacher_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.SchoolID, c.Name, c.Description, c.TeacherID, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("courseRepo.Create: %w", err)
	}

	return nil
}

func (r *CourseRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.Course, error) {
	var c domain.Course

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, name, description, teacher_id, created_at
		 FROM courses WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	).Scan(&c.ID, &c.SchoolID, &c.Name, &c.Description, &c.TeacherID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("courseRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("courseRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CourseRepo) Update(ctx context.Context, c *domain.Course) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET name = $1, description = $2, teacher_id = $3
		 WHERE id = $4 AND school_id = $5`,
		c.Name, c.Description, c.TeacherID, c.ID, c.SchoolID,
	)
	if err != nil {
		return fmt.Errorf("courseRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("courseRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CourseRepo) List(ctx context.Context, schoolID uuid.UUID) ([]*domain.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, name, description, teacher_id, created_at
		 FROM courses WHERE school_id = $1 ORDER BY name
		 LIMIT 1000`,
		schoolID,
	)
	if err != nil {
		return nil, fmt.Errorf("courseRepo.List: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows, "courseRepo.List")
}

func (r *CourseRepo) ListByTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*domain.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, name, description, teacher_id, created_at
		 FROM courses WHERE school_id = $1 AND teacher_id = $2 ORDER BY name
		 LIMIT 1000`,
		schoolID, teacherID,
	)
	if err != nil {
		return nil, fmt.Errorf("courseRepo.ListByTeacher: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows, "courseRepo.ListByTeacher")
}

func scanCourses(rows pgx.Rows, op string) ([]*domain.Course, error) {
	var courses []*domain.Course
	for rows.Next() {
		var c domain.Course

		err := rows.Scan(&c.ID, &c.SchoolID, &c.Name, &c.Description, &c.TeacherID, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courses, nil
}

func (r *CourseRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM courses WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	)
	if err != nil {
		return fmt.Errorf("courseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("courseRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

type MaterialRepo struct {
	pool *pgxpool.Pool
}

func NewMaterialRepo(pool *pgxpool.Pool) *MaterialRepo {
	return &MaterialRepo{pool: pool}
}

func (r *MaterialRepo) Create(ctx context.Context, m *domain.CourseMaterial) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO course_materials (id, school_id, course_id, name, file_path, file_type, size, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.SchoolID, m.CourseID, m.Name, m.FilePath, m.FileType, m.Size, m.UploadedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("materialRepo.Create: %w", err)
	}

	return nil
}

func (r *MaterialRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.CourseMaterial, error) {
	var m domain.CourseMaterial

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, course_id, name, file_path, file_type, size, uploaded_by, created_at
		 FROM course_materials WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	).Scan(&m.ID, &m.SchoolID, &m.CourseID, &m.Name, &m.FilePath, &m.FileType, &m.Size, &m.UploadedBy, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("materialRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("materialRepo.GetByID: %w", err)
	}

	return &m, nil
}

func (r *MaterialRepo) ListByCourse(ctx context.Context, schoolID, courseID uuid.UUID) ([]*domain.CourseMaterial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, course_id, name, file_path, file_type, size, uploaded_by, created_at
		 FROM course_materials WHERE school_id = $1 AND course_id = $2 ORDER BY created_at
		 LIMIT 1000`,
		schoolID, courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("materialRepo.ListByCourse: %w", err)
	}
	defer rows.Close()

	var materials []*domain.CourseMaterial
	for rows.Next() {
		var m domain.CourseMaterial

		err = rows.Scan(&m.ID, &m.SchoolID, &m.CourseID, &m.Name, &m.FilePath, &m.FileType, &m.Size, &m.UploadedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("materialRepo.ListByCourse: scan: %w", err)
		}

		materials = append(materials, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("materialRepo.ListByCourse: %w", err)
	}

	return materials, nil
}

func (r *MaterialRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM course_materials WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	)
	if err != nil {
		return fmt.Errorf("materialRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("materialRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

type EnrollmentRepo struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepo(pool *pgxpool.Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

func (r *EnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (id, school_id, student_id, course_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.SchoolID, e.StudentID, e.CourseID, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("enrollmentRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("enrollmentRepo.Create: %w", err)
	}

	return nil
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.Enrollment, error) {
	var e domain.Enrollment

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, student_id, course_id, created_at
		 FROM enrollments WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	).Scan(&e.ID, &e.SchoolID, &e.StudentID, &e.CourseID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("enrollmentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("enrollmentRepo.GetByID: %w", err)
	}

	return &e, nil
}

func (r *EnrollmentRepo) ListByCourse(ctx context.Context, schoolID, courseID uuid.UUID) ([]*domain.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, student_id, course_id, created_at
		 FROM enrollments WHERE school_id = $1 AND course_id = $2 ORDER BY created_at
		 LIMIT 2000`,
		schoolID, courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("enrollmentRepo.ListByCourse: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows, "enrollmentRepo.ListByCourse")
}

func (r *EnrollmentRepo) ListByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, student_id, course_id, created_at
		 FROM enrollments WHERE school_id = $1 AND student_id = $2 ORDER BY created_at
		 LIMIT 2000`,
		schoolID, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("enrollmentRepo.ListByStudent: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows, "enrollmentRepo.ListByStudent")
}

func scanEnrollments(rows pgx.Rows, op string) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment

		err := rows.Scan(&e.ID, &e.SchoolID, &e.StudentID, &e.CourseID, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		enrollments = append(enrollments, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return enrollments, nil
}

func (r *EnrollmentRepo) Delete(ctx context.Context, schoolID, studentID, courseID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE school_id = $1 AND student_id = $2 AND course_id = $3`,
		schoolID, studentID, courseID,
	)
	if err != nil {
		return fmt.Errorf("enrollmentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("enrollmentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
