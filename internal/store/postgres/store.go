package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencampus/campus/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	schools     *SchoolRepo
	users       *UserRepo
	courses     *CourseRepo
	materials   *MaterialRepo
	enrollments *EnrollmentRepo
	grades      *GradeRepo
	timetables  *TimetableRepo
	chat        *ChatRepo
	docQA       *DocumentQARepo
	usage       *UsageRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		schools:     NewSchoolRepo(pool),
		users:       NewUserRepo(pool),
		courses:     NewCourseRepo(pool),
		materials:   NewMaterialRepo(pool),
		enrollments: NewEnrollmentRepo(pool),
		grades:      NewGradeRepo(pool),
		timetables:  NewTimetableRepo(pool),
		chat:        NewChatRepo(pool),
		docQA:       NewDocumentQARepo(pool),
		usage:       NewUsageRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Schools() domain.SchoolRepository        { return s.schools }
func (s *Store) Users() domain.UserRepository            { return s.users }
func (s *Store) Courses() domain.CourseRepository        { return s.courses }
func (s *Store) Materials() domain.MaterialRepository    { return s.materials }
func (s *Store) Enrollments() domain.EnrollmentRepository { return s.enrollments }
func (s *Store) Grades() domain.GradeRepository          { return s.grades }
func (s *Store) Timetables() domain.TimetableRepository  { return s.timetables }
func (s *Store) Chat() domain.ChatRepository             { return s.chat }
func (s *Store) DocumentQA() domain.DocumentQARepository { return s.docQA }
func (s *Store) Usage() domain.UsageRepository           { return s.usage }
