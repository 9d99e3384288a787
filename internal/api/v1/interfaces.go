package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/dashboard"
	"github.com/opencampus/campus/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Schools() domain.SchoolRepository
	Users() domain.UserRepository
	Courses() domain.CourseRepository
	Materials() domain.MaterialRepository
	Enrollments() domain.EnrollmentRepository
	Grades() domain.GradeRepository
	Timetables() domain.TimetableRepository
	Chat() domain.ChatRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, schoolID uuid.UUID, email, password string) (string, domain.Identity, error)
	LoginWithGoogle(ctx context.Context, schoolID uuid.UUID, email string) (string, domain.Identity, error)
	Logout(ctx context.Context, claims *auth.Claims)
	WhoAmI(ctx context.Context, claims *auth.Claims) (domain.Identity, error)
	CreateUser(ctx context.Context, schoolID uuid.UUID, email, password, fullName string, role domain.Role) (*domain.User, error)
}

// DashboardLoader abstracts the dashboard aggregator for handler testing.
// *dashboard.Aggregator satisfies this interface.
type DashboardLoader interface {
	LoadSystem(ctx context.Context) (*dashboard.SystemSummary, error)
	LoadSchool(ctx context.Context, schoolID uuid.UUID) (*dashboard.SchoolSummary, error)
}

// QAService abstracts document question answering for handler testing.
// *docqa.Service satisfies this interface.
type QAService interface {
	Ask(ctx context.Context, schoolID, materialID, userID uuid.UUID, question string) (*domain.DocumentQA, error)
	History(ctx context.Context, schoolID, materialID uuid.UUID) ([]*domain.DocumentQA, error)
}

// Publisher abstracts the pub/sub fan-out used by chat handlers.
// *ws.Hub satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
