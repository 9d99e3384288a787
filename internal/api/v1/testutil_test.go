package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/dashboard"
	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject school/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func sessionCtx(schoolID, userID uuid.UUID, role domain.Role) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeySchoolID, schoolID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

func operatorCtx(userID uuid.UUID) context.Context {
	return sessionCtx(uuid.Nil, userID, domain.RoleSystemAdmin)
}

func resolvedSchoolCtx(ctx context.Context, school *domain.School) context.Context {
	return context.WithValue(ctx, middleware.ContextKeySchool, school)
}

func claimsCtx(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, middleware.ContextKeyClaims, claims)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	schools     domain.SchoolRepository
	users       domain.UserRepository
	courses     domain.CourseRepository
	materials   domain.MaterialRepository
	enrollments domain.EnrollmentRepository
	grades      domain.GradeRepository
	timetables  domain.TimetableRepository
	chat        domain.ChatRepository
}

func (m *mockDataStore) Schools() domain.SchoolRepository         { return m.schools }
func (m *mockDataStore) Users() domain.UserRepository             { return m.users }
func (m *mockDataStore) Courses() domain.CourseRepository         { return m.courses }
func (m *mockDataStore) Materials() domain.MaterialRepository     { return m.materials }
func (m *mockDataStore) Enrollments() domain.EnrollmentRepository { return m.enrollments }
func (m *mockDataStore) Grades() domain.GradeRepository           { return m.grades }
func (m *mockDataStore) Timetables() domain.TimetableRepository   { return m.timetables }
func (m *mockDataStore) Chat() domain.ChatRepository              { return m.chat }

// ---------------------------------------------------------------------------
// Mock SchoolRepository
// ---------------------------------------------------------------------------

type mockSchoolRepo struct {
	createFunc         func(ctx context.Context, s *domain.School) error
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.School, error)
	getByDomainFunc    func(ctx context.Context, host string) (*domain.School, error)
	updateBrandingFunc func(ctx context.Context, s *domain.School) error
	listFunc           func(ctx context.Context) ([]*domain.School, error)
}

func (m *mockSchoolRepo) Create(ctx context.Context, s *domain.School) error {
	return m.createFunc(ctx, s)
}

func (m *mockSchoolRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.School, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSchoolRepo) GetByDomain(ctx context.Context, host string) (*domain.School, error) {
	return m.getByDomainFunc(ctx, host)
}

func (m *mockSchoolRepo) UpdateBranding(ctx context.Context, s *domain.School) error {
	return m.updateBrandingFunc(ctx, s)
}

func (m *mockSchoolRepo) List(ctx context.Context) ([]*domain.School, error) {
	return m.listFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, schoolID, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, schoolID uuid.UUID, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	listFunc       func(ctx context.Context, schoolID uuid.UUID, role domain.Role) ([]*domain.User, error)
	deleteFunc     func(ctx context.Context, schoolID, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, schoolID, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, schoolID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, schoolID, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context, schoolID uuid.UUID, role domain.Role) ([]*domain.User, error) {
	return m.listFunc(ctx, schoolID, role)
}

func (m *mockUserRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	return m.deleteFunc(ctx, schoolID, id)
}

// ---------------------------------------------------------------------------
// Mock CourseRepository
// ---------------------------------------------------------------------------

type mockCourseRepo struct {
	createFunc        func(ctx context.Context, c *domain.Course) error
	getByIDFunc       func(ctx context.Context, schoolID, id uuid.UUID) (*domain.Course, error)
	updateFunc        func(ctx context.Context, c *domain.Course) error
	listFunc          func(ctx context.Context, schoolID uuid.UUID) ([]*domain.Course, error)
	listByTeacherFunc func(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*domain.Course, error)
	deleteFunc        func(ctx context.Context, schoolID, id uuid.UUID) error
}

func (m *mockCourseRepo) Create(ctx context.Context, c *domain.Course) error {
	return m.createFunc(ctx, c)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.Course, error) {
	return m.getByIDFunc(ctx, schoolID, id)
}

func (m *mockCourseRepo) Update(ctx context.Context, c *domain.Course) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCourseRepo) List(ctx context.Context, schoolID uuid.UUID) ([]*domain.Course, error) {
	return m.listFunc(ctx, schoolID)
}

func (m *mockCourseRepo) ListByTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*domain.Course, error) {
	return m.listByTeacherFunc(ctx, schoolID, teacherID)
}

func (m *mockCourseRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	return m.deleteFunc(ctx, schoolID, id)
}

// ---------------------------------------------------------------------------
// Mock MaterialRepository
// ---------------------------------------------------------------------------

type mockMaterialRepo struct {
	createFunc       func(ctx context.Context, mat *domain.CourseMaterial) error
	getByIDFunc      func(ctx context.Context, schoolID, id uuid.UUID) (*domain.CourseMaterial, error)
	listByCourseFunc func(ctx context.Context, schoolID, courseID uuid.UUID) ([]*domain.CourseMaterial, error)
	deleteFunc       func(ctx context.Context, schoolID, id uuid.UUID) error
}

func (m *mockMaterialRepo) Create(ctx context.Context, mat *domain.CourseMaterial) error {
	return m.createFunc(ctx, mat)
}

func (m *mockMaterialRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.CourseMaterial, error) {
	return m.getByIDFunc(ctx, schoolID, id)
}

func (m *mockMaterialRepo) ListByCourse(ctx context.Context, schoolID, courseID uuid.UUID) ([]*domain.CourseMaterial, error) {
	return m.listByCourseFunc(ctx, schoolID, courseID)
}

func (m *mockMaterialRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	return m.deleteFunc(ctx, schoolID, id)
}

// ---------------------------------------------------------------------------
// Mock EnrollmentRepository
// ---------------------------------------------------------------------------

type mockEnrollmentRepo struct {
	createFunc        func(ctx context.Context, e *domain.Enrollment) error
	getByIDFunc       func(ctx context.Context, schoolID, id uuid.UUID) (*domain.Enrollment, error)
	listByCourseFunc  func(ctx context.Context, schoolID, courseID uuid.UUID) ([]*domain.Enrollment, error)
	listByStudentFunc func(ctx context.Context, schoolID, studentID uuid.UUID) ([]*domain.Enrollment, error)
	deleteFunc        func(ctx context.Context, schoolID, studentID, courseID uuid.UUID) error
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	return m.createFunc(ctx, e)
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.Enrollment, error) {
	return m.getByIDFunc(ctx, schoolID, id)
}

func (m *mockEnrollmentRepo) ListByCourse(ctx context.Context, schoolID, courseID uuid.UUID) ([]*domain.Enrollment, error) {
	return m.listByCourseFunc(ctx, schoolID, courseID)
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	return m.listByStudentFunc(ctx, schoolID, studentID)
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, schoolID, studentID, courseID uuid.UUID) error {
	return m.deleteFunc(ctx, schoolID, studentID, courseID)
}

// ---------------------------------------------------------------------------
// Mock GradeRepository
// ---------------------------------------------------------------------------

type mockGradeRepo struct {
	createFunc        func(ctx context.Context, g *domain.Grade) error
	getByIDFunc       func(ctx context.Context, schoolID, id uuid.UUID) (*domain.Grade, error)
	updateFunc        func(ctx context.Context, g *domain.Grade) error
	deleteFunc        func(ctx context.Context, schoolID, id uuid.UUID) error
	listAllFunc       func(ctx context.Context, schoolID uuid.UUID) ([]*domain.GradeRecord, error)
	listByTeacherFunc func(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*domain.GradeRecord, error)
	listByStudentFunc func(ctx context.Context, schoolID, studentID uuid.UUID) ([]*domain.GradeRecord, error)
}

func (m *mockGradeRepo) Create(ctx context.Context, g *domain.Grade) error {
	return m.createFunc(ctx, g)
}

func (m *mockGradeRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.Grade, error) {
	return m.getByIDFunc(ctx, schoolID, id)
}

func (m *mockGradeRepo) Update(ctx context.Context, g *domain.Grade) error {
	return m.updateFunc(ctx, g)
}

func (m *mockGradeRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	return m.deleteFunc(ctx, schoolID, id)
}

func (m *mockGradeRepo) ListAll(ctx context.Context, schoolID uuid.UUID) ([]*domain.GradeRecord, error) {
	return m.listAllFunc(ctx, schoolID)
}

func (m *mockGradeRepo) ListByTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) ([]*domain.GradeRecord, error) {
	return m.listByTeacherFunc(ctx, schoolID, teacherID)
}

func (m *mockGradeRepo) ListByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]*domain.GradeRecord, error) {
	return m.listByStudentFunc(ctx, schoolID, studentID)
}

// ---------------------------------------------------------------------------
// Mock TimetableRepository
// ---------------------------------------------------------------------------

type mockTimetableRepo struct {
	createFunc       func(ctx context.Context, s *domain.TimetableSlot) error
	getByIDFunc      func(ctx context.Context, schoolID, id uuid.UUID) (*domain.TimetableSlot, error)
	getByDayTimeFunc func(ctx context.Context, schoolID uuid.UUID, day, at string) (*domain.TimetableSlot, error)
	updateFunc       func(ctx context.Context, s *domain.TimetableSlot) error
	listFunc         func(ctx context.Context, schoolID uuid.UUID) ([]*domain.TimetableSlot, error)
	deleteFunc       func(ctx context.Context, schoolID, id uuid.UUID) error
}

func (m *mockTimetableRepo) Create(ctx context.Context, s *domain.TimetableSlot) error {
	return m.createFunc(ctx, s)
}

func (m *mockTimetableRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.TimetableSlot, error) {
	return m.getByIDFunc(ctx, schoolID, id)
}

func (m *mockTimetableRepo) GetByDayTime(ctx context.Context, schoolID uuid.UUID, day, at string) (*domain.TimetableSlot, error) {
	return m.getByDayTimeFunc(ctx, schoolID, day, at)
}

func (m *mockTimetableRepo) Update(ctx context.Context, s *domain.TimetableSlot) error {
	return m.updateFunc(ctx, s)
}

func (m *mockTimetableRepo) List(ctx context.Context, schoolID uuid.UUID) ([]*domain.TimetableSlot, error) {
	return m.listFunc(ctx, schoolID)
}

func (m *mockTimetableRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	return m.deleteFunc(ctx, schoolID, id)
}

// ---------------------------------------------------------------------------
// Mock ChatRepository
// ---------------------------------------------------------------------------

type mockChatRepo struct {
	getOrCreateRoomFunc func(ctx context.Context, schoolID, courseID uuid.UUID) (*domain.ChatRoom, error)
	getRoomFunc         func(ctx context.Context, schoolID, roomID uuid.UUID) (*domain.ChatRoom, error)
	createMessageFunc   func(ctx context.Context, msg *domain.ChatMessage) error
	listMessagesFunc    func(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

func (m *mockChatRepo) GetOrCreateRoom(ctx context.Context, schoolID, courseID uuid.UUID) (*domain.ChatRoom, error) {
	return m.getOrCreateRoomFunc(ctx, schoolID, courseID)
}

func (m *mockChatRepo) GetRoom(ctx context.Context, schoolID, roomID uuid.UUID) (*domain.ChatRoom, error) {
	return m.getRoomFunc(ctx, schoolID, roomID)
}

func (m *mockChatRepo) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return m.createMessageFunc(ctx, msg)
}

func (m *mockChatRepo) ListMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	return m.listMessagesFunc(ctx, roomID, limit)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc           func(ctx context.Context, schoolID uuid.UUID, email, password string) (string, domain.Identity, error)
	loginWithGoogleFunc func(ctx context.Context, schoolID uuid.UUID, email string) (string, domain.Identity, error)
	logoutFunc          func(ctx context.Context, claims *auth.Claims)
	whoAmIFunc          func(ctx context.Context, claims *auth.Claims) (domain.Identity, error)
	createUserFunc      func(ctx context.Context, schoolID uuid.UUID, email, password, fullName string, role domain.Role) (*domain.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, schoolID uuid.UUID, email, password string) (string, domain.Identity, error) {
	return m.loginFunc(ctx, schoolID, email, password)
}

func (m *mockAuthService) LoginWithGoogle(ctx context.Context, schoolID uuid.UUID, email string) (string, domain.Identity, error) {
	return m.loginWithGoogleFunc(ctx, schoolID, email)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *auth.Claims) {
	if m.logoutFunc != nil {
		m.logoutFunc(ctx, claims)
	}
}

func (m *mockAuthService) WhoAmI(ctx context.Context, claims *auth.Claims) (domain.Identity, error) {
	return m.whoAmIFunc(ctx, claims)
}

func (m *mockAuthService) CreateUser(ctx context.Context, schoolID uuid.UUID, email, password, fullName string, role domain.Role) (*domain.User, error) {
	return m.createUserFunc(ctx, schoolID, email, password, fullName, role)
}

// ---------------------------------------------------------------------------
// Mock DashboardLoader, QAService, Publisher
// ---------------------------------------------------------------------------

type mockLoader struct {
	loadSystemFunc func(ctx context.Context) (*dashboard.SystemSummary, error)
	loadSchoolFunc func(ctx context.Context, schoolID uuid.UUID) (*dashboard.SchoolSummary, error)
}

func (m *mockLoader) LoadSystem(ctx context.Context) (*dashboard.SystemSummary, error) {
	return m.loadSystemFunc(ctx)
}

func (m *mockLoader) LoadSchool(ctx context.Context, schoolID uuid.UUID) (*dashboard.SchoolSummary, error) {
	return m.loadSchoolFunc(ctx, schoolID)
}

type mockQAService struct {
	askFunc     func(ctx context.Context, schoolID, materialID, userID uuid.UUID, question string) (*domain.DocumentQA, error)
	historyFunc func(ctx context.Context, schoolID, materialID uuid.UUID) ([]*domain.DocumentQA, error)
}

func (m *mockQAService) Ask(ctx context.Context, schoolID, materialID, userID uuid.UUID, question string) (*domain.DocumentQA, error) {
	return m.askFunc(ctx, schoolID, materialID, userID, question)
}

func (m *mockQAService) History(ctx context.Context, schoolID, materialID uuid.UUID) ([]*domain.DocumentQA, error) {
	return m.historyFunc(ctx, schoolID, materialID)
}

type mockPublisher struct {
	publishFunc func(ctx context.Context, channel string, payload []byte) error
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, channel, payload)
	}
	return nil
}
