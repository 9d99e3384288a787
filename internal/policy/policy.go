// Package policy holds the role-based view-access table. It is the single
// source of truth consumed by both the route guard and the handlers; no view
// derives its own role flags. The table is a closed set covering exactly the
// four roles and six views of this application — it is not a policy engine.
package policy

import (
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
)

// Scope is the tenant scope derived from a role, never stored.
type Scope string

const (
	// ScopeSystem is the operator scope: cross-tenant, bound to no school.
	ScopeSystem Scope = "system"
	// ScopeSchool is the single-tenant scope of every non-operator role.
	ScopeSchool Scope = "school"
)

// View is a top-level navigable view of the dashboard.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewCourses    View = "courses"
	ViewStudents   View = "students"
	ViewGrades     View = "grades"
	ViewTimetables View = "timetables"
	ViewSchools    View = "schools"
)

// Action is a mutation affordance inside a view.
type Action string

const (
	ActionCreateCourse     Action = "course.create"
	ActionManageOwnCourses Action = "course.manage_own"
	ActionCreateGrade      Action = "grade.create"
	ActionEditGrade        Action = "grade.edit"
	ActionDeleteGrade      Action = "grade.delete"
	ActionCreateSchool     Action = "school.create"
	ActionEditBranding     Action = "school.edit_branding"
	ActionAddAdmin         Action = "school.add_admin"
)

// AllViews lists every view in navigation order.
var AllViews = []View{
	ViewDashboard, ViewCourses, ViewStudents, ViewGrades, ViewTimetables, ViewSchools,
}

// Capabilities is the set of views and actions a role may reach.
type Capabilities struct {
	role  domain.Role
	views map[View][]Action
}

// ScopeFor derives the tenant scope from a role. system_admin operates across
// tenants; every other role is bound to exactly one school.
func ScopeFor(role domain.Role) Scope {
	if role == domain.RoleSystemAdmin {
		return ScopeSystem
	}
	return ScopeSchool
}

// For returns the capability set of a role. Unknown roles get no capabilities.
func For(role domain.Role) Capabilities {
	views, ok := table[role]
	if !ok {
		return Capabilities{role: role}
	}
	return Capabilities{role: role, views: views}
}

// The authorization matrix. Listing a view grants read access; the action
// slice is the view's enabled mutations. Grades for students is read-only and
// additionally filtered to the student's own records by the grades handler.
var table = map[domain.Role]map[View][]Action{
	domain.RoleSchoolAdmin: {
		ViewDashboard:  nil,
		ViewCourses:    {ActionCreateCourse},
		ViewStudents:   nil,
		ViewGrades:     {ActionCreateGrade, ActionEditGrade, ActionDeleteGrade},
		ViewTimetables: nil,
	},
	domain.RoleTeacher: {
		ViewDashboard:  nil,
		ViewCourses:    {ActionCreateCourse, ActionManageOwnCourses},
		ViewGrades:     {ActionCreateGrade, ActionEditGrade, ActionDeleteGrade},
		ViewTimetables: nil,
	},
	domain.RoleStudent: {
		ViewDashboard:  nil,
		ViewGrades:     nil,
		ViewTimetables: nil,
	},
	domain.RoleSystemAdmin: {
		ViewDashboard: nil,
		ViewSchools:   {ActionCreateSchool, ActionEditBranding, ActionAddAdmin},
	},
}

// CanView reports whether the role may open the view at all.
func (c Capabilities) CanView(v View) bool {
	_, ok := c.views[v]
	return ok
}

// Can reports whether the role may perform the action within the view.
func (c Capabilities) Can(v View, a Action) bool {
	actions, ok := c.views[v]
	if !ok {
		return false
	}
	for _, got := range actions {
		if got == a {
			return true
		}
	}
	return false
}

// Views returns the reachable views in navigation order.
func (c Capabilities) Views() []View {
	out := make([]View, 0, len(c.views))
	for _, v := range AllViews {
		if c.CanView(v) {
			out = append(out, v)
		}
	}
	return out
}

// Role returns the role these capabilities were derived for.
func (c Capabilities) Role() domain.Role { return c.role }

// CanMutateCourse is the per-row ownership rule for course-scoped mutations
// (upload material, delete material, grade edits within a course): a teacher
// only for courses they own, a school_admin for any course in their tenant.
// The handlers re-verify this server-side; it is not only a UI affordance.
func CanMutateCourse(role domain.Role, userID, courseTeacherID uuid.UUID) bool {
	switch role {
	case domain.RoleSchoolAdmin:
		return true
	case domain.RoleTeacher:
		return userID != uuid.Nil && userID == courseTeacherID
	default:
		return false
	}
}
