package user

import (
	"strings"
)

// Roles
const (
	// Admin
	RoleAdmin          = "admin:"
	RoleAdminOwner     = "admin:owner"
	RoleAdminPrincipal = "admin:principal"

	// Teacher
	RoleTeacher = "teacher:"

	// Student
	RoleStudent = "student:"
)

// Capabilities
const (
	CapViewOwnAttendance = "view_own_attendance"
	CapViewReports       = "view_reports"
	CapViewPredictions   = "view_predictions"
	CapSendAlerts        = "send_alerts"
	CapManageUsers       = "manage_users"
)

var (
	AdminRoles   = []string{RoleAdmin, RoleAdminOwner, RoleAdminPrincipal}
	TeacherRoles = []string{RoleTeacher}
	StudentRoles = []string{RoleStudent}
	AllRoles     = getAllRoles()

	AllCapabilities = []string{CapViewOwnAttendance, CapViewReports, CapViewPredictions, CapSendAlerts, CapManageUsers}

	rolePriorities = map[string]int{
		// Admins: 30 - 21
		RoleAdminOwner:     30,
		RoleAdminPrincipal: 29,
		RoleAdmin:          21,

		// Teachers: 20 - 11
		RoleTeacher: 11,

		// Students: 10 - 1
		RoleStudent: 1,
	}

	// capabilities per role family (prefix). Admins hold every capability.
	roleCapabilities = map[string][]string{
		RoleTeacher: {CapViewReports, CapViewPredictions, CapSendAlerts},
		RoleStudent: {CapViewOwnAttendance, CapViewPredictions},
	}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Admin Principal", Value: RoleAdminPrincipal},
		{Name: "Admin Owner", Value: RoleAdminOwner},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 5)
	all = append(all, AdminRoles...)
	all = append(all, TeacherRoles...)
	all = append(all, StudentRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

func IsValidRole(role string) bool {
	_, ok := rolePriorities[role]
	return ok
}

func roleStartsWith(roles []string, prefix string) bool {
	for _, role := range roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

// Can reports whether any of `roles` grants the capability `cap`.
func Can(roles []string, cap string) bool {
	if roleStartsWith(roles, RoleAdmin) {
		return true
	}
	for prefix, caps := range roleCapabilities {
		if !roleStartsWith(roles, prefix) {
			continue
		}
		for _, c := range caps {
			if c == cap {
				return true
			}
		}
	}
	return false
}

// Capabilities returns the capabilities granted by `roles`, in AllCapabilities order.
func Capabilities(roles []string) []string {
	caps := make([]string, 0, len(AllCapabilities))
	for _, c := range AllCapabilities {
		if Can(roles, c) {
			caps = append(caps, c)
		}
	}
	return caps
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is the identity carried by an access token.
// For students, ID is the student ID used in attendance records.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (u *User) RoleStartsWith(prefix string) bool {
	return roleStartsWith(u.Roles, prefix)
}

func (u *User) IsAdmin() bool {
	return u.RoleStartsWith(RoleAdmin)
}

func (u *User) IsTeacher() bool {
	return u.RoleStartsWith(RoleTeacher)
}

// IsStudent reports whether the user is only a student: teachers and admins enrolled as students see everything they otherwise could.
func (u *User) IsStudent() bool {
	return u.RoleStartsWith(RoleStudent) && !u.IsAdmin() && !u.IsTeacher()
}

func (u *User) Can(cap string) bool {
	return Can(u.Roles, cap)
}
