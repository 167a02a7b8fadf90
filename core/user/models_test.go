package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		cap   string
		want  bool
	}{
		{name: "no roles", cap: CapViewOwnAttendance},
		{name: "student own attendance", roles: []string{RoleStudent}, cap: CapViewOwnAttendance, want: true},
		{name: "student predictions", roles: []string{RoleStudent}, cap: CapViewPredictions, want: true},
		{name: "student reports", roles: []string{RoleStudent}, cap: CapViewReports},
		{name: "student alerts", roles: []string{RoleStudent}, cap: CapSendAlerts},
		{name: "teacher reports", roles: []string{RoleTeacher}, cap: CapViewReports, want: true},
		{name: "teacher alerts", roles: []string{RoleTeacher}, cap: CapSendAlerts, want: true},
		{name: "teacher manage users", roles: []string{RoleTeacher}, cap: CapManageUsers},
		{name: "admin prefix", roles: []string{RoleAdmin}, cap: CapManageUsers, want: true},
		{name: "admin owner", roles: []string{RoleAdminOwner}, cap: CapViewOwnAttendance, want: true},
		{name: "mixed roles", roles: []string{RoleStudent, RoleTeacher}, cap: CapSendAlerts, want: true},
		{name: "unknown capability", roles: []string{RoleTeacher}, cap: "fly"},
		{name: "unknown role", roles: []string{"janitor:"}, cap: CapViewReports},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.roles, tt.cap); got != tt.want {
				t.Errorf("Can() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, AllCapabilities, Capabilities([]string{RoleAdminPrincipal}))
	assert.Equal(t, []string{CapViewOwnAttendance, CapViewPredictions}, Capabilities([]string{RoleStudent}))
	assert.Empty(t, Capabilities(nil))
}

func TestMaxRolePriority(t *testing.T) {
	assert.Equal(t, 0, MaxRolePriority(nil))
	assert.Equal(t, 11, MaxRolePriority([]string{RoleStudent, RoleTeacher}))
	assert.Equal(t, 30, MaxRolePriority([]string{RoleAdmin, RoleAdminOwner}))
}

func TestUser_IsStudent(t *testing.T) {
	stud := User{ID: "s1", Roles: []string{RoleStudent}}
	assert.True(t, stud.IsStudent())

	teacher := User{ID: "t1", Roles: []string{RoleStudent, RoleTeacher}}
	assert.False(t, teacher.IsStudent())
	assert.True(t, teacher.IsTeacher())
	assert.True(t, teacher.Can(CapViewReports))
}
