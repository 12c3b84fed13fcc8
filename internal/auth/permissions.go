package auth

import "strings"

// Role tag yang dikenal. Apapun di luar admin jatuh ke employee,
// fallback permisif yang memang disengaja.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Permission tag per halaman yang dilindungi.
const (
	PermDashboard = "dashboard"
	PermEmployees = "employees"
	PermProjects  = "projects"
	PermTasks     = "tasks"
)

// permissions memetakan role ke daftar halaman yang boleh diakses.
// Daftar ini dihitung sekali saat login dan dilekatkan ke session user;
// ganti role butuh login ulang.
var permissions = map[string][]string{
	RoleAdmin:    {PermDashboard, PermEmployees, PermProjects, PermTasks},
	RoleEmployee: {PermProjects, PermTasks},
}

// ResolveRole menurunkan role efektif dari role tag mentah.
func ResolveRole(tag string) string {
	if strings.TrimSpace(tag) == RoleAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}

// PermissionsFor mengembalikan salinan daftar permission untuk role.
func PermissionsFor(role string) []string {
	perms := permissions[ResolveRole(role)]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
