package auth

// Admin roles for the back-office surface. Viewers get read-only access
// to reports and the level ladder; admin and superadmin may also trigger
// settlement, manage competitions and edit the economy.
const (
	RoleViewer     = "viewer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// IsAdminRole reports whether role is one of the known admin roles.
func IsAdminRole(role string) bool {
	switch role {
	case RoleViewer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// WriteRoles returns the roles allowed to mutate state.
func WriteRoles() []string {
	return []string{RoleAdmin, RoleSuperAdmin}
}
