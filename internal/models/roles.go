package models

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsAdmin reports whether role grants catalog write access
func IsAdmin(role string) bool {
	return role == RoleAdmin
}
