package domain

import "time"

// Role enumerates the authorization roles an actor may hold.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleSupport Role = "SUPPORT"
	RoleAdmin   Role = "ADMIN"
)

// ValidRole reports whether r is a member of the role enumeration.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for actors who submit and handle complaints.
// Department is only populated for support staff.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
