package models

import "time"

// User roles. Admins manage meets and users, judges edit event metadata
// and results, volunteers record check-ins and times.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleJudge     UserRole = "judge"
	RoleVolunteer UserRole = "volunteer"
)

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleJudge, RoleVolunteer:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Login        string    `json:"login"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
