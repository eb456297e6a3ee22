package models

import "time"

// RoleType represents the type of user role
type RoleType string

// User roles
const (
	RoleStudent   RoleType = "student"
	RoleRecruiter RoleType = "recruiter"
)

// User represents an authenticated account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         RoleType  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the already-authenticated caller handed explicitly to every
// coordination operation. There is no ambient current-user state.
type Principal struct {
	ID   int64
	Name string
	Role RoleType
}

// IsRecruiter reports whether the principal carries the recruiter role.
func (p Principal) IsRecruiter() bool {
	return p.Role == RoleRecruiter
}
