package models

import "time"

// UserRole represents the available console roles.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleMamdhoob UserRole = "mamdhoob"
	RoleUser     UserRole = "user"
)

// User represents a console account stored in the users table. Role is fixed
// at creation; there is no self-service role change. Passwords are stored in
// plaintext, a deliberate property of the deployment this console serves.
type User struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	FullName  string    `db:"full_name" json:"full_name"`
	Role      UserRole  `db:"role" json:"role"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
