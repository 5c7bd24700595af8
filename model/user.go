// api/model/user.go
package model

import "time"

// User is an account that can authenticate and, when linked to courses as a
// teacher, manage those courses' attendances.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	PhotoKey  string    `json:"photo_key,omitempty"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Roles assignable to a user.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)
