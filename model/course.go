// api/model/course.go
package model

import "time"

// Course groups attendances and carries the teacher links that drive access
// control.
type Course struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StatusID    string    `json:"status_id"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseTeacher links a teacher to a course. The number of links between a
// user and a course is the access decision for everything the course owns.
type CourseTeacher struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CourseID  string    `json:"course_id" gorm:"index"`
	UserID    string    `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseStatus is near-static reference data (planned, active, archived).
type CourseStatus struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
