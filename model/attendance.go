// api/model/attendance.go
package model

import "time"

// CourseAttendance is a single attendance-taking session within a course.
type CourseAttendance struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CourseID  string    `json:"course_id" gorm:"index"`
	TypeID    string    `json:"type_id"`
	Topic     string    `json:"topic"`
	HeldAt    time.Time `json:"held_at"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendanceCheck records one student's presence mark within an attendance
// session.
type AttendanceCheck struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	AttendanceID string    `json:"attendance_id" gorm:"index"`
	StudentID    string    `json:"student_id" gorm:"index"`
	Present      bool      `json:"present"`
	CheckedAt    time.Time `json:"checked_at"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AttendanceType is near-static reference data (lecture, lab, seminar).
type AttendanceType struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
