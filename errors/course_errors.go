// api/errors/course_errors.go
package errors

import "errors"

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrCheckNotFound      = errors.New("attendance check not found")
	ErrInvalidCourseData  = errors.New("invalid course data")
)
