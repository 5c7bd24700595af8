// api/service/stores.go
package service

import (
	"context"

	"github.com/rollcall-app/api/model"
)

// Store contracts consumed by the services, satisfied by the gorm DAOs.
// Services depend on these rather than concrete DAOs so the durable store
// stays swappable and fakeable.

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type CourseStore interface {
	GetByID(ctx context.Context, courseID string) (*model.Course, error)
	ListPage(ctx context.Context, pageNr, pageSize int) ([]model.Course, error)
	Create(ctx context.Context, course model.Course) (*model.Course, error)
	Update(ctx context.Context, course model.Course) (*model.Course, error)
	SoftDelete(ctx context.Context, courseID string) error
	CountTeacherLinks(ctx context.Context, courseID, userID string) (int64, error)
	AddTeacher(ctx context.Context, courseID, userID string) error
	RemoveTeacher(ctx context.Context, courseID, userID string) error
	ListStatuses(ctx context.Context) ([]model.CourseStatus, error)
}

type AttendanceStore interface {
	GetByID(ctx context.Context, attendanceID string) (*model.CourseAttendance, error)
	ListByCourse(ctx context.Context, courseID string, pageNr, pageSize int) ([]model.CourseAttendance, error)
	Current(ctx context.Context, courseID string) (*model.CourseAttendance, error)
	Create(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error)
	Update(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error)
	SoftDelete(ctx context.Context, attendanceID string) error
	GetCheck(ctx context.Context, checkID string) (*model.AttendanceCheck, error)
	CreateCheck(ctx context.Context, check model.AttendanceCheck) (*model.AttendanceCheck, error)
	ListTypes(ctx context.Context) ([]model.AttendanceType, error)
}

type RefreshTokenStore interface {
	GetByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	Create(ctx context.Context, record model.RefreshToken) (*model.RefreshToken, error)
	Revoke(ctx context.Context, tokenID, replacedBy string) error
}
