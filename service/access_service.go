// api/service/access_service.go
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/util"
)

// IAccessService answers "may this user touch this resource". Decisions are
// memoized in the cache so revisiting the same resource does not rerun the
// relationship lookup on every request.
type IAccessService interface {
	IsCourseAccessible(ctx context.Context, courseID, email string) bool
	IsAttendanceAccessible(ctx context.Context, attendanceID, email string) bool
	IsCheckAccessible(ctx context.Context, checkID, email string) bool
}

// AccessService grants access when the user holds at least one teacher link
// to the course owning the resource. The decision is cached as the raw link
// count rather than a boolean, so a future multi-grant model needs no cache
// reshape.
type AccessService struct {
	users       UserStore
	courses     CourseStore
	attendances AttendanceStore
	cache       *util.CacheService
}

var _ IAccessService = &AccessService{}

func NewAccessService(users UserStore, courses CourseStore, attendances AttendanceStore, cache *util.CacheService) *AccessService {
	return &AccessService{
		users:       users,
		courses:     courses,
		attendances: attendances,
		cache:       cache,
	}
}

func (s *AccessService) IsCourseAccessible(ctx context.Context, courseID, email string) bool {
	return s.isAccessible(ctx, email, func(ctx context.Context) (string, error) {
		return courseID, nil
	})
}

func (s *AccessService) IsAttendanceAccessible(ctx context.Context, attendanceID, email string) bool {
	return s.isAccessible(ctx, email, func(ctx context.Context) (string, error) {
		attendance, err := util.GetOrLoad(ctx, s.cache, util.Key("Attendance", attendanceID), util.TTLMedium,
			func(ctx context.Context) (*model.CourseAttendance, error) {
				return s.attendances.GetByID(ctx, attendanceID)
			})
		if err != nil {
			return "", err
		}
		return attendance.CourseID, nil
	})
}

func (s *AccessService) IsCheckAccessible(ctx context.Context, checkID, email string) bool {
	return s.isAccessible(ctx, email, func(ctx context.Context) (string, error) {
		check, err := s.attendances.GetCheck(ctx, checkID)
		if err != nil {
			return "", err
		}
		attendance, err := s.attendances.GetByID(ctx, check.AttendanceID)
		if err != nil {
			return "", err
		}
		return attendance.CourseID, nil
	})
}

// isAccessible is the ownership-linked authorization routine every resource
// kind shares, parameterized by how the owning course is resolved. It fails
// closed at every step: unknown user, unresolvable course, or a store error
// all deny, none throw.
func (s *AccessService) isAccessible(ctx context.Context, email string, resolveCourse func(ctx context.Context) (string, error)) bool {
	user, err := util.GetOrLoad(ctx, s.cache, util.Key("UserEmail", email), util.TTLMedium,
		func(ctx context.Context) (*model.User, error) {
			return s.users.GetByEmail(ctx, email)
		})
	if err != nil {
		if !errors.Is(err, rollcall_errors.ErrUserNotFound) {
			logger.Error("Failed to resolve user for access check", zap.Error(err), zap.String("email", email))
		}
		return false
	}

	courseID, err := resolveCourse(ctx)
	if err != nil {
		logger.Debug("Owning course unresolvable, denying access",
			zap.Error(err),
			zap.String("email", email))
		return false
	}

	count, err := util.GetOrLoad(ctx, s.cache, util.Key("CourseAccess", courseID, user.ID), util.TTLShort,
		func(ctx context.Context) (int64, error) {
			return s.courses.CountTeacherLinks(ctx, courseID, user.ID)
		})
	if err != nil {
		logger.Error("Failed to count authorization links",
			zap.Error(err),
			zap.String("courseID", courseID),
			zap.String("userID", user.ID))
		return false
	}

	return count > 0
}
