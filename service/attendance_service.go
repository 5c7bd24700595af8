// api/service/attendance_service.go
package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/util"
)

// IAttendanceService defines the interface for attendance operations
type IAttendanceService interface {
	GetAttendance(ctx context.Context, attendanceID string) (*model.CourseAttendance, error)
	ListCourseAttendances(ctx context.Context, courseID string, pageNr, pageSize int) ([]model.CourseAttendance, error)
	CurrentAttendance(ctx context.Context, courseID string) (*model.CourseAttendance, error)
	CreateAttendance(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error)
	UpdateAttendance(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error)
	DeleteAttendance(ctx context.Context, attendanceID string) error
	GetCheck(ctx context.Context, checkID string) (*model.AttendanceCheck, error)
	CreateCheck(ctx context.Context, check model.AttendanceCheck) (*model.AttendanceCheck, error)
	ListTypes(ctx context.Context) ([]model.AttendanceType, error)
}

// AttendanceService handles attendance reads through the cache facade.
// Mutations write to the store first, then invalidate both the attendance's
// own keys and every key embedding the owning course ID, listing keys
// included.
type AttendanceService struct {
	attendances AttendanceStore
	cache       *util.CacheService
}

var _ IAttendanceService = &AttendanceService{}

func NewAttendanceService(attendances AttendanceStore, cache *util.CacheService) *AttendanceService {
	return &AttendanceService{attendances: attendances, cache: cache}
}

func (s *AttendanceService) GetAttendance(ctx context.Context, attendanceID string) (*model.CourseAttendance, error) {
	return util.GetOrLoad(ctx, s.cache, util.Key("Attendance", attendanceID), util.TTLMedium,
		func(ctx context.Context) (*model.CourseAttendance, error) {
			return s.attendances.GetByID(ctx, attendanceID)
		})
}

func (s *AttendanceService) ListCourseAttendances(ctx context.Context, courseID string, pageNr, pageSize int) ([]model.CourseAttendance, error) {
	key := util.Key("AttendanceList", courseID, strconv.Itoa(pageNr), strconv.Itoa(pageSize))
	return util.GetOrLoad(ctx, s.cache, key, util.TTLShort,
		func(ctx context.Context) ([]model.CourseAttendance, error) {
			return s.attendances.ListByCourse(ctx, courseID, pageNr, pageSize)
		})
}

// CurrentAttendance is the hottest lookup in the system, refreshed on the
// shortest tier.
func (s *AttendanceService) CurrentAttendance(ctx context.Context, courseID string) (*model.CourseAttendance, error) {
	return util.GetOrLoad(ctx, s.cache, util.Key("CurrentAttendance", courseID), util.TTLFlash,
		func(ctx context.Context) (*model.CourseAttendance, error) {
			return s.attendances.Current(ctx, courseID)
		})
}

func (s *AttendanceService) CreateAttendance(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error) {
	created, err := s.attendances.Create(ctx, attendance)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, created.CourseID)
	logger.Info("Attendance created",
		zap.String("attendanceID", created.ID),
		zap.String("courseID", created.CourseID))
	return created, nil
}

func (s *AttendanceService) UpdateAttendance(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error) {
	updated, err := s.attendances.Update(ctx, attendance)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, updated.ID)
	s.cache.Invalidate(ctx, updated.CourseID)
	return updated, nil
}

func (s *AttendanceService) DeleteAttendance(ctx context.Context, attendanceID string) error {
	attendance, err := s.attendances.GetByID(ctx, attendanceID)
	if err != nil {
		return err
	}
	if err := s.attendances.SoftDelete(ctx, attendanceID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, attendanceID)
	s.cache.Invalidate(ctx, attendance.CourseID)
	return nil
}

func (s *AttendanceService) GetCheck(ctx context.Context, checkID string) (*model.AttendanceCheck, error) {
	return util.GetOrLoad(ctx, s.cache, util.Key("AttendanceCheck", checkID), util.TTLMedium,
		func(ctx context.Context) (*model.AttendanceCheck, error) {
			return s.attendances.GetCheck(ctx, checkID)
		})
}

func (s *AttendanceService) CreateCheck(ctx context.Context, check model.AttendanceCheck) (*model.AttendanceCheck, error) {
	created, err := s.attendances.CreateCheck(ctx, check)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, created.AttendanceID)
	return created, nil
}

func (s *AttendanceService) ListTypes(ctx context.Context) ([]model.AttendanceType, error) {
	return util.GetOrLoad(ctx, s.cache, util.Key("AttendanceTypes"), util.TTLLong,
		func(ctx context.Context) ([]model.AttendanceType, error) {
			return s.attendances.ListTypes(ctx)
		})
}
