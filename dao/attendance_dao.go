// api/dao/attendance_dao.go
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
)

type AttendanceDAO struct {
	DB *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{DB: db}
}

func (dao *AttendanceDAO) GetByID(ctx context.Context, attendanceID string) (*model.CourseAttendance, error) {
	var attendance model.CourseAttendance
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", attendanceID, false).
		First(&attendance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrAttendanceNotFound
	} else if err != nil {
		logger.Error("Failed to load attendance", zap.Error(err), zap.String("attendanceID", attendanceID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &attendance, nil
}

func (dao *AttendanceDAO) ListByCourse(ctx context.Context, courseID string, pageNr, pageSize int) ([]model.CourseAttendance, error) {
	var attendances []model.CourseAttendance
	err := dao.DB.WithContext(ctx).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("held_at DESC").
		Offset(pageNr * pageSize).
		Limit(pageSize).
		Find(&attendances).Error
	if err != nil {
		logger.Error("Failed to list attendances",
			zap.Error(err),
			zap.String("courseID", courseID),
			zap.Int("page", pageNr))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return attendances, nil
}

// Current returns the most recent attendance session already underway for
// the course.
func (dao *AttendanceDAO) Current(ctx context.Context, courseID string) (*model.CourseAttendance, error) {
	var attendance model.CourseAttendance
	err := dao.DB.WithContext(ctx).
		Where("course_id = ? AND is_deleted = ? AND held_at <= ?", courseID, false, time.Now()).
		Order("held_at DESC").
		First(&attendance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrAttendanceNotFound
	} else if err != nil {
		logger.Error("Failed to load current attendance", zap.Error(err), zap.String("courseID", courseID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &attendance, nil
}

func (dao *AttendanceDAO) Create(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error) {
	if attendance.ID == "" {
		attendance.ID = uuid.New().String()
	}
	attendance.CreatedAt = time.Now()
	attendance.UpdatedAt = attendance.CreatedAt

	if err := dao.DB.WithContext(ctx).Create(&attendance).Error; err != nil {
		logger.Error("Failed to create attendance", zap.Error(err), zap.String("courseID", attendance.CourseID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	logger.Info("Attendance created", zap.String("attendanceID", attendance.ID))
	return &attendance, nil
}

// attendanceUpdates maps the client-mutable columns so cleared fields
// persist; the owning course is not movable through this path.
func attendanceUpdates(attendance model.CourseAttendance, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"type_id":    attendance.TypeID,
		"topic":      attendance.Topic,
		"held_at":    attendance.HeldAt,
		"updated_at": now,
	}
}

func (dao *AttendanceDAO) Update(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error) {
	attendance.UpdatedAt = time.Now()
	result := dao.DB.WithContext(ctx).
		Model(&model.CourseAttendance{}).
		Where("id = ? AND is_deleted = ?", attendance.ID, false).
		Updates(attendanceUpdates(attendance, attendance.UpdatedAt))
	if result.Error != nil {
		logger.Error("Failed to update attendance", zap.Error(result.Error), zap.String("attendanceID", attendance.ID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, rollcall_errors.ErrAttendanceNotFound
	}
	return &attendance, nil
}

func (dao *AttendanceDAO) SoftDelete(ctx context.Context, attendanceID string) error {
	result := dao.DB.WithContext(ctx).
		Model(&model.CourseAttendance{}).
		Where("id = ? AND is_deleted = ?", attendanceID, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		logger.Error("Failed to delete attendance", zap.Error(result.Error), zap.String("attendanceID", attendanceID))
		return rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return rollcall_errors.ErrAttendanceNotFound
	}
	logger.Info("Attendance soft-deleted", zap.String("attendanceID", attendanceID))
	return nil
}

func (dao *AttendanceDAO) GetCheck(ctx context.Context, checkID string) (*model.AttendanceCheck, error) {
	var check model.AttendanceCheck
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", checkID, false).
		First(&check).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrCheckNotFound
	} else if err != nil {
		logger.Error("Failed to load attendance check", zap.Error(err), zap.String("checkID", checkID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &check, nil
}

func (dao *AttendanceDAO) CreateCheck(ctx context.Context, check model.AttendanceCheck) (*model.AttendanceCheck, error) {
	if check.ID == "" {
		check.ID = uuid.New().String()
	}
	check.CreatedAt = time.Now()
	check.UpdatedAt = check.CreatedAt

	if err := dao.DB.WithContext(ctx).Create(&check).Error; err != nil {
		logger.Error("Failed to create attendance check", zap.Error(err), zap.String("attendanceID", check.AttendanceID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &check, nil
}

// ListTypes returns the attendance type reference table.
func (dao *AttendanceDAO) ListTypes(ctx context.Context) ([]model.AttendanceType, error) {
	var types []model.AttendanceType
	if err := dao.DB.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		logger.Error("Failed to list attendance types", zap.Error(err))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return types, nil
}
