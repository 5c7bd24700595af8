// api/dao/retention_dao.go
package dao

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
)

// RetentionDAO hard-deletes rows past the retention watermark. The sweeper
// drives it family by family in foreign-key order, children before parents.
type RetentionDAO struct {
	DB *gorm.DB
}

func NewRetentionDAO(db *gorm.DB) *RetentionDAO {
	return &RetentionDAO{DB: db}
}

func (dao *RetentionDAO) purgeStale(ctx context.Context, family string, entity interface{}, watermark time.Time) (int64, error) {
	result := dao.DB.WithContext(ctx).
		Where("is_deleted = ? AND updated_at < ?", true, watermark).
		Delete(entity)
	if result.Error != nil {
		logger.Error("Retention delete failed", zap.Error(result.Error), zap.String("family", family))
		return 0, rollcall_errors.ErrDatabaseOperation
	}
	return result.RowsAffected, nil
}

func (dao *RetentionDAO) PurgeChecks(ctx context.Context, watermark time.Time) (int64, error) {
	return dao.purgeStale(ctx, "attendance_checks", &model.AttendanceCheck{}, watermark)
}

func (dao *RetentionDAO) PurgeAttendances(ctx context.Context, watermark time.Time) (int64, error) {
	return dao.purgeStale(ctx, "course_attendances", &model.CourseAttendance{}, watermark)
}

// PurgeTeacherLinks removes assignments whose course or user is already gone
// or stale. Links have no soft-delete flag of their own; age alone decides.
func (dao *RetentionDAO) PurgeTeacherLinks(ctx context.Context, watermark time.Time) (int64, error) {
	result := dao.DB.WithContext(ctx).
		Where("updated_at < ? AND (course_id IN (SELECT id FROM courses WHERE is_deleted = true) OR user_id IN (SELECT id FROM users WHERE is_deleted = true))", watermark).
		Delete(&model.CourseTeacher{})
	if result.Error != nil {
		logger.Error("Retention delete failed", zap.Error(result.Error), zap.String("family", "course_teachers"))
		return 0, rollcall_errors.ErrDatabaseOperation
	}
	return result.RowsAffected, nil
}

// PurgeRefreshTokens removes tokens that expired before the watermark,
// revoked or not; an expired token can never be redeemed again.
func (dao *RetentionDAO) PurgeRefreshTokens(ctx context.Context, watermark time.Time) (int64, error) {
	result := dao.DB.WithContext(ctx).
		Where("expires_at < ?", watermark).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.Error("Retention delete failed", zap.Error(result.Error), zap.String("family", "refresh_tokens"))
		return 0, rollcall_errors.ErrDatabaseOperation
	}
	return result.RowsAffected, nil
}

func (dao *RetentionDAO) PurgeCourses(ctx context.Context, watermark time.Time) (int64, error) {
	return dao.purgeStale(ctx, "courses", &model.Course{}, watermark)
}

func (dao *RetentionDAO) PurgeUsers(ctx context.Context, watermark time.Time) (int64, error) {
	return dao.purgeStale(ctx, "users", &model.User{}, watermark)
}

// PurgeOrphanedReferenceData removes reference rows no surviving entity
// points at. Reference tables go last so earlier deletes can orphan them.
func (dao *RetentionDAO) PurgeOrphanedReferenceData(ctx context.Context) (int64, error) {
	var total int64

	result := dao.DB.WithContext(ctx).
		Where("id NOT IN (SELECT DISTINCT type_id FROM course_attendances)").
		Delete(&model.AttendanceType{})
	if result.Error != nil {
		logger.Error("Retention delete failed", zap.Error(result.Error), zap.String("family", "attendance_types"))
		return total, rollcall_errors.ErrDatabaseOperation
	}
	total += result.RowsAffected

	result = dao.DB.WithContext(ctx).
		Where("id NOT IN (SELECT DISTINCT status_id FROM courses)").
		Delete(&model.CourseStatus{})
	if result.Error != nil {
		logger.Error("Retention delete failed", zap.Error(result.Error), zap.String("family", "course_statuses"))
		return total, rollcall_errors.ErrDatabaseOperation
	}
	total += result.RowsAffected

	return total, nil
}
