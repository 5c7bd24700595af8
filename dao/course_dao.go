// api/dao/course_dao.go
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

type CourseDAO struct {
	DB *gorm.DB
}

func NewCourseDAO(db *gorm.DB) *CourseDAO {
	return &CourseDAO{DB: db}
}

func (dao *CourseDAO) GetByID(ctx context.Context, courseID string) (*model.Course, error) {
	var course model.Course
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrCourseNotFound
	} else if err != nil {
		logger.Error("Failed to load course", zap.Error(err), zap.String("courseID", courseID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &course, nil
}

func (dao *CourseDAO) ListPage(ctx context.Context, pageNr, pageSize int) ([]model.Course, error) {
	var courses []model.Course
	err := dao.DB.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Offset(pageNr * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	if err != nil {
		logger.Error("Failed to list courses", zap.Error(err), zap.Int("page", pageNr))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return courses, nil
}

func (dao *CourseDAO) Create(ctx context.Context, course model.Course) (*model.Course, error) {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt

	if err := dao.DB.WithContext(ctx).Create(&course).Error; err != nil {
		logger.Error("Failed to create course", zap.Error(err), zap.String("name", course.Name))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	logger.Info("Course created", zap.String("courseID", course.ID))
	return &course, nil
}

// courseUpdates lists the client-mutable columns as a map so zero values
// (an emptied description) stay in the statement; Updates on a struct
// silently drops them.
func courseUpdates(course model.Course, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"name":        course.Name,
		"description": course.Description,
		"status_id":   course.StatusID,
		"updated_at":  now,
	}
}

func (dao *CourseDAO) Update(ctx context.Context, course model.Course) (*model.Course, error) {
	course.UpdatedAt = time.Now()
	result := dao.DB.WithContext(ctx).
		Model(&model.Course{}).
		Where("id = ? AND is_deleted = ?", course.ID, false).
		Updates(courseUpdates(course, course.UpdatedAt))
	if result.Error != nil {
		logger.Error("Failed to update course", zap.Error(result.Error), zap.String("courseID", course.ID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, rollcall_errors.ErrCourseNotFound
	}
	return &course, nil
}

func (dao *CourseDAO) SoftDelete(ctx context.Context, courseID string) error {
	result := dao.DB.WithContext(ctx).
		Model(&model.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		logger.Error("Failed to delete course", zap.Error(result.Error), zap.String("courseID", courseID))
		return rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return rollcall_errors.ErrCourseNotFound
	}
	logger.Info("Course soft-deleted", zap.String("courseID", courseID))
	return nil
}

// CountTeacherLinks returns the number of teacher assignments linking the
// user to the course. Access control treats a positive count as a grant.
func (dao *CourseDAO) CountTeacherLinks(ctx context.Context, courseID, userID string) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).
		Model(&model.CourseTeacher{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count teacher links",
			zap.Error(err),
			zap.String("courseID", courseID),
			zap.String("userID", userID))
		return 0, rollcall_errors.ErrDatabaseOperation
	}
	return count, nil
}

func (dao *CourseDAO) AddTeacher(ctx context.Context, courseID, userID string) error {
	link := model.CourseTeacher{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := dao.DB.WithContext(ctx).Create(&link).Error; err != nil {
		logger.Error("Failed to add teacher link", zap.Error(err), zap.String("courseID", courseID))
		return rollcall_errors.ErrDatabaseOperation
	}
	return nil
}

func (dao *CourseDAO) RemoveTeacher(ctx context.Context, courseID, userID string) error {
	err := dao.DB.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&model.CourseTeacher{}).Error
	if err != nil {
		logger.Error("Failed to remove teacher link", zap.Error(err), zap.String("courseID", courseID))
		return rollcall_errors.ErrDatabaseOperation
	}
	return nil
}

// ListStatuses returns the course status reference table.
func (dao *CourseDAO) ListStatuses(ctx context.Context) ([]model.CourseStatus, error) {
	var statuses []model.CourseStatus
	if err := dao.DB.WithContext(ctx).Order("name").Find(&statuses).Error; err != nil {
		logger.Error("Failed to list course statuses", zap.Error(err))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return statuses, nil
}
