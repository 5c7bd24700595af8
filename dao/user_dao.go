// api/dao/user_dao.go
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

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrUserNotFound
	} else if err != nil {
		logger.Error("Failed to load user", zap.Error(err), zap.String("userID", userID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &user, nil
}

func (dao *UserDAO) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := dao.DB.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrUserNotFound
	} else if err != nil {
		logger.Error("Failed to load user by email", zap.Error(err), zap.String("email", email))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &user, nil
}

func (dao *UserDAO) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if err := dao.DB.WithContext(ctx).Create(&user).Error; err != nil {
		logger.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	logger.Info("User created", zap.String("userID", user.ID))
	return &user, nil
}

// userUpdates maps the client-mutable columns so cleared fields (a removed
// photo key) persist instead of being dropped as zero values.
func userUpdates(user model.User, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"email":      user.Email,
		"full_name":  user.FullName,
		"role":       user.Role,
		"photo_key":  user.PhotoKey,
		"updated_at": now,
	}
}

func (dao *UserDAO) Update(ctx context.Context, user model.User) (*model.User, error) {
	user.UpdatedAt = time.Now()
	result := dao.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND is_deleted = ?", user.ID, false).
		Updates(userUpdates(user, user.UpdatedAt))
	if result.Error != nil {
		logger.Error("Failed to update user", zap.Error(result.Error), zap.String("userID", user.ID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, rollcall_errors.ErrUserNotFound
	}
	return &user, nil
}

// SoftDelete flags the user for the retention sweeper instead of removing
// the row outright.
func (dao *UserDAO) SoftDelete(ctx context.Context, userID string) error {
	result := dao.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		logger.Error("Failed to delete user", zap.Error(result.Error), zap.String("userID", userID))
		return rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return rollcall_errors.ErrUserNotFound
	}
	logger.Info("User soft-deleted", zap.String("userID", userID))
	return nil
}
