// api/dao/refresh_token_dao.go
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

type RefreshTokenDAO struct {
	DB *gorm.DB
}

func NewRefreshTokenDAO(db *gorm.DB) *RefreshTokenDAO {
	return &RefreshTokenDAO{DB: db}
}

func (dao *RefreshTokenDAO) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var record model.RefreshToken
	err := dao.DB.WithContext(ctx).
		Where("token = ?", token).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rollcall_errors.ErrRefreshTokenExpired
	} else if err != nil {
		logger.Error("Failed to load refresh token", zap.Error(err))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &record, nil
}

func (dao *RefreshTokenDAO) Create(ctx context.Context, record model.RefreshToken) (*model.RefreshToken, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	if err := dao.DB.WithContext(ctx).Create(&record).Error; err != nil {
		logger.Error("Failed to create refresh token", zap.Error(err), zap.String("userID", record.UserID))
		return nil, rollcall_errors.ErrDatabaseOperation
	}
	return &record, nil
}

// Revoke marks the token spent. replacedBy links the successor so redeeming
// leaves an auditable one-way chain.
func (dao *RefreshTokenDAO) Revoke(ctx context.Context, tokenID, replacedBy string) error {
	result := dao.DB.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ? AND revoked = ?", tokenID, false).
		Updates(map[string]interface{}{
			"revoked":           true,
			"replaced_by_token": replacedBy,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		logger.Error("Failed to revoke refresh token", zap.Error(result.Error), zap.String("tokenID", tokenID))
		return rollcall_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return rollcall_errors.ErrRefreshTokenExpired
	}
	return nil
}
