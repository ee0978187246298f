// Package mysql 提供用户仓储接口的 GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linjx/gomall/internal/identity/domain"
	"github.com/linjx/gomall/pkg/logger"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Save 实现 domain.UserRepository.Save
func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		logger.Error(ctx, "user_repository.save failed", "user_id", user.UserID, "error", err)
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetByEmail 实现 domain.UserRepository.GetByEmail
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "user_repository.get_by_email failed", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUserID 实现 domain.UserRepository.GetByUserID
func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "user_repository.get_by_user_id failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
