package application

import (
	"context"

	"github.com/linjx/gomall/internal/identity/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	repo domain.UserRepository
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(repo domain.UserRepository) *AuthQueryService {
	return &AuthQueryService{repo: repo}
}

// Profile 获取用户资料
func (s *AuthQueryService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}
