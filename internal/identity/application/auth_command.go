package application

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/linjx/gomall/internal/identity/domain"
	"github.com/linjx/gomall/internal/sequence"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/token"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	repo      domain.UserRepository
	allocator sequence.Allocator
	tokens    *token.Manager
	publisher domain.EventPublisher
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	repo domain.UserRepository,
	allocator sequence.Allocator,
	tokens *token.Manager,
	publisher domain.EventPublisher,
) *AuthCommandService {
	return &AuthCommandService{
		repo:      repo,
		allocator: allocator,
		tokens:    tokens,
		publisher: publisher,
	}
}

// Register 处理用户注册，邮箱大小写不敏感，业务编号一次性分配
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(cmd.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	userID, err := s.allocator.Next(ctx, sequence.KindUser)
	if err != nil {
		return nil, apperr.Internal("failed to allocate user identifier", err)
	}

	user := &domain.User{
		UserID:       userID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(cmd.Phone),
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			UserID:    user.UserID,
			Email:     user.Email,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "user.registered", user.UserID, event)
	}

	return user, nil
}

// Login 处理用户登录，凭证校验通过后签发 token
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Auth("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, apperr.Auth("invalid credentials")
	}

	raw, expiresAt, err := s.tokens.Sign(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.UserLoggedInEvent{
			UserID:    user.UserID,
			Email:     user.Email,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "user.logged_in", user.UserID, event)
	}

	return &LoginResult{Token: raw, ExpiresAt: expiresAt, UserID: user.UserID}, nil
}

// AddPhone 更新用户联系电话
func (s *AuthCommandService) AddPhone(ctx context.Context, userID, phone string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperr.Validation("phone is required")
	}

	user, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	user.Phone = phone
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
