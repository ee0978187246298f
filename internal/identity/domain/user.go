package domain

import (
	"context"

	"gorm.io/gorm"
)

// User 用户实体。
// UserID 是注册时一次性分配的业务编号（如 USR-10001），与存储主键无关，永不复用。
// Email 全小写存储，作为登录键唯一。
type User struct {
	gorm.Model
	UserID       string `gorm:"column:user_id;type:varchar(16);uniqueIndex;not null"`
	Name         string `gorm:"column:name;type:varchar(100);not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	Phone        string `gorm:"column:phone;type:varchar(20)"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserRepository 用户仓储接口
type UserRepository interface {
	// Save 保存用户
	Save(ctx context.Context, user *User) error
	// GetByEmail 按邮箱获取用户，不存在时返回 (nil, nil)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByUserID 按业务编号获取用户，不存在时返回 (nil, nil)
	GetByUserID(ctx context.Context, userID string) (*User, error)
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
