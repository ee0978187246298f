package sequence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CounterModel 编号计数器表，每个类别一行
type CounterModel struct {
	Name  string `gorm:"column:name;type:varchar(32);primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

// TableName 指定表名
func (CounterModel) TableName() string { return "counters" }

type mysqlAllocator struct {
	db *gorm.DB
}

// NewMySQLAllocator 创建基于 MySQL 计数器表的分配器
func NewMySQLAllocator(db *gorm.DB) Allocator {
	return &mysqlAllocator{db: db}
}

// Next 实现 Allocator。
// 通过 LAST_INSERT_ID(expr) 在单条原子语句内完成“递增并取回”，
// 并发注册不会出现丢失更新，取回必须与写入在同一连接上执行。
func (a *mysqlAllocator) Next(ctx context.Context, kind Kind) (string, error) {
	var value int64
	err := a.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		res := conn.Exec(
			"INSERT INTO counters (name, value) VALUES (?, LAST_INSERT_ID(?)) "+
				"ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)",
			string(kind), int64(Base),
		)
		if res.Error != nil {
			return res.Error
		}
		return conn.Raw("SELECT LAST_INSERT_ID()").Scan(&value).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s sequence: %w", kind, err)
	}
	return Format(kind, value), nil
}
