// Package sequence 提供人类可读的递增业务编号分配（如 USR-10001）。
// 业务编号独立于存储主键，分配后永不复用。
package sequence

import (
	"context"
	"fmt"
	"sync"
)

// Kind 编号类别
type Kind string

const (
	// KindUser 用户编号
	KindUser Kind = "user"
	// KindProduct 商品编号
	KindProduct Kind = "product"
)

// Base 无历史记录时的起始编号
const Base = 10001

var prefixes = map[Kind]string{
	KindUser:    "USR",
	KindProduct: "PRD",
}

// Format 将编号格式化为带前缀的业务编号
func Format(kind Kind, n int64) string {
	return fmt.Sprintf("%s-%d", prefixes[kind], n)
}

// Allocator 编号分配器。Next 必须在并发调用下保证编号唯一。
type Allocator interface {
	Next(ctx context.Context, kind Kind) (string, error)
}

// MemoryAllocator 进程内分配器，测试用
type MemoryAllocator struct {
	mu       sync.Mutex
	counters map[Kind]int64
}

// NewMemoryAllocator 创建进程内分配器
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{counters: make(map[Kind]int64)}
}

// Next 实现 Allocator
func (a *MemoryAllocator) Next(ctx context.Context, kind Kind) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, ok := a.counters[kind]
	if !ok {
		n = Base
	} else {
		n++
	}
	a.counters[kind] = n
	return Format(kind, n), nil
}
