// Package utils 提供分页与重试等通用工具
package utils

import "time"

// Pagination 分页信息
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int64 `json:"pages"`
}

// NewPagination 创建分页信息，页码与页大小会被约束到合法范围
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return &Pagination{Page: page, PageSize: pageSize}
}

// SetTotal 设置总记录数并计算总页数
func (p *Pagination) SetTotal(total int64) {
	p.Total = total
	p.Pages = (total + int64(p.PageSize) - 1) / int64(p.PageSize)
}

// Offset 获取数据库查询偏移量
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit 获取数据库查询限制
func (p *Pagination) Limit() int {
	return p.PageSize
}

// Retry 重试函数，固定间隔
func Retry(maxAttempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < maxAttempts-1 {
			time.Sleep(delay)
		}
	}
	return lastErr
}
