// Package cart 将购物车命令服务适配为订单侧的清空接口
package cart

import (
	"context"

	cartapp "github.com/linjx/gomall/internal/cart/application"
	"github.com/linjx/gomall/internal/order/application"
)

type clearerAdapter struct {
	cmd *cartapp.CartCommandService
}

// NewClearer 创建购物车清空适配器
func NewClearer(cmd *cartapp.CartCommandService) application.CartClearer {
	return &clearerAdapter{cmd: cmd}
}

// Clear 清空用户购物车
func (a *clearerAdapter) Clear(ctx context.Context, userID string) error {
	return a.cmd.Clear(ctx, userID)
}
