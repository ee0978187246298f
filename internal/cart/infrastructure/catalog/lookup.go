// Package catalog 将商品目录查询服务适配为购物车侧的目录接口
package catalog

import (
	"context"

	"github.com/linjx/gomall/internal/cart/application"
	catalogapp "github.com/linjx/gomall/internal/catalog/application"
	"github.com/linjx/gomall/pkg/apperr"
)

type lookupAdapter struct {
	query *catalogapp.CatalogQueryService
}

// NewLookup 创建目录查询适配器
func NewLookup(query *catalogapp.CatalogQueryService) application.CatalogLookup {
	return &lookupAdapter{query: query}
}

// Lookup 查询商品快照，目录侧的 NotFound 转换为 (nil, nil)
func (a *lookupAdapter) Lookup(ctx context.Context, productID string) (*application.ProductInfo, error) {
	product, err := a.query.GetProduct(ctx, productID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application.ProductInfo{
		ProductID: product.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
	}, nil
}
