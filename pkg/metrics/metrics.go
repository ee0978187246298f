// Package metrics 提供 Prometheus helper，包含 HTTP 与业务指标模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linjx/gomall/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数（按方法、路径、状态码）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 注册用户计数
	UsersRegisteredTotal prometheus.Counter
	// 购物车变更计数（按操作）
	CartOpsTotal *prometheus.CounterVec
	// 心愿单变更计数（按操作）
	WishlistOpsTotal *prometheus.CounterVec
	// 下单计数
	OrdersPlacedTotal prometheus.Counter
	// 订单取消计数
	OrdersCancelledTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		UsersRegisteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "users_registered_total",
			Help:      "Total users registered",
		}),
		CartOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "cart_ops_total",
			Help:      "Total cart mutations",
		}, []string{"op"}),
		WishlistOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "wishlist_ops_total",
			Help:      "Total wishlist mutations",
		}, []string{"op"}),
		OrdersPlacedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "orders_placed_total",
			Help:      "Total orders placed",
		}),
		OrdersCancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "orders_cancelled_total",
			Help:      "Total orders cancelled",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UsersRegisteredTotal,
		m.CartOpsTotal,
		m.WishlistOpsTotal,
		m.OrdersPlacedTotal,
		m.OrdersCancelledTotal,
	}
	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "failed to register metric", "error", err)
			return err
		}
	}
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "prometheus server starting", "addr", addr, "path", path)
	return http.ListenAndServe(addr, mux)
}
