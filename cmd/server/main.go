package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/linjx/gomall/internal/cart/application"
	cartdomain "github.com/linjx/gomall/internal/cart/domain"
	cartcatalog "github.com/linjx/gomall/internal/cart/infrastructure/catalog"
	cartmsg "github.com/linjx/gomall/internal/cart/infrastructure/messaging"
	cartmysql "github.com/linjx/gomall/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/linjx/gomall/internal/cart/interfaces/http"
	catalogapp "github.com/linjx/gomall/internal/catalog/application"
	catalogdomain "github.com/linjx/gomall/internal/catalog/domain"
	catalogcache "github.com/linjx/gomall/internal/catalog/infrastructure/cache"
	catalogmsg "github.com/linjx/gomall/internal/catalog/infrastructure/messaging"
	catalogmysql "github.com/linjx/gomall/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/linjx/gomall/internal/catalog/interfaces/http"
	identityapp "github.com/linjx/gomall/internal/identity/application"
	identitydomain "github.com/linjx/gomall/internal/identity/domain"
	identitymsg "github.com/linjx/gomall/internal/identity/infrastructure/messaging"
	identitymysql "github.com/linjx/gomall/internal/identity/infrastructure/persistence/mysql"
	identityhttp "github.com/linjx/gomall/internal/identity/interfaces/http"
	orderapp "github.com/linjx/gomall/internal/order/application"
	orderdomain "github.com/linjx/gomall/internal/order/domain"
	ordercart "github.com/linjx/gomall/internal/order/infrastructure/cart"
	ordermsg "github.com/linjx/gomall/internal/order/infrastructure/messaging"
	ordermysql "github.com/linjx/gomall/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/linjx/gomall/internal/order/interfaces/http"
	"github.com/linjx/gomall/internal/sequence"
	wishlistapp "github.com/linjx/gomall/internal/wishlist/application"
	wishlistdomain "github.com/linjx/gomall/internal/wishlist/domain"
	wishlistmsg "github.com/linjx/gomall/internal/wishlist/infrastructure/messaging"
	wishlistmysql "github.com/linjx/gomall/internal/wishlist/infrastructure/persistence/mysql"
	wishlisthttp "github.com/linjx/gomall/internal/wishlist/interfaces/http"
	"github.com/linjx/gomall/pkg/cache"
	"github.com/linjx/gomall/pkg/config"
	"github.com/linjx/gomall/pkg/db"
	"github.com/linjx/gomall/pkg/logger"
	"github.com/linjx/gomall/pkg/metrics"
	"github.com/linjx/gomall/pkg/middleware"
	"github.com/linjx/gomall/pkg/mq"
	"github.com/linjx/gomall/pkg/response"
	"github.com/linjx/gomall/pkg/token"
)

var configPath = flag.String("config", "configs/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	ctx := context.Background()

	// 3. 指标
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Warn(ctx, "failed to register metrics", "error", err)
		}
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&sequence.CounterModel{},
			&identitydomain.User{},
			&catalogdomain.Product{},
			&cartdomain.Cart{},
			&cartdomain.CartItem{},
			&wishlistdomain.Wishlist{},
			&wishlistdomain.WishlistEntry{},
			&ordermysql.OrderModel{},
			&ordermysql.OrderItemModel{},
		); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	// 5. Redis（可选，失败时目录查询退化为直查数据库）
	var redisCache *cache.RedisCache
	if rc, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}); err != nil {
		logger.Warn(ctx, "redis unavailable, product cache disabled", "error", err)
	} else {
		redisCache = rc
		defer redisCache.Close()
	}

	// 6. Kafka（可选）
	var producer *mq.KafkaProducer
	if cfg.Kafka.Enabled {
		producer = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		defer producer.Close()
	}

	// 7. 仓储与基础设施
	allocator := sequence.NewMySQLAllocator(database.DB)
	tokens := token.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	userRepo := identitymysql.NewUserRepository(database.DB)
	productRepo := catalogmysql.NewProductRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	wishlistRepo := wishlistmysql.NewWishlistRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)

	var cacheInvalidator catalogapp.ProductCacheInvalidator
	var cacheReader catalogapp.ProductCache
	if redisCache != nil {
		productCache := catalogcache.NewProductCache(redisCache, time.Duration(cfg.Redis.ProductCacheTTL)*time.Second)
		cacheInvalidator = productCache
		cacheReader = productCache
	}

	var identityPublisher identitydomain.EventPublisher
	var catalogPublisher catalogdomain.EventPublisher
	var cartPublisher cartdomain.EventPublisher
	var wishlistPublisher wishlistdomain.EventPublisher
	var orderPublisher orderdomain.EventPublisher
	if producer != nil {
		identityPublisher = identitymsg.NewKafkaPublisher(producer)
		catalogPublisher = catalogmsg.NewKafkaPublisher(producer)
		cartPublisher = cartmsg.NewKafkaPublisher(producer)
		wishlistPublisher = wishlistmsg.NewKafkaPublisher(producer)
		orderPublisher = ordermsg.NewKafkaPublisher(producer)
	}

	// 8. 应用服务
	authCmd := identityapp.NewAuthCommandService(userRepo, allocator, tokens, identityPublisher)
	authQuery := identityapp.NewAuthQueryService(userRepo)

	catalogCmd := catalogapp.NewCatalogCommandService(productRepo, allocator, cacheInvalidator, catalogPublisher)
	catalogQuery := catalogapp.NewCatalogQueryService(productRepo, cacheReader)

	lookup := cartcatalog.NewLookup(catalogQuery)
	cartCmd := cartapp.NewCartCommandService(cartRepo, lookup, cartPublisher)
	cartQuery := cartapp.NewCartQueryService(cartRepo)

	wishlistCmd := wishlistapp.NewWishlistCommandService(wishlistRepo, lookup, wishlistPublisher)
	wishlistQuery := wishlistapp.NewWishlistQueryService(wishlistRepo)

	orderCmd := orderapp.NewOrderCommandService(orderRepo, ordercart.NewClearer(cartCmd), orderPublisher)
	orderQuery := orderapp.NewOrderQueryService(orderRepo)

	// 9. 接口层
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
	)
	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithStatus(c, http.StatusNotFound, "route not found")
	})
	r.GET("/health", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context()); err != nil {
			response.ErrorWithStatus(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		response.Success(c, gin.H{"status": "ok", "service": cfg.ServiceName, "version": cfg.Version})
	})

	limiter := middleware.NewRateLimiter(200, 100)
	api := r.Group("/api", middleware.GinRateLimitMiddleware(limiter))
	public := api.Group("")
	authed := api.Group("", middleware.GinAuthMiddleware(tokens))

	identityhttp.NewHandler(authCmd, authQuery, m).RegisterRoutes(public, authed)
	cataloghttp.NewHandler(catalogCmd, catalogQuery).RegisterRoutes(public, authed)
	carthttp.NewHandler(cartCmd, cartQuery, m).RegisterRoutes(authed)
	wishlisthttp.NewHandler(wishlistCmd, wishlistQuery, m).RegisterRoutes(authed)
	orderhttp.NewHandler(orderCmd, orderQuery, m).RegisterRoutes(authed)

	// 10. 启动
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			logger.Info(ctx, "metrics server starting", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
			return metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}
