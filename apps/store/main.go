package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-teashop/apps/store/handler"
	"go-teashop/apps/store/middleware"
	"go-teashop/apps/store/model"
	"go-teashop/apps/store/mq"
	"go-teashop/apps/store/search"
	"go-teashop/apps/store/service"
	"go-teashop/pkg/config"
	"go-teashop/pkg/database"
	"go-teashop/pkg/discovery"
	"go-teashop/pkg/jwt"
	"go-teashop/pkg/logger"
	"go-teashop/pkg/storage"
	"go-teashop/pkg/tracer"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// 限流资源名称
const ResOrderCreate = "order_create_api"

// initSentinel 初始化下单接口的流控规则
func initSentinel() {
	err := sentinel.InitDefault()
	if err != nil {
		log.Fatalf("初始化 Sentinel 失败: %v", err)
	}

	_, err = flow.LoadRules([]*flow.Rule{
		{
			Resource:               ResOrderCreate, // 资源名称
			TokenCalculateStrategy: flow.Direct,    // 直接计数
			ControlBehavior:        flow.Reject,    // 超了直接拒绝
			Threshold:              20,             // QPS 限制为 20
			StatIntervalInMs:       1000,           // 统计周期 1秒
		},
	})
	if err != nil {
		log.Fatalf("加载 Sentinel 规则失败: %v", err)
	}
	log.Println("Sentinel 限流规则已加载: 下单接口 QPS Limit = 20")
}

func main() {
	// 1. 加载配置
	c, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sugar, err := logger.Init(os.Getenv("APP_ENV") != "production")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer sugar.Sync()

	jwt.SetSecret(c.Jwt.Secret)

	// 2. 链路追踪 (配了 Jaeger 才开)
	if c.Jaeger.Endpoint != "" {
		tp, err := tracer.InitTracer(c.Service.Name, c.Jaeger.Endpoint)
		if err != nil {
			sugar.Warnf("Init tracer failed: %v", err)
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// 3. 初始化数据库
	db, err := database.InitMySQL(c.Mysql)
	if err != nil {
		sugar.Fatalf("Failed to init mysql: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Banner{},
		&model.Order{},
		&model.OrderItem{},
		&model.StaffUser{},
	); err != nil {
		sugar.Fatalf("Failed to migrate: %v", err)
	}

	// 4. Redis 列表缓存 (可选)
	var rdb *redis.Client
	if c.Redis.Address != "" {
		rdb, err = database.InitRedis(c.Redis)
		if err != nil {
			sugar.Warnf("Redis unavailable, list cache disabled: %v", err)
			rdb = nil
		}
	}

	// 5. 商品搜索索引 (可选，不配则搜索走数据库 LIKE)
	var indexer service.ProductIndexer
	if c.Elastic.Address != "" {
		es, err := search.NewESIndexer(c.Elastic.Address, c.Elastic.Index)
		if err != nil {
			sugar.Warnf("Elasticsearch unavailable, search falls back to LIKE: %v", err)
		} else {
			indexer = es
		}
	}

	// 6. 订单事件 (可选)
	var events service.EventPublisher
	if c.Rabbitmq.Url != "" {
		pub, err := mq.NewPublisher(c.Rabbitmq.Url, c.Rabbitmq.Exchange)
		if err != nil {
			sugar.Warnf("RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	// 7. 图片存储
	mediaDir := c.Media.Dir
	if mediaDir == "" {
		mediaDir = "media"
	}
	media := storage.NewLocalStore(mediaDir, c.Media.BaseUrl)

	// 8. 业务装配
	catalog := service.NewCatalogService(db, sugar, indexer)
	banners := service.NewBannerService(db, sugar)
	orders := service.NewOrderService(db, sugar, events)
	staffs := service.NewStaffService(db, sugar)

	if err := staffs.SeedAdmin(context.Background(), c.Admin.Username, c.Admin.Password); err != nil {
		sugar.Fatalf("Failed to seed admin account: %v", err)
	}

	// 9. 限流
	initSentinel()

	// 10. 启动 Gin
	r := gin.New()
	r.Use(gin.Logger())
	// 没兜住的 panic 也按统一错误结构返回，不能把请求搞挂
	r.Use(gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		sugar.Errorw("panic recovered", "err", recovered)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))
	if c.Jaeger.Endpoint != "" {
		r.Use(otelgin.Middleware(c.Service.Name))
	}
	r.Static("/media", mediaDir)

	h := handler.New(catalog, banners, orders, staffs, rdb, media, sugar)
	h.Register(r, middleware.RateLimit(ResOrderCreate))

	// 注册到 Consul (可选)
	if c.Consul.Address != "" {
		if err := discovery.RegisterService(c.Service.Name, c.Service.Port, c.Consul.Address); err != nil {
			sugar.Warnf("Failed to register service: %v", err)
		}
	}

	addr := fmt.Sprintf(":%d", c.Service.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		sugar.Infof("Teashop API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("server shutdown: %v", err)
	}
}
