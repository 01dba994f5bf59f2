package handler

import (
	"errors"

	"go-teashop/apps/store/middleware"
	"go-teashop/apps/store/service"
	"go-teashop/pkg/response"
	"go-teashop/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handler 持有全部依赖，路由统一在 Register 里挂
type Handler struct {
	catalog *service.CatalogService
	banners *service.BannerService
	orders  *service.OrderService
	staffs  *service.StaffService
	rdb     *redis.Client      // 列表缓存，可以为 nil
	media   storage.MediaStore // 图片存储，可以为 nil
	log     *zap.SugaredLogger
}

func New(
	catalog *service.CatalogService,
	banners *service.BannerService,
	orders *service.OrderService,
	staffs *service.StaffService,
	rdb *redis.Client,
	media storage.MediaStore,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		catalog: catalog,
		banners: banners,
		orders:  orders,
		staffs:  staffs,
		rdb:     rdb,
		media:   media,
		log:     log,
	}
}

// Register 挂载全部路由
// rateLimit 是下单接口的限流中间件，传 nil 则不限流 (测试用)
func (h *Handler) Register(r *gin.Engine, rateLimit gin.HandlerFunc) {
	v1 := r.Group("/api/v1")

	// 公开接口
	{
		v1.GET("/categories", h.ListCategories)
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/featured", h.FeaturedProducts)
		v1.GET("/products/stats", h.ProductStats)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/banners", h.ListBanners)
		v1.GET("/orders/:id", h.GetOrder)
		v1.POST("/auth/login", h.Login)

		if rateLimit != nil {
			v1.POST("/orders", rateLimit, h.CreateOrder)
		} else {
			v1.POST("/orders", h.CreateOrder)
		}
	}

	// 员工接口
	authed := v1.Group("/", middleware.StaffAuth())
	{
		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/stats", h.OrderStats)
		authed.PATCH("/orders/:id/status", h.UpdateOrderStatus)

		admin := authed.Group("/admin")
		admin.POST("/products", h.CreateProduct)
		admin.PATCH("/products/:id", h.UpdateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.POST("/categories", h.CreateCategory)
		admin.PATCH("/categories/:id", h.UpdateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		admin.POST("/banners", h.CreateBanner)
		admin.PATCH("/banners/:id", h.UpdateBanner)
		admin.PUT("/banners/:id", h.UpdateBanner)
		admin.DELETE("/banners/:id", h.DeleteBanner)
	}
}

// writeError 业务错误到 HTTP 的唯一翻译点
// 没识别出来的内部错误一律 500 + 通用文案，不往外漏细节
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		response.Error(c, 400, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, 404, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Error(c, 409, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		response.Error(c, 401, "unauthorized")
	default:
		h.log.Errorw("internal error", "path", c.FullPath(), "err", err)
		response.Error(c, 500, "internal server error")
	}
}
