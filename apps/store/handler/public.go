package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"go-teashop/apps/store/service"
	"go-teashop/pkg/response"

	"github.com/gin-gonic/gin"
)

// 列表缓存的 key 和有效期
const (
	cacheKeyBanners    = "cache:banners"
	cacheKeyCategories = "cache:categories"
	cacheTTL           = 5 * time.Minute
)

// ListCategories 全部分类 (带商品数)，Redis 缓存 5 分钟
func (h *Handler) ListCategories(c *gin.Context) {
	if h.serveFromCache(c, cacheKeyCategories) {
		return
	}

	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	payload := categoryListJSON(categories)
	h.putCache(c, cacheKeyCategories, payload)
	response.OK(c, payload)
}

// ListProducts 商品列表: ?category=&size=&featured=&search=&ordering=
func (h *Handler) ListProducts(c *gin.Context) {
	filters := &service.ProductFilters{
		Size:     c.Query("size"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.Error(c, 400, "category must be a number")
			return
		}
		filters.CategoryID = uint(id)
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		filters.Featured = &featured
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, productListJSON(products))
}

// GetProduct 商品详情，下架的等同不存在
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, productJSON(p))
}

// FeaturedProducts 推荐商品
func (h *Handler) FeaturedProducts(c *gin.Context) {
	products, err := h.catalog.FeaturedProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, productListJSON(products))
}

// ProductStats 商品统计
func (h *Handler) ProductStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, stats)
}

// ListBanners 启用的轮播图，Redis 缓存 5 分钟
func (h *Handler) ListBanners(c *gin.Context) {
	if h.serveFromCache(c, cacheKeyBanners) {
		return
	}

	banners, err := h.banners.ListActive(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.putCache(c, cacheKeyBanners, banners)
	response.OK(c, banners)
}

// serveFromCache 命中缓存就直接把 JSON 吐回去
func (h *Handler) serveFromCache(c *gin.Context, key string) bool {
	if h.rdb == nil {
		return false
	}
	val, err := h.rdb.Get(c.Request.Context(), key).Result()
	if err != nil {
		return false
	}
	c.Data(200, "application/json; charset=utf-8", []byte(val))
	return true
}

// putCache 写缓存，失败只记日志
func (h *Handler) putCache(c *gin.Context, key string, payload interface{}) {
	if h.rdb == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := h.rdb.Set(c.Request.Context(), key, body, cacheTTL).Err(); err != nil {
		h.log.Warnw("cache set failed", "key", key, "err", err)
	}
}

// invalidateCache 管理端写操作后删缓存
func (h *Handler) invalidateCache(c *gin.Context, keys ...string) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.Del(c.Request.Context(), keys...).Err(); err != nil {
		h.log.Warnw("cache invalidation failed", "keys", keys, "err", err)
	}
}

// paramID 解析路径里的 :id
func (h *Handler) paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, 400, "invalid id")
		return 0, false
	}
	return uint(id), true
}
