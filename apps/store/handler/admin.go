package handler

import (
	"net/http"

	"go-teashop/apps/store/middleware"
	"go-teashop/pkg/response"

	"github.com/gin-gonic/gin"
)

// payloadOpts 管理端入参适配
// JSON 请求原样收；表单请求全是字符串，勾选框勾上提交 "on"，没勾不提交
type payloadOpts struct {
	// 归一化为布尔: 出现且为 "on" 是 true，没出现就是 false
	checkboxes []string
	// 只在出现时归一化 (没出现则保持原值不动)
	presentCheckboxes []string
	// 表单带图片文件时存到这个子目录
	imageSubdir string
}

// adminPayload 把 JSON 或表单请求统一收敛成字段表
func (h *Handler) adminPayload(c *gin.Context, opts payloadOpts) (map[string]interface{}, bool) {
	data := map[string]interface{}{}

	if c.ContentType() == "application/json" {
		if err := c.ShouldBindJSON(&data); err != nil {
			response.Error(c, 400, err.Error())
			return nil, false
		}
		return data, true
	}

	// 表单 (multipart 或 urlencoded)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		response.Error(c, 400, err.Error())
		return nil, false
	}
	for key, vals := range c.Request.PostForm {
		if len(vals) > 0 {
			data[key] = vals[0]
		}
	}

	for _, f := range opts.checkboxes {
		data[f] = data[f] == "on"
	}
	for _, f := range opts.presentCheckboxes {
		if v, present := data[f]; present {
			data[f] = v == "on"
		}
	}

	// 带图片就先落盘，把引用塞进字段表
	if file, err := c.FormFile("image"); err == nil && h.media != nil {
		ref, err := h.media.Save(file, opts.imageSubdir)
		if err != nil {
			h.log.Errorw("save uploaded image failed", "err", err)
			response.Error(c, 500, "failed to store image")
			return nil, false
		}
		data["image"] = ref
	}

	return data, true
}

// ---------- 商品 ----------

func (h *Handler) CreateProduct(c *gin.Context) {
	data, ok := h.adminPayload(c, payloadOpts{
		checkboxes:  []string{"is_available", "is_featured"},
		imageSubdir: "products",
	})
	if !ok {
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), middleware.StaffFromContext(c), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// 商品数变了，分类缓存作废
	h.invalidateCache(c, cacheKeyCategories)
	response.Created(c, productJSON(p))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	data, ok := h.adminPayload(c, payloadOpts{
		checkboxes:  []string{"is_available", "is_featured"},
		imageSubdir: "products",
	})
	if !ok {
		return
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), middleware.StaffFromContext(c), id, data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, productJSON(p))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), middleware.StaffFromContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyCategories)
	response.OK(c, gin.H{"message": "product deleted"})
}

// ---------- 分类 ----------

func (h *Handler) CreateCategory(c *gin.Context) {
	// 分类表单的勾选框只在出现时才动，不出现保持默认启用
	data, ok := h.adminPayload(c, payloadOpts{
		presentCheckboxes: []string{"is_active"},
	})
	if !ok {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), middleware.StaffFromContext(c), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyCategories)
	response.Created(c, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	data, ok := h.adminPayload(c, payloadOpts{
		presentCheckboxes: []string{"is_active"},
	})
	if !ok {
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), middleware.StaffFromContext(c), id, data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyCategories)
	response.OK(c, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), middleware.StaffFromContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyCategories)
	response.OK(c, gin.H{"message": "category deleted"})
}

// ---------- 轮播图 ----------

func (h *Handler) CreateBanner(c *gin.Context) {
	data, ok := h.adminPayload(c, payloadOpts{
		checkboxes:  []string{"is_active"},
		imageSubdir: "banners",
	})
	if !ok {
		return
	}

	b, err := h.banners.Create(c.Request.Context(), middleware.StaffFromContext(c), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyBanners)
	response.Created(c, b)
}

func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	data, ok := h.adminPayload(c, payloadOpts{
		checkboxes:  []string{"is_active"},
		imageSubdir: "banners",
	})
	if !ok {
		return
	}

	b, err := h.banners.Update(c.Request.Context(), middleware.StaffFromContext(c), id, data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyBanners)
	response.OK(c, b)
}

func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.banners.Delete(c.Request.Context(), middleware.StaffFromContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.invalidateCache(c, cacheKeyBanners)
	response.OK(c, gin.H{"message": "banner deleted"})
}
