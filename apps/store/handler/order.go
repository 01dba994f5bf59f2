package handler

import (
	"go-teashop/apps/store/middleware"
	"go-teashop/apps/store/service"
	"go-teashop/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreateOrder 下单入口
func (h *Handler) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, 400, err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), &in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, orderJSON(order))
}

// GetOrder 订单查询，顾客用来查单，不需要登录
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, orderJSON(order))
}

// ListOrders 后台订单列表，新的在前
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	response.OK(c, out)
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, err.Error())
		return
	}

	staff := middleware.StaffFromContext(c)
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status, staff)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, orderJSON(order))
}

// OrderStats 后台订单统计
func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, stats)
}
