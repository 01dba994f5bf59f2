package handler

import (
	"go-teashop/pkg/response"

	"github.com/gin-gonic/gin"
)

// Login 员工登录，换取 Bearer Token
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, err.Error())
		return
	}

	token, u, err := h.staffs.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, gin.H{
		"token":    token,
		"username": u.Username,
		"is_staff": u.IsStaff,
	})
}
