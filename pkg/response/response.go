package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON 成功响应，直接返回数据本体，前端不用再剥壳
func JSON(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// OK 成功响应 (200)
func OK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// Created 创建成功响应 (201)
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, data)
}

// Error 失败响应，统一 {"error": msg} 结构
func Error(ctx *gin.Context, httpStatus int, msg string) {
	ctx.JSON(httpStatus, gin.H{"error": msg})
}
