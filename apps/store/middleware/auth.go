package middleware

import (
	"net/http"
	"strings"

	"go-teashop/apps/store/model"
	"go-teashop/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const staffKey = "staff"

// StaffAuth 员工鉴权中间件
// 解析 Bearer Token 并把员工凭证放进 Context，后续 Handler 显式取出传给业务层
func StaffAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取 Header 里的 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// 2. 格式必须是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		// 3. 解析 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// 4. 必须是员工
		if !claims.IsStaff {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Staff privilege required"})
			c.Abort()
			return
		}

		c.Set(staffKey, &model.Staff{
			ID:       claims.UserId,
			Username: claims.Username,
			IsStaff:  claims.IsStaff,
		})

		c.Next()
	}
}

// StaffFromContext 取出中间件放进去的员工凭证，没有则返回 nil
func StaffFromContext(c *gin.Context) *model.Staff {
	v, ok := c.Get(staffKey)
	if !ok {
		return nil
	}
	staff, ok := v.(*model.Staff)
	if !ok {
		return nil
	}
	return staff
}
