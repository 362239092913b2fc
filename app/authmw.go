package app

import (
	"net/http"
	"strings"

	"gadgetdesk/auth"
	"gadgetdesk/db"
	"gadgetdesk/models"
	"gadgetdesk/session"

	"github.com/gin-gonic/gin"
)

// AuthRequired 校验 Bearer 令牌：签名有效、JTI 未被撤销、用户仍存在。
// 角色只在这里取一次，后续 handler 从上下文拿。
func AuthRequired(tokens *session.TokenStore, repo *db.Repo, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		claims, err := auth.ValidateToken(cfg.JWTSecret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid or expired token"})
			return
		}

		// 撤销检查：登出或删号后的令牌在 Redis 里已不存在
		if _, err := tokens.Get(c.Request.Context(), claims.ID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid or expired token"})
			return
		}

		// 确认用户仍存在，并以数据库里的角色为准（只查一次）
		u, err := repo.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = tokens.Delete(c.Request.Context(), claims.ID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("email", u.Email)
		c.Set("role", u.Role)
		c.Set("isAdmin", u.Role == models.RoleAdmin)
		c.Set("jti", claims.ID)

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("isAdmin")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if isAdmin, _ := v.(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Subject 取出当前调用者身份
func Subject(c *gin.Context) (userID string, isAdmin bool) {
	if v, ok := c.Get("userID"); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get("isAdmin"); ok {
		isAdmin, _ = v.(bool)
	}
	return userID, isAdmin
}
