// controllers/auth_controller.go
package controllers

import (
	"net/http"

	"gadgetdesk/app"
	"gadgetdesk/auth"
	"gadgetdesk/db"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
			return
		}
		respondRepoError(c, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	token, err := ac.issueToken(c.Request.Context(), u)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u, "token": token})
}

// GET /auth/me
func (ac *AuthController) Me(c *gin.Context) {
	userID, _ := app.Subject(c)
	u, err := ac.Repo.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// POST /auth/logout 撤销当前令牌
func (ac *AuthController) Logout(c *gin.Context) {
	if v, ok := c.Get("jti"); ok {
		if jti, _ := v.(string); jti != "" {
			_ = ac.Tokens.Delete(c.Request.Context(), jti)
		}
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
