// controllers/srv.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"gadgetdesk/app"
	"gadgetdesk/auth"
	"gadgetdesk/db"
	"gadgetdesk/models"
	"gadgetdesk/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Srv struct {
	Repo   *db.Repo
	Tokens *session.TokenStore
	Cfg    app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:   db.NewRepo(a.DB),
		Tokens: a.Tokens(),
		Cfg:    a.Config,
	}
}

// --- helpers ---

// 登录成功：签发令牌 + 注册 JTI + 触发登录快照
func (s *Srv) issueToken(ctx context.Context, u *models.User) (string, error) {
	token, jti, err := auth.GenerateToken(s.Cfg.JWTSecret, u.ID, u.Email, u.Role, s.Cfg.TokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.Tokens.Create(ctx, jti, u.ID); err != nil {
		return "", err
	}
	// 登录快照失败不阻塞签发
	if err := s.Repo.TouchUserLogin(ctx, u.ID); err != nil {
		log.Printf("touch login: %v", err)
	}
	return token, nil
}

// 业务错误统一映射到 HTTP 状态码；其余一律 500，不外泄内部细节
func respondRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, db.ErrForbidden):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrOutOfStock),
		errors.Is(err, db.ErrInsufficientStock),
		errors.Is(err, db.ErrAlreadyReturned),
		errors.Is(err, db.ErrAlreadyProcessed),
		errors.Is(err, db.ErrOnlyPendingDeletable),
		errors.Is(err, db.ErrEmailTaken),
		errors.Is(err, db.ErrUserHasOpenLoans):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}
