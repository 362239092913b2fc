package controllers

import (
	"net/http"
	"strconv"

	"gadgetdesk/app"
	"gadgetdesk/auth"
	"gadgetdesk/db"
	"gadgetdesk/models"
	"gadgetdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	repo   *db.Repo
	tokens *session.TokenStore
	cfg    app.Config
}

func GetUserController(repo *db.Repo, tokens *session.TokenStore, cfg app.Config) *UserController {
	return &UserController{repo: repo, tokens: tokens, cfg: cfg}
}

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// GET /api/users/:id 含该用户的分配与申请历史
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	d, err := uc.repo.GetUserDetail(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/users 管理员建用户
func (uc *UserController) CreateUser(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required,min=2"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := uc.repo.CreateUser(c.Request.Context(), u); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	// 不允许删除自己，避免锁死
	if callerID, _ := app.Subject(c); callerID == id {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	if err := uc.repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	// 关键：撤销该用户的所有令牌
	_ = uc.tokens.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"message": "User deleted successfully"})
}
