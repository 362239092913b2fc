package db

import (
	"context"
	"errors"
	"strings"

	"gadgetdesk/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Users

// 用数据库时间，避免并发覆盖：CURRENT_TIMESTAMP + 计数自增
func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"last_seen_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(u.Email)).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	u.Email = strings.ToLower(u.Email)
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// 列表（分页 + 关键词，关键词匹配姓名/邮箱）
type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

// UserDetail 带上该用户的分配与申请历史
type UserDetail struct {
	models.User
	Assignments []models.Assignment `json:"assignments"`
	Requests    []models.Request    `json:"requests"`
}

func (r *Repo) GetUserDetail(ctx context.Context, id string) (*UserDetail, error) {
	u, err := r.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &UserDetail{User: *u}
	if err := r.DB.WithContext(ctx).
		Preload("Gadget").
		Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&d.Assignments).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).
		Preload("Gadget").
		Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&d.Requests).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteUserByID removes a user together with their request and assignment
// history. A user who still holds an unreturned assignment cannot be deleted;
// the stock has to come back first.
func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Assignment{}).
			Where("user_id = ? AND NOT returned", id).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrUserHasOpenLoans
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&n).Error
	return n, err
}

// IsNotFound 统一判断
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
