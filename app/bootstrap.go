// app/bootstrap.go
package app

import (
	"context"
	"log"

	"gadgetdesk/auth"
	"gadgetdesk/db"
	"gadgetdesk/models"

	"github.com/google/uuid"
)

// BootstrapFirstAdmin 首次启动时从环境变量建第一个管理员；已有管理员则跳过
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap admin check failed: %v", err)
		return
	}
	if n > 0 {
		return
	}

	hash, err := auth.HashPassword(cfg.BootstrapPassword)
	if err != nil {
		log.Printf("bootstrap admin hash failed: %v", err)
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        cfg.BootstrapEmail,
		Name:         cfg.BootstrapName,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap admin failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] No admin found, created first admin %s", cfg.BootstrapEmail)
}
