package app

import (
	"context"
	"log"
	"os"
	"time"

	"gadgetdesk/db"
	"gadgetdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	tokens *session.TokenStore
}

// Config 从环境变量读取
type Config struct {
	RedisAddr string
	RedisPwd  string
	WebOrigin string
	JWTSecret string
	TokenTTL  time.Duration

	BootstrapEmail    string
	BootstrapName     string
	BootstrapPassword string
}

func (a *App) Tokens() *session.TokenStore { return a.tokens }

// New 显式注入依赖，测试用假库也走这里
func New(dbConn *gorm.DB, rdb *redis.Client, cfg Config) *App {
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	return &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		tokens: session.NewTokenStore(rdb, cfg.TokenTTL),
	}
}

func MustNew() *App {
	cfg := loadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	return New(dbConn, rdb, cfg)
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	ttlSec := get("TOKEN_TTL_SECONDS", "86400")
	var ttl time.Duration = 24 * time.Hour
	if d, err := time.ParseDuration(ttlSec + "s"); err == nil {
		ttl = d
	}
	return Config{
		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:5173"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  ttl,

		BootstrapEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapName:     get("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
}
