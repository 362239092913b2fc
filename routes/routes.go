package routes

import (
	"time"

	"gadgetdesk/app"
	"gadgetdesk/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	gadgetCtl := controllers.NewGadgetController(s)
	assignCtl := controllers.NewAssignmentController(s)
	reqCtl := controllers.NewRequestController(s)
	uc := controllers.GetUserController(s.Repo, s.Tokens, a.Config)

	// 复用的中间件
	authMW := app.AuthRequired(s.Tokens, s.Repo, a.Config)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 认证（公开 + 受保护）
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.GET("/me", authCtl.Me)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// 设备
	// ------------------------------
	gadgets := r.Group("/api/gadgets", authMW, seenMW)
	{
		gadgets.GET("", gadgetCtl.ListGadgets)
		gadgets.GET("/:id", gadgetCtl.GetGadget)
	}
	gadgetsAdmin := r.Group("/api/gadgets", authMW, adminMW)
	{
		gadgetsAdmin.POST("", gadgetCtl.CreateGadget)
		gadgetsAdmin.PUT("/:id", gadgetCtl.UpdateGadget)
		gadgetsAdmin.DELETE("/:id", gadgetCtl.DeleteGadget)
		gadgetsAdmin.POST("/:id/adjust", gadgetCtl.AdjustQuantity)
	}

	// ------------------------------
	// 分配
	// ------------------------------
	assignments := r.Group("/api/assignments", authMW, seenMW)
	{
		assignments.GET("", assignCtl.ListAssignments)
		assignments.PUT("/:id/return", assignCtl.ReturnAssignment)
	}
	assignmentsAdmin := r.Group("/api/assignments", authMW, adminMW)
	{
		assignmentsAdmin.POST("", assignCtl.CreateAssignment)
		assignmentsAdmin.DELETE("/:id", assignCtl.DeleteAssignment)
	}

	// ------------------------------
	// 申请
	// ------------------------------
	requests := r.Group("/api/requests", authMW, seenMW)
	{
		requests.GET("", reqCtl.ListRequests)
		requests.POST("", reqCtl.CreateRequest)
		requests.DELETE("/:id", reqCtl.DeleteRequest)
	}
	requestsAdmin := r.Group("/api/requests", authMW, adminMW)
	{
		requestsAdmin.PUT("/:id/approve", reqCtl.ApproveRequest)
		requestsAdmin.PUT("/:id/reject", reqCtl.RejectRequest)
	}

	// ------------------------------
	// 用户管理（仅管理员）
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", uc.ListUsers)
		users.GET("/:id", uc.GetUser)
		users.POST("", uc.CreateUser)
		users.DELETE("/:id", uc.DeleteUser)
	}
}
