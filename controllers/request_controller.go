// controllers/request_controller.go
package controllers

import (
	"net/http"

	"gadgetdesk/app"
	"gadgetdesk/db"

	"github.com/gin-gonic/gin"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

// GET /api/requests 管理员看全部，用户只看自己的
func (rc *RequestController) ListRequests(c *gin.Context) {
	userID, isAdmin := app.Subject(c)
	scope := userID
	if isAdmin {
		scope = ""
	}
	rs, err := rc.Repo.ListRequests(c.Request.Context(), scope)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

// POST /api/requests 提交申请；库存在审批时才校验
func (rc *RequestController) CreateRequest(c *gin.Context) {
	var in struct {
		GadgetID string `json:"gadgetId" binding:"required,uuid"`
		Reason   string `json:"reason"`
		Quantity int    `json:"quantity" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}
	userID, _ := app.Subject(c)

	req, err := rc.Repo.SubmitRequest(c.Request.Context(), db.SubmitRequestInput{
		UserID:   userID,
		GadgetID: in.GadgetID,
		Quantity: in.Quantity,
		Reason:   in.Reason,
	})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// PUT /api/requests/:id/approve 管理员审批通过，建分配并扣库存
func (rc *RequestController) ApproveRequest(c *gin.Context) {
	res, err := rc.Repo.ApproveRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /api/requests/:id/reject 管理员驳回
func (rc *RequestController) RejectRequest(c *gin.Context) {
	req, err := rc.Repo.RejectRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// DELETE /api/requests/:id 管理员随意；本人只能删 PENDING
func (rc *RequestController) DeleteRequest(c *gin.Context) {
	userID, isAdmin := app.Subject(c)
	if err := rc.Repo.DeleteRequest(c.Request.Context(), c.Param("id"), userID, isAdmin); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "Request deleted successfully"})
}
