// controllers/gadget_controller.go
package controllers

import (
	"net/http"

	"gadgetdesk/app"
	"gadgetdesk/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GadgetController struct{ *Srv }

func NewGadgetController(s *Srv) *GadgetController { return &GadgetController{Srv: s} }

// GET /api/gadgets
func (gc *GadgetController) ListGadgets(c *gin.Context) {
	gs, err := gc.Repo.ListGadgets(c.Request.Context())
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

// GET /api/gadgets/:id 含分配/申请历史
func (gc *GadgetController) GetGadget(c *gin.Context) {
	d, err := gc.Repo.GetGadgetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/gadgets 管理员创建设备
func (gc *GadgetController) CreateGadget(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required,min=2"`
		Description string `json:"description"`
		Quantity    *int   `json:"quantity" binding:"required,min=0"`
		Status      string `json:"status"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}
	status := in.Status
	if status == "" {
		status = models.StatusAvailable
	}
	if !models.ValidGadgetStatus(status) {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid status"})
		return
	}

	g := &models.Gadget{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Quantity:    *in.Quantity,
		Status:      status,
		Category:    in.Category,
	}
	if err := gc.Repo.CreateGadget(c.Request.Context(), g); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// PUT /api/gadgets/:id 部分更新
func (gc *GadgetController) UpdateGadget(c *gin.Context) {
	var in struct {
		Name        *string `json:"name" binding:"omitempty,min=2"`
		Description *string `json:"description"`
		Quantity    *int    `json:"quantity" binding:"omitempty,min=0"`
		Status      *string `json:"status"`
		Category    *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Quantity != nil {
		fields["quantity"] = *in.Quantity
	}
	if in.Status != nil {
		if !models.ValidGadgetStatus(*in.Status) {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid status"})
			return
		}
		fields["status"] = *in.Status
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}

	g, err := gc.Repo.UpdateGadget(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DELETE /api/gadgets/:id
func (gc *GadgetController) DeleteGadget(c *gin.Context) {
	if err := gc.Repo.DeleteGadget(c.Request.Context(), c.Param("id")); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "Gadget deleted successfully"})
}

// POST /api/gadgets/:id/adjust 管理员修正库存（原子加减）
func (gc *GadgetController) AdjustQuantity(c *gin.Context) {
	var in struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}
	g, err := gc.Repo.AdjustQuantity(c.Request.Context(), c.Param("id"), *in.Delta)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
