// controllers/assignment_controller.go
package controllers

import (
	"net/http"

	"gadgetdesk/app"
	"gadgetdesk/db"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct{ *Srv }

func NewAssignmentController(s *Srv) *AssignmentController { return &AssignmentController{Srv: s} }

// GET /api/assignments 管理员看全部，用户只看自己的
func (ac *AssignmentController) ListAssignments(c *gin.Context) {
	userID, isAdmin := app.Subject(c)
	scope := userID
	if isAdmin {
		scope = ""
	}
	as, err := ac.Repo.ListAssignments(c.Request.Context(), scope)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// POST /api/assignments 管理员直接分配，扣 1 库存
func (ac *AssignmentController) CreateAssignment(c *gin.Context) {
	var in struct {
		UserID   string `json:"userId" binding:"required,uuid"`
		GadgetID string `json:"gadgetId" binding:"required,uuid"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid input: " + err.Error()})
		return
	}

	a, err := ac.Repo.DirectAssign(c.Request.Context(), db.DirectAssignInput{
		UserID:   in.UserID,
		GadgetID: in.GadgetID,
		Notes:    in.Notes,
	})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// PUT /api/assignments/:id/return 本人或管理员归还
func (ac *AssignmentController) ReturnAssignment(c *gin.Context) {
	userID, isAdmin := app.Subject(c)
	a, err := ac.Repo.ReturnAssignment(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DELETE /api/assignments/:id 管理员删除；未归还的自动补回库存
func (ac *AssignmentController) DeleteAssignment(c *gin.Context) {
	if err := ac.Repo.DeleteAssignment(c.Request.Context(), c.Param("id")); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "Assignment deleted successfully"})
}
