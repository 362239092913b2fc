// db/repo_requests.go
package db

import (
	"context"
	"time"

	"gadgetdesk/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*models.Request, error) {
	var req models.Request
	if err := r.DB.WithContext(ctx).
		Preload("User").Preload("Gadget").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests 管理员看全部，普通用户只看自己的（userID 为空 = 全部）
func (r *Repo) ListRequests(ctx context.Context, userID string) ([]models.Request, error) {
	q := r.DB.WithContext(ctx).
		Preload("User").Preload("Gadget").
		Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rs []models.Request
	if err := q.Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

type SubmitRequestInput struct {
	UserID   string
	GadgetID string
	Quantity int
	Reason   string
}

// SubmitRequest 提交申请：只校验设备存在，库存在审批时再查
func (r *Repo) SubmitRequest(ctx context.Context, in SubmitRequestInput) (*models.Request, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if err := r.DB.WithContext(ctx).First(&models.Gadget{}, "id = ?", in.GadgetID).Error; err != nil {
		return nil, err
	}
	req := &models.Request{
		ID:       uuid.NewString(),
		UserID:   in.UserID,
		GadgetID: in.GadgetID,
		Status:   models.RequestPending,
		Quantity: in.Quantity,
		Reason:   in.Reason,
	}
	if err := r.DB.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return r.FindRequestByID(ctx, req.ID)
}

type ApprovalResult struct {
	Request    *models.Request    `json:"request"`
	Assignment *models.Assignment `json:"assignment"`
}

// ApproveRequest 审批通过：原子操作 = 状态 PENDING→APPROVED + 扣申请数量的库存
// + 置 IN_USE + 新建分配记录。任一步失败整体回滚。
func (r *Repo) ApproveRequest(ctx context.Context, requestID string) (*ApprovalResult, error) {
	assignmentID := uuid.NewString()
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrAlreadyProcessed
		}

		// 状态翻转是序列化点：并发审批同一申请时，后到的拿不到行
		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", models.RequestApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		// 扣库存 + 置状态；库存不足整体回滚（状态翻转一并撤销）
		res = tx.Model(&models.Gadget{}).
			Where("id = ? AND quantity >= ?", req.GadgetID, req.Quantity).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity - ?", req.Quantity),
				"status":   models.StatusInUse,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Gadget{}).Where("id = ?", req.GadgetID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrInsufficientStock
		}

		notes := "Auto-assigned from request: "
		if req.Reason != "" {
			notes += req.Reason
		} else {
			notes += "No reason provided"
		}
		a := &models.Assignment{
			ID:         assignmentID,
			UserID:     req.UserID,
			GadgetID:   req.GadgetID,
			AssignedAt: time.Now().UTC(),
			Notes:      notes,
		}
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}

	req, err := r.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	a, err := r.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return &ApprovalResult{Request: req, Assignment: a}, nil
}

// RejectRequest 驳回：只翻状态，不动库存
func (r *Repo) RejectRequest(ctx context.Context, requestID string) (*models.Request, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrAlreadyProcessed
		}
		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", models.RequestRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindRequestByID(ctx, requestID)
}

// DeleteRequest 删除申请：管理员随意；本人只能删 PENDING。无库存副作用。
func (r *Repo) DeleteRequest(ctx context.Context, requestID, callerID string, isAdmin bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return err
		}
		if !isAdmin && req.UserID != callerID {
			return ErrForbidden
		}
		if !isAdmin && req.Status != models.RequestPending {
			return ErrOnlyPendingDeletable
		}
		return tx.Delete(&models.Request{}, "id = ?", requestID).Error
	})
}
