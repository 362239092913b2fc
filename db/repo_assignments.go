// db/repo_assignments.go
package db

import (
	"context"
	"errors"
	"time"

	"gadgetdesk/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) FindAssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	var a models.Assignment
	if err := r.DB.WithContext(ctx).
		Preload("User").Preload("Gadget").
		First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssignments 管理员看全部，普通用户只看自己的（userID 为空 = 全部）
func (r *Repo) ListAssignments(ctx context.Context, userID string) ([]models.Assignment, error) {
	q := r.DB.WithContext(ctx).
		Preload("User").Preload("Gadget").
		Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var as []models.Assignment
	if err := q.Find(&as).Error; err != nil {
		return nil, err
	}
	return as, nil
}

type DirectAssignInput struct {
	UserID   string
	GadgetID string
	Notes    string
}

// DirectAssign 直接分配：原子操作 = 扣 1 库存 + 置 IN_USE + 新建分配记录
func (r *Repo) DirectAssign(ctx context.Context, in DirectAssignInput) (*models.Assignment, error) {
	id := uuid.NewString()
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, "id = ?", in.UserID).Error; err != nil {
			return err
		}
		if err := tx.First(&models.Gadget{}, "id = ?", in.GadgetID).Error; err != nil {
			return err
		}

		// 扣库存 + 置状态，一条带条件的 UPDATE 防止并发超发
		res := tx.Model(&models.Gadget{}).
			Where("id = ? AND quantity >= 1", in.GadgetID).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity - 1"),
				"status":   models.StatusInUse,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOutOfStock
		}

		a := &models.Assignment{
			ID:         id,
			UserID:     in.UserID,
			GadgetID:   in.GadgetID,
			AssignedAt: time.Now().UTC(),
			Notes:      in.Notes,
		}
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindAssignmentByID(ctx, id)
}

// ReturnAssignment 归还：原子操作 = 终结分配记录 + 还 1 库存。
// 设备状态不自动回 AVAILABLE，由管理员维护。
func (r *Repo) ReturnAssignment(ctx context.Context, assignmentID, callerID string, isAdmin bool) (*models.Assignment, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Assignment
		if err := tx.First(&a, "id = ?", assignmentID).Error; err != nil {
			return err
		}
		if !isAdmin && a.UserID != callerID {
			return ErrForbidden
		}
		if a.Returned {
			return ErrAlreadyReturned
		}

		// 带条件的 UPDATE：并发归还时只有一个能赢
		now := time.Now().UTC()
		res := tx.Model(&models.Assignment{}).
			Where("id = ? AND NOT returned", assignmentID).
			Updates(map[string]interface{}{
				"returned":    true,
				"returned_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}

		return adjustGadgetQuantity(tx, a.GadgetID, +1)
	})
	if err != nil {
		return nil, err
	}
	return r.FindAssignmentByID(ctx, assignmentID)
}

// DeleteAssignment 删除记录；未归还的视同归还，库存补回 1
func (r *Repo) DeleteAssignment(ctx context.Context, assignmentID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Assignment
		if err := tx.First(&a, "id = ?", assignmentID).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Assignment{}, "id = ?", assignmentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !a.Returned {
			if err := adjustGadgetQuantity(tx, a.GadgetID, +1); err != nil {
				// 设备可能已被删；记录本身删掉即可
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
		}
		return nil
	})
}
