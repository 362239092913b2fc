// db/repo_gadgets.go
package db

import (
	"context"

	"gadgetdesk/models"

	"gorm.io/gorm"
)

// Gadgets

func (r *Repo) CreateGadget(ctx context.Context, g *models.Gadget) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *Repo) FindGadgetByID(ctx context.Context, id string) (*models.Gadget, error) {
	var g models.Gadget
	if err := r.DB.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repo) ListGadgets(ctx context.Context) ([]models.Gadget, error) {
	var gs []models.Gadget
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&gs).Error
	return gs, err
}

// GadgetDetail 带上该设备的分配/申请历史
type GadgetDetail struct {
	models.Gadget
	Assignments []models.Assignment `json:"assignments"`
	Requests    []models.Request    `json:"requests"`
}

func (r *Repo) GetGadgetDetail(ctx context.Context, id string) (*GadgetDetail, error) {
	g, err := r.FindGadgetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &GadgetDetail{Gadget: *g}
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Where("gadget_id = ?", id).
		Order("created_at DESC").
		Find(&d.Assignments).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Where("gadget_id = ?", id).
		Order("created_at DESC").
		Find(&d.Requests).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateGadget applies a partial update and returns the fresh row.
func (r *Repo) UpdateGadget(ctx context.Context, id string, fields map[string]interface{}) (*models.Gadget, error) {
	if len(fields) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.Gadget{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindGadgetByID(ctx, id)
}

func (r *Repo) DeleteGadget(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Gadget{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustQuantity 原子加减库存：单条带条件的 UPDATE，绝不读改写
func (r *Repo) AdjustQuantity(ctx context.Context, id string, delta int) (*models.Gadget, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return adjustGadgetQuantity(tx, id, delta)
	})
	if err != nil {
		return nil, err
	}
	return r.FindGadgetByID(ctx, id)
}

// adjustGadgetQuantity is the single place stock moves. The guard in the WHERE
// clause keeps quantity non-negative under concurrent movers: the row lock taken
// by UPDATE serializes them and the loser sees zero rows.
func adjustGadgetQuantity(tx *gorm.DB, gadgetID string, delta int) error {
	res := tx.Model(&models.Gadget{}).
		Where("id = ? AND quantity + ? >= 0", gadgetID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 区分：不存在 vs 库存不足
		var n int64
		if err := tx.Model(&models.Gadget{}).Where("id = ?", gadgetID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
