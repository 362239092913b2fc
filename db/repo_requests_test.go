package db_test

import (
	"context"
	"testing"

	"gadgetdesk/db"
	"gadgetdesk/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubmitRequestDefaults(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Mouse", 0) // 提交时不查库存

	req, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, 1, req.Quantity)
	require.NotNil(t, req.Gadget)
	assert.Equal(t, g.Name, req.Gadget.Name)
}

func TestSubmitRequestUnknownGadget(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "worker@example.com", models.RoleUser)

	_, err := r.SubmitRequest(context.Background(), db.SubmitRequestInput{
		UserID:   u.ID,
		GadgetID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApproveRequestScenario(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Projector", 5)

	req, err := r.SubmitRequest(ctx, db.SubmitRequestInput{
		UserID:   u.ID,
		GadgetID: g.ID,
		Quantity: 2,
		Reason:   "team demo",
	})
	require.NoError(t, err)

	res, err := r.ApproveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, res.Request.Status)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, u.ID, res.Assignment.UserID)
	assert.Equal(t, "Auto-assigned from request: team demo", res.Assignment.Notes)

	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, models.StatusInUse, got.Status)
}

func TestApproveRequestNoReasonNote(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Cable", 1)

	req, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)

	res, err := r.ApproveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Auto-assigned from request: No reason provided", res.Assignment.Notes)
}

func TestApproveRequestInsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Camera", 1)

	first, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: u.ID, GadgetID: g.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: u.ID, GadgetID: g.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = r.ApproveRequest(ctx, first.ID)
	require.NoError(t, err)

	// 库存只有 1，第二单必须失败，且整体回滚
	_, err = r.ApproveRequest(ctx, second.ID)
	assert.ErrorIs(t, err, db.ErrInsufficientStock)

	got, err := r.FindRequestByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, got.Status, "failed approval must leave the request pending")

	gadget, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gadget.Quantity)

	as, err := r.ListAssignments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, as, 1)
}

func TestApproveRequestOnlyOnce(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Printer", 4)

	req, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)

	_, err = r.ApproveRequest(ctx, req.ID)
	require.NoError(t, err)

	_, err = r.ApproveRequest(ctx, req.ID)
	assert.ErrorIs(t, err, db.ErrAlreadyProcessed)
	_, err = r.RejectRequest(ctx, req.ID)
	assert.ErrorIs(t, err, db.ErrAlreadyProcessed)

	// 第二次审批不能重复扣库存
	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestRejectRequestLeavesInventoryAlone(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Scanner", 2)

	req, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)

	rejected, err := r.RejectRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)

	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, models.StatusAvailable, got.Status)

	_, err = r.ApproveRequest(ctx, req.ID)
	assert.ErrorIs(t, err, db.ErrAlreadyProcessed)
}

func TestDeleteRequestRules(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, r, "owner@example.com", models.RoleUser)
	other := seedUser(t, r, "other@example.com", models.RoleUser)
	g := seedGadget(t, r, "Charger", 3)

	pending, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: owner.ID, GadgetID: g.ID})
	require.NoError(t, err)

	// 非本人非管理员
	err = r.DeleteRequest(ctx, pending.ID, other.ID, false)
	assert.ErrorIs(t, err, db.ErrForbidden)

	// 本人可删 PENDING
	require.NoError(t, r.DeleteRequest(ctx, pending.ID, owner.ID, false))

	processed, err := r.SubmitRequest(ctx, db.SubmitRequestInput{UserID: owner.ID, GadgetID: g.ID})
	require.NoError(t, err)
	_, err = r.RejectRequest(ctx, processed.ID)
	require.NoError(t, err)

	// 本人不可删已处理的
	err = r.DeleteRequest(ctx, processed.ID, owner.ID, false)
	assert.ErrorIs(t, err, db.ErrOnlyPendingDeletable)

	// 管理员随意
	require.NoError(t, r.DeleteRequest(ctx, processed.ID, other.ID, true))

	err = r.DeleteRequest(ctx, processed.ID, other.ID, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
