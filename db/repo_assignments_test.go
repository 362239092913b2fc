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

func TestDirectAssignDebitsOneUnit(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Laptop", 3)

	a, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID, Notes: "spare"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, a.UserID)
	assert.False(t, a.Returned)
	assert.Equal(t, "spare", a.Notes)
	require.NotNil(t, a.User)
	assert.Equal(t, u.Email, a.User.Email)

	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, models.StatusInUse, got.Status)
}

func TestDirectAssignOutOfStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Dock", 0)

	_, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID})
	assert.ErrorIs(t, err, db.ErrOutOfStock)

	// 失败的事务不能留下分配记录
	as, err := r.ListAssignments(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, as)
}

func TestDirectAssignUnknownGadget(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "worker@example.com", models.RoleUser)

	_, err := r.DirectAssign(context.Background(), db.DirectAssignInput{UserID: u.ID, GadgetID: uuid.NewString()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignThenReturnRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Monitor", 5)

	a, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)

	ret, err := r.ReturnAssignment(ctx, a.ID, u.ID, false)
	require.NoError(t, err)
	assert.True(t, ret.Returned)
	require.NotNil(t, ret.ReturnedAt)

	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "round trip must restore the pre-assign quantity")
	// 状态不自动回 AVAILABLE
	assert.Equal(t, models.StatusInUse, got.Status)

	_, err = r.ReturnAssignment(ctx, a.ID, u.ID, false)
	assert.ErrorIs(t, err, db.ErrAlreadyReturned)
}

func TestReturnAssignmentOwnership(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, r, "owner@example.com", models.RoleUser)
	other := seedUser(t, r, "other@example.com", models.RoleUser)
	g := seedGadget(t, r, "Tablet", 1)

	a, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: owner.ID, GadgetID: g.ID})
	require.NoError(t, err)

	_, err = r.ReturnAssignment(ctx, a.ID, other.ID, false)
	assert.ErrorIs(t, err, db.ErrForbidden)

	// 管理员可以代还
	_, err = r.ReturnAssignment(ctx, a.ID, other.ID, true)
	require.NoError(t, err)
}

func TestDeleteAssignmentCompensatesStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Keyboard", 2)

	a, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)

	// 未归还的删除 = 隐式归还，补 1
	require.NoError(t, r.DeleteAssignment(ctx, a.ID))
	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	// 已归还的删除不再动库存
	a2, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID})
	require.NoError(t, err)
	_, err = r.ReturnAssignment(ctx, a2.ID, u.ID, false)
	require.NoError(t, err)
	require.NoError(t, r.DeleteAssignment(ctx, a2.ID))
	got, err = r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	err = r.DeleteAssignment(ctx, a2.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListAssignmentsScoped(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u1 := seedUser(t, r, "one@example.com", models.RoleUser)
	u2 := seedUser(t, r, "two@example.com", models.RoleUser)
	g := seedGadget(t, r, "Headset", 5)

	_, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u1.ID, GadgetID: g.ID})
	require.NoError(t, err)
	_, err = r.DirectAssign(ctx, db.DirectAssignInput{UserID: u2.ID, GadgetID: g.ID})
	require.NoError(t, err)

	all, err := r.ListAssignments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := r.ListAssignments(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, u1.ID, mine[0].UserID)
	require.NotNil(t, mine[0].Gadget)
	assert.Equal(t, g.ID, mine[0].Gadget.ID)
}

func TestQuantityNeverGoesNegative(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "worker@example.com", models.RoleUser)
	g := seedGadget(t, r, "Adapter", 2)

	for i := 0; i < 2; i++ {
		_, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID})
		require.NoError(t, err)
	}
	_, err := r.DirectAssign(ctx, db.DirectAssignInput{UserID: u.ID, GadgetID: g.ID})
	assert.ErrorIs(t, err, db.ErrOutOfStock)

	got, err := r.FindGadgetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}
