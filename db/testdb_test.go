package db_test

import (
	"context"
	"fmt"
	"testing"

	"gadgetdesk/db"
	"gadgetdesk/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *db.Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return db.NewRepo(gdb)
}

func seedUser(t *testing.T, r *db.Repo, email, role string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test " + email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedGadget(t *testing.T, r *db.Repo, name string, quantity int) *models.Gadget {
	t.Helper()
	g := &models.Gadget{
		ID:       uuid.NewString(),
		Name:     name,
		Quantity: quantity,
		Status:   models.StatusAvailable,
	}
	require.NoError(t, r.CreateGadget(context.Background(), g))
	return g
}
