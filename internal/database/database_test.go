package database

import (
	"context"
	"fmt"
	"testing"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)

	for _, table := range []interface{}{
		&models.Category{}, &models.Product{}, &models.User{}, &models.Sale{}, &models.SaleDetail{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	assert.Error(t, err)
}
