package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FraudSettings{},
		&models.Customer{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderNote{},
		&models.OrderAttribute{},
		&models.FraudDecision{},
		&models.Notification{},
		&models.NotificationProvider{},
	))
	return db
}
