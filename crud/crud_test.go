package crud

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hottakes/domain"
)

// testDB opens a throwaway sqlite database for one test. The connection
// pool is capped at one so concurrent service calls serialize instead of
// tripping over sqlite's write locking.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Take{},
		domain.Like{},
		domain.RevokedToken{},
	))
	return db
}

// seedUser creates a user through the real UserService.
func seedUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	user := domain.User{
		Username: name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "password123",
	}
	require.NoError(t, NewUserService(db, "test-pepper").Create(&user))
	return &user
}

// seedTake creates a take through the real TakeService.
func seedTake(t *testing.T, db *gorm.DB, owner *domain.User, contents string) *domain.Take {
	t.Helper()
	take := domain.Take{
		UserID:   owner.ID,
		Contents: contents,
	}
	require.NoError(t, NewTakeService(db).Create(&take))
	return &take
}
