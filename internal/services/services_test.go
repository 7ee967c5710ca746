package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/whatsthatbrick/whatsthatbrick/db"
	"github.com/whatsthatbrick/whatsthatbrick/internal/auth"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "whatsthatbrick_test.db")

	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.MigrateDatabase(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return database
}

func createUser(t *testing.T, database *gorm.DB, username, role string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}

	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	return user
}

func identityOf(user models.User) auth.Identity {
	return auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func createBrick(t *testing.T, catalog *CatalogService, actor auth.Identity, input BrickInput) *models.Brick {
	t.Helper()

	brick, err := catalog.Create(actor, input)
	if err != nil {
		t.Fatalf("create brick %q: %v", input.Name, err)
	}

	return brick
}

func countRows(t *testing.T, database *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := database.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	return count
}
