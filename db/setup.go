package db

import (
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDatabase(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func MigrateDatabase(database *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Brick{},
		&models.Favourite{},
		&models.NewPartRequest{},
		&models.Notification{},
	}

	migrator := database.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := database.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
