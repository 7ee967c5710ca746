package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/whatsthatbrick/whatsthatbrick/db"
	"github.com/whatsthatbrick/whatsthatbrick/internal/auth"
	"github.com/whatsthatbrick/whatsthatbrick/internal/router"
	"github.com/whatsthatbrick/whatsthatbrick/internal/scheduler"
	"github.com/whatsthatbrick/whatsthatbrick/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	database, err := db.ConnectDatabase(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := storage.NewMinioStoreFromEnv()

	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	if store == nil {
		log.Println("Object storage not configured, image uploads disabled")
	}

	if days, _ := strconv.Atoi(os.Getenv("NOTIFICATION_RETENTION_DAYS")); days > 0 {
		sweeper := scheduler.NewSweeper(database, time.Hour, time.Duration(days)*24*time.Hour)
		sweeper.Start()
		defer sweeper.Stop()
	}

	var storeIface storage.ObjectStore

	if store != nil {
		storeIface = store
	}

	r := router.NewRouter(database, storeIface)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
