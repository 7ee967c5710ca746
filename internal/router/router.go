package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/handlers"
	"github.com/whatsthatbrick/whatsthatbrick/internal/middleware"
	"github.com/whatsthatbrick/whatsthatbrick/internal/services"
	"github.com/whatsthatbrick/whatsthatbrick/internal/storage"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, store storage.ObjectStore) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(db)
	brickHandler := handlers.NewBrickHandler(services.NewCatalogService(db))
	requestHandler := handlers.NewRequestHandler(services.NewRequestService(db))
	notificationHandler := handlers.NewNotificationHandler(services.NewNotificationService(db))
	favouriteHandler := handlers.NewFavouriteHandler(services.NewFavouriteService(db))
	uploadHandler := handlers.NewUploadHandler(store)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthMiddleware(db), authHandler.Me)
		}

		bricks := api.Group("/bricks")
		{
			// Public reads; an admin credential widens status visibility
			bricks.GET("", middleware.OptionalAuthMiddleware(db), brickHandler.List)
			bricks.GET("/categories", brickHandler.Categories)
			bricks.GET("/:id", brickHandler.Get)

			bricks.POST("", middleware.AuthMiddleware(db), brickHandler.Create)
			bricks.PUT("/:id", middleware.AuthMiddleware(db), brickHandler.Update)
			bricks.DELETE("/:id", middleware.AuthMiddleware(db), brickHandler.Delete)
		}

		requests := api.Group("/requests", middleware.AuthMiddleware(db))
		{
			requests.POST("", requestHandler.Submit)
			requests.GET("", requestHandler.List)
			requests.GET("/:id", requestHandler.Get)
			requests.PUT("/:id", middleware.RequireRoles(types.RoleAdmin), requestHandler.Handle)
			requests.DELETE("/:id", middleware.RequireRoles(types.RoleAdmin), requestHandler.Delete)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware(db))
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/ws", handlers.NotificationStream)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		favourites := api.Group("/users/me/favourites", middleware.AuthMiddleware(db))
		{
			favourites.GET("", favouriteHandler.List)
			favourites.POST("/:brickId", favouriteHandler.Add)
			favourites.DELETE("/:brickId", favouriteHandler.Remove)
		}

		api.POST("/upload", middleware.AuthMiddleware(db), uploadHandler.Upload)
	}

	return r
}
