package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/aaomarel/billiards-club/config"
	"github.com/aaomarel/billiards-club/internal/auth"
	"github.com/aaomarel/billiards-club/internal/match"
	"github.com/aaomarel/billiards-club/internal/stats"
	"github.com/aaomarel/billiards-club/internal/user"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	if appConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	match.RegisterMatchRoutes(api, db, appConfig)
	user.RegisterUserRoutes(api, db, appConfig)
	stats.RegisterStatsRoutes(api, db, appConfig)

	return r
}
