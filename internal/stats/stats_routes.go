package stats

import (
	"github.com/aaomarel/billiards-club/config"
	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/pkg/elo"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterStatsRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	engine := elo.NewEngine(elo.Config{
		KFactor:          appConfig.Club.EloKFactor,
		ProvisionalGames: appConfig.Club.EloProvisionalGames,
	})
	controller := NewStatsController(NewStatsRepository(db), engine)

	stats := router.Group("/stats")
	stats.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		stats.GET("", controller.GetStats)
		stats.GET("/leaderboard", controller.GetLeaderboard)
		stats.GET("/preview", controller.PreviewRating)
	}
}
