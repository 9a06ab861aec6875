package match

import (
	"github.com/aaomarel/billiards-club/config"
	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/aaomarel/billiards-club/pkg/booking"
	"github.com/aaomarel/billiards-club/pkg/elo"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterMatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	validator := booking.NewValidator(appConfig.Club.BookingBufferMinutes)
	engine := elo.NewEngine(elo.Config{
		KFactor:          appConfig.Club.EloKFactor,
		ProvisionalGames: appConfig.Club.EloProvisionalGames,
	})

	repo := NewMatchRepository(db, validator, engine)
	controller := NewMatchController(repo, user.NewUserRepository(db))

	matches := router.Group("/matches")
	matches.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		matches.POST("", controller.CreateMatch)
		matches.GET("", controller.ListMatches)
		matches.GET("/:match_id", controller.GetMatch)
		matches.POST("/:match_id/join", controller.JoinMatch)
		matches.POST("/:match_id/leave", controller.LeaveMatch)
		matches.POST("/:match_id/cancel", controller.CancelMatch)
		matches.POST("/:match_id/result", controller.RecordResult)
	}
}
