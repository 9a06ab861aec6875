package user

import (
	"github.com/aaomarel/billiards-club/config"
	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/pkg/roles"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterUserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewUserRepository(db)
	controller := NewUserController(repo)

	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		users.GET("/:user_id", controller.GetUser)
		users.GET("/:user_id/permissions", controller.GetPermissions)

		// Role changes and removals re-check privileges against the database
		// inside the repository transaction; the middleware gate only keeps
		// plain members out.
		users.GET("", middleware.RequireMinRole(db, roles.RoleOfficer), controller.ListUsers)
		users.PUT("/:user_id/role", middleware.RequireMinRole(db, roles.RoleOfficer), controller.ChangeRole)
		users.DELETE("/:user_id", middleware.RequireMinRole(db, roles.RoleOfficer), controller.RemoveUser)
	}
}
