package middleware

import (
	"errors"
	"net/http"

	"github.com/aaomarel/billiards-club/pkg/roles"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireMinRole rejects callers whose current role (read from the database,
// not the token) ranks below the required tier.
func RequireMinRole(db *gorm.DB, minRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		// Take, not Scan: Scan leaves the value zero on a missing row without
		// an error, which would misreport a deleted account as a role issue.
		var row struct{ Role string }
		err = db.Table("users").Select("role").Where("id = ? AND deleted_at IS NULL", userID).Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user role"})
			return
		}

		if roles.Rank(roles.Role(row.Role)) < roles.Rank(minRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			return
		}

		c.Next()
	}
}
