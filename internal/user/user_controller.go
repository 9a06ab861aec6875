package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/pkg/roles"
	"github.com/aaomarel/billiards-club/pkg/utils"
	"github.com/gin-gonic/gin"
)

// UserController handles member-management HTTP requests.
type UserController struct {
	repo UserRepository
}

func NewUserController(repo UserRepository) *UserController {
	return &UserController{repo: repo}
}

// GetUser godoc
// @Summary      Get user by ID
// @Description  Returns the public profile and competitive record of a member.
// @Tags         Users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} PublicProfile "User profile"
// @Failure      400 {object} utils.ErrorResponse "Invalid user ID"
// @Failure      404 {object} utils.ErrorResponse "User not found"
// @Failure      500 {object} utils.ErrorResponse "Internal server error"
// @Router       /users/{user_id} [get]
// @Security     Bearer
func (uc *UserController) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "invalid user ID"})
		return
	}

	u, err := uc.repo.GetByID(uint(userID))
	if err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "failed to get user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ToPublicProfile(u))
}

// ListUsers godoc
// @Summary      List all members
// @Description  Returns every member's public profile. Requires the manage-members permission.
// @Tags         Users
// @Produce      json
// @Success      200 {array} PublicProfile "Members"
// @Failure      401 {object} utils.ErrorResponse "Unauthorized"
// @Failure      403 {object} utils.ErrorResponse "Insufficient privileges"
// @Failure      500 {object} utils.ErrorResponse "Internal server error"
// @Router       /users [get]
// @Security     Bearer
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "failed to list users: " + err.Error()})
		return
	}

	profiles := make([]PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, ToPublicProfile(&users[i]))
	}
	c.JSON(http.StatusOK, profiles)
}

// GetPermissions godoc
// @Summary      Get a member's permissions
// @Description  Returns the permission set derived from the member's role.
// @Tags         Users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} roles.Permissions "Derived permissions"
// @Failure      400 {object} utils.ErrorResponse "Invalid user ID"
// @Failure      404 {object} utils.ErrorResponse "User not found"
// @Failure      500 {object} utils.ErrorResponse "Internal server error"
// @Router       /users/{user_id}/permissions [get]
// @Security     Bearer
func (uc *UserController) GetPermissions(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "invalid user ID"})
		return
	}

	u, err := uc.repo.GetByID(uint(userID))
	if err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "failed to get user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, roles.PermissionsFor(roles.Role(u.Role)))
}

// ChangeRole godoc
// @Summary      Change a member's role
// @Description  Moves a member to a new tier. The caller must outrank both the old and new role; the last leader cannot be demoted and co-leaders are capped at two.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        role body ChangeRoleRequest true "New role"
// @Success      200 {object} PublicProfile "Updated profile"
// @Failure      400 {object} utils.ErrorResponse "Invalid input"
// @Failure      401 {object} utils.ErrorResponse "Unauthorized"
// @Failure      403 {object} utils.ErrorResponse "Role change not permitted"
// @Failure      404 {object} utils.ErrorResponse "User not found"
// @Failure      500 {object} utils.ErrorResponse "Internal server error"
// @Router       /users/{user_id}/role [put]
// @Security     Bearer
func (uc *UserController) ChangeRole(c *gin.Context) {
	managerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Unauthorized: " + err.Error()})
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "invalid user ID"})
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}
	if !roles.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "unknown role: " + req.Role})
		return
	}

	updated, err := uc.repo.ChangeRole(uint(targetID), roles.Role(req.Role), managerID)
	if err != nil {
		var forbidden ForbiddenError
		switch {
		case errors.As(err, &forbidden):
			c.JSON(http.StatusForbidden, utils.ErrorResponse{Error: forbidden.Msg})
		case IsNotFound(err):
			c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "failed to change role: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ToPublicProfile(updated))
}

// RemoveUser godoc
// @Summary      Remove a member
// @Description  Removes a member from the club. The caller must outrank the target; the last leader and the last privileged account are protected.
// @Tags         Users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} utils.MessageResponse "Member removed"
// @Failure      400 {object} utils.ErrorResponse "Invalid user ID"
// @Failure      401 {object} utils.ErrorResponse "Unauthorized"
// @Failure      403 {object} utils.ErrorResponse "Removal not permitted"
// @Failure      404 {object} utils.ErrorResponse "User not found"
// @Failure      500 {object} utils.ErrorResponse "Internal server error"
// @Router       /users/{user_id} [delete]
// @Security     Bearer
func (uc *UserController) RemoveUser(c *gin.Context) {
	managerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Unauthorized: " + err.Error()})
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "invalid user ID"})
		return
	}

	if err := uc.repo.Remove(uint(targetID), managerID); err != nil {
		var forbidden ForbiddenError
		switch {
		case errors.As(err, &forbidden):
			c.JSON(http.StatusForbidden, utils.ErrorResponse{Error: forbidden.Msg})
		case IsNotFound(err):
			c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "failed to remove user: " + err.Error()})
		}
		return
	}

	utils.SuccessJSON(c, http.StatusOK, "Member removed", nil)
}
