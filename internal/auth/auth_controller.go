package auth

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aaomarel/billiards-club/config"
	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/aaomarel/billiards-club/pkg/roles"
	"github.com/aaomarel/billiards-club/pkg/token"
	"github.com/aaomarel/billiards-club/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

func (ac *AuthController) generateAndSaveTokens(u *user.User) (string, string, error) {
	accessToken, err := token.GenerateJWT(u.ID, u.Role, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(u.ID, ac.config.JWT.RefreshTokenSecret, ac.config.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	refreshToken := &user.RefreshToken{
		UserID:    u.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}

	if err := ac.repo.SaveRefreshToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

// Register godoc
// @Summary      Register a new member
// @Description  Create a new account with name, email, student ID and password. New members start at the lowest role tier with the default rating.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "Registration details"
// @Success      201   {object} AuthResponse "Account created, returns tokens and user info"
// @Failure      400   {object} utils.ErrorResponse "Validation error or invalid input"
// @Failure      409   {object} utils.ErrorResponse "Email or student ID already registered"
// @Failure      500   {object} utils.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	// Check for existing users. Only a successful lookup is a conflict; any
	// other error means the check itself failed.
	if _, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email)); err == nil {
		c.JSON(http.StatusConflict, utils.ErrorResponse{Error: "User with this email already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Database error: " + err.Error()})
		return
	}
	if _, err := ac.repo.GetUserByStudentID(req.StudentID); err == nil {
		c.JSON(http.StatusConflict, utils.ErrorResponse{Error: "User with this student ID already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Database error: " + err.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Error hashing password"})
		return
	}

	newUser := &user.User{
		Name:      req.Name,
		Email:     strings.ToLower(req.Email),
		Password:  hashedPassword,
		StudentID: req.StudentID,
		Role:      string(roles.RoleMember),
		Stats: user.PlayerStats{
			Elo: ac.config.Club.DefaultElo,
		},
	}

	if err := ac.repo.CreateUser(newUser); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "User creation failed: " + err.Error()})
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(newUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(newUser),
	})
}

// Login godoc
// @Summary      Login
// @Description  Authenticate with email and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200   {object} AuthResponse "Login successful, returns tokens and user info"
// @Failure      400   {object} utils.ErrorResponse "Invalid input"
// @Failure      401   {object} utils.ErrorResponse "Invalid credentials"
// @Failure      404   {object} utils.ErrorResponse "User not found"
// @Failure      500   {object} utils.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	foundUser, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Database error: " + err.Error()})
		return
	}

	if !utils.CheckPassword(foundUser.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Invalid credentials"})
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(foundUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(foundUser),
	})
}

// RefreshToken godoc
// @Summary      Refresh Access Token
// @Description  Refreshes the access token using a valid refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh Token Request"
// @Success      200 {object} map[string]string "Returns a new access token"
// @Failure      400 {object} utils.ErrorResponse "Invalid input"
// @Failure      401 {object} utils.ErrorResponse "Invalid or expired refresh token"
// @Failure      500 {object} utils.ErrorResponse "Token generation failed"
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	rt, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Invalid or expired refresh token"})
		return
	}

	u, err := ac.repo.GetUserByID(rt.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "User no longer exists"})
		return
	}

	newAccessToken, err := token.GenerateJWT(u.ID, u.Role, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "New access token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": newAccessToken})
}

// GetProfile godoc
// @Summary      Get current user
// @Description  Retrieves the profile of the currently authenticated member.
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200 {object} UserResponse "User profile data"
// @Failure      401 {object} utils.ErrorResponse "Unauthorized"
// @Failure      404 {object} utils.ErrorResponse "User not found"
// @Failure      500 {object} utils.ErrorResponse "Internal server error"
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Unauthorized: " + err.Error()})
		return
	}

	currentUser, err := ac.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Failed to retrieve profile: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, FilterUserRecord(currentUser))
}

// Logout godoc
// @Summary      Logout
// @Description  Invalidates the user's refresh token (optionally all sessions).
// @Tags         Auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Logout options"
// @Success      200 {object} utils.MessageResponse "Logged out successfully"
// @Failure      400 {object} utils.ErrorResponse "Invalid input"
// @Failure      401 {object} utils.ErrorResponse "Unauthorized"
// @Failure      500 {object} utils.ErrorResponse "Failed to logout"
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Unauthorized: " + err.Error()})
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	if req.RefreshToken != "" {
		if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Failed to invalidate refresh token: " + err.Error()})
				return
			}
			// Token not found is acceptable (maybe already expired/revoked)
		}
	}

	if req.InvalidateAllSessions {
		if err := ac.repo.InvalidateAllRefreshTokensForUser(userID); err != nil {
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Failed to invalidate all sessions: " + err.Error()})
			return
		}
	}

	utils.SuccessJSON(c, http.StatusOK, "Logged out successfully", gin.H{
		"all_sessions_invalidated": req.InvalidateAllSessions,
	})
}
