package match

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/aaomarel/billiards-club/pkg/roles"
	"github.com/aaomarel/billiards-club/pkg/utils"
	"github.com/aaomarel/billiards-club/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MatchController struct {
	repo  MatchRepository
	users user.UserRepository
}

func NewMatchController(repo MatchRepository, users user.UserRepository) *MatchController {
	return &MatchController{repo: repo, users: users}
}

// CreateMatch godoc
// @Summary Schedule a match
// @Description Creates a 1v1 or 2v2 match at the given time and location. The caller becomes the creator and first player. Rejected with 409 when the slot conflicts with another booking.
// @Tags matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Match details"
// @Success 201 {object} Match
// @Failure 400 {object} utils.ValidationErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} BookingConflictResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorJSON(c, validator.ParseError(err))
		return
	}

	m := &Match{
		Type:            req.Type,
		Datetime:        req.Datetime,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		CreatorID:       userID,
		Status:          StatusOpen,
		IsRanked:        req.IsRanked,
	}
	if m.DurationMinutes == 0 {
		m.DurationMinutes = 60
	}

	if err := mc.repo.Create(m); err != nil {
		var conflict BookingConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, BookingConflictResponse{
				Error:            "Booking conflict",
				Details:          conflict.Errors,
				ConflictingMatch: conflict.ConflictingMatch,
			})
			return
		}
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to create match")
		return
	}

	created, err := mc.repo.GetByID(m.ID)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to load created match")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMatches godoc
// @Summary List matches
// @Description Returns matches in chronological order. Officers and above see every match; other members see visible matches plus their own.
// @Tags matches
// @Produce json
// @Success 200 {array} Match
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches [get]
func (mc *MatchController) ListMatches(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	privileged, err := mc.callerIsPrivileged(userID)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to list matches")
		return
	}

	matches, err := mc.repo.List(userID, privileged)
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to list matches")
		return
	}
	c.JSON(http.StatusOK, matches)
}

// GetMatch godoc
// @Summary Get a match
// @Tags matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} Match
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches/{match_id} [get]
func (mc *MatchController) GetMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := mc.repo.GetByID(matchID)
	if err != nil {
		if IsNotFound(err) {
			utils.ErrorJSON(c, http.StatusNotFound, "Match not found")
			return
		}
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to fetch match")
		return
	}
	c.JSON(http.StatusOK, m)
}

// JoinMatch godoc
// @Summary Join an open match
// @Description Adds the caller to an open match. The match flips to filled when the last seat is taken. Rejected with 409 when the caller has an overlapping booking.
// @Tags matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} Match
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} BookingConflictResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches/{match_id}/join [post]
func (mc *MatchController) JoinMatch(c *gin.Context) {
	mc.lifecycleAction(c, mc.repo.Join)
}

// LeaveMatch godoc
// @Summary Leave a match
// @Description Removes the caller from a match they joined. A filled match reopens. The creator cannot leave and must cancel instead.
// @Tags matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} Match
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches/{match_id}/leave [post]
func (mc *MatchController) LeaveMatch(c *gin.Context) {
	mc.lifecycleAction(c, mc.repo.Leave)
}

// CancelMatch godoc
// @Summary Cancel a match
// @Description Cancels a match. Only the creator may cancel, and only before a result is recorded.
// @Tags matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} Match
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches/{match_id}/cancel [post]
func (mc *MatchController) CancelMatch(c *gin.Context) {
	mc.lifecycleAction(c, mc.repo.Cancel)
}

// RecordResult godoc
// @Summary Record a match result
// @Description Records winners, losers and score, completing the match. Ranked results require match-management permissions and update player ratings for 1v1.
// @Tags matches
// @Accept json
// @Produce json
// @Param match_id path int true "Match ID"
// @Param result body RecordResultRequest true "Match outcome"
// @Success 200 {object} Match
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /matches/{match_id}/result [post]
func (mc *MatchController) RecordResult(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorJSON(c, validator.ParseError(err))
		return
	}

	m, err := mc.repo.RecordResult(matchID, userID, req)
	if err != nil {
		mc.renderMatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// lifecycleAction runs a join/leave/cancel transition and renders either the
// refreshed match or the mapped error.
func (mc *MatchController) lifecycleAction(c *gin.Context, action func(matchID, userID uint) (*Match, error)) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := action(matchID, userID)
	if err != nil {
		mc.renderMatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MatchController) renderMatchError(c *gin.Context, err error) {
	var conflict BookingConflictError
	var forbidden ForbiddenError
	var invalid InvalidResultError

	switch {
	case IsNotFound(err):
		utils.ErrorJSON(c, http.StatusNotFound, "Match not found")
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, BookingConflictResponse{
			Error:            "Booking conflict",
			Details:          conflict.Errors,
			ConflictingMatch: conflict.ConflictingMatch,
		})
	case errors.As(err, &forbidden):
		utils.ErrorJSON(c, http.StatusForbidden, forbidden.Msg)
	case errors.As(err, &invalid):
		utils.ErrorJSON(c, http.StatusBadRequest, invalid.Msg)
	case errors.Is(err, ErrNotCreator):
		utils.ErrorJSON(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrMatchNotOpen),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrNotInMatch),
		errors.Is(err, ErrCreatorMustCancel),
		errors.Is(err, ErrAlreadyDecided):
		utils.ErrorJSON(c, http.StatusBadRequest, err.Error())
	default:
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to update match")
	}
}

func (mc *MatchController) callerIsPrivileged(userID uint) (bool, error) {
	u, err := mc.users.GetByID(userID)
	if err != nil {
		return false, err
	}
	return roles.IsPrivileged(roles.Role(u.Role)), nil
}

func parseMatchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("match_id"), 10, 32)
	if err != nil {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid match ID")
		return 0, false
	}
	return uint(id), true
}
