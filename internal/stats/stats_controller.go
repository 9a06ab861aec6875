package stats

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aaomarel/billiards-club/internal/middleware"
	"github.com/aaomarel/billiards-club/pkg/elo"
	"github.com/aaomarel/billiards-club/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsController struct {
	repo   StatsRepository
	engine *elo.Engine
}

func NewStatsController(repo StatsRepository, engine *elo.Engine) *StatsController {
	return &StatsController{repo: repo, engine: engine}
}

// GetStats godoc
// @Summary Personal statistics
// @Description Returns the caller's totals, win rate, match history and per-month performance for the requested timeframe.
// @Tags stats
// @Produce json
// @Param timeframe query string false "week, month, year or all" default(all)
// @Success 200 {object} StatsResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (sc *StatsController) GetStats(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		utils.ErrorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	timeframe, ok := ParseTimeframe(c.Query("timeframe"))
	if !ok {
		utils.ErrorJSON(c, http.StatusBadRequest, "Invalid timeframe, expected week, month, year or all")
		return
	}

	resp, err := sc.repo.PlayerStats(userID, timeframe, time.Now())
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetLeaderboard godoc
// @Summary Club leaderboard
// @Description All players with their ranked and casual records and win rates, sorted by rating descending.
// @Tags stats
// @Produce json
// @Success 200 {array} LeaderboardEntry
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /stats/leaderboard [get]
func (sc *StatsController) GetLeaderboard(c *gin.Context) {
	entries, err := sc.repo.Leaderboard()
	if err != nil {
		utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to build leaderboard")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// PreviewRating godoc
// @Summary Preview a rating change
// @Description Shows what either outcome of a game between two players would do to their ratings.
// @Tags stats
// @Produce json
// @Param player_a query int true "First player's user ID"
// @Param player_b query int true "Second player's user ID"
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /stats/preview [get]
func (sc *StatsController) PreviewRating(c *gin.Context) {
	aID, okA := parsePlayerID(c, "player_a")
	bID, okB := parsePlayerID(c, "player_b")
	if !okA || !okB {
		utils.ErrorJSON(c, http.StatusBadRequest, "player_a and player_b query parameters are required")
		return
	}
	if aID == bID {
		utils.ErrorJSON(c, http.StatusBadRequest, "player_a and player_b must be different players")
		return
	}

	playerA, err := sc.repo.GetPlayer(aID)
	if err != nil {
		sc.renderPlayerError(c, err)
		return
	}
	playerB, err := sc.repo.GetPlayer(bID)
	if err != nil {
		sc.renderPlayerError(c, err)
		return
	}

	preview := sc.engine.PreviewBothOutcomes(
		elo.Player{Rating: playerA.Stats.Elo, GamesPlayed: playerA.Stats.GamesPlayed},
		elo.Player{Rating: playerB.Stats.Elo, GamesPlayed: playerB.Stats.GamesPlayed},
	)

	c.JSON(http.StatusOK, PreviewResponse{
		PlayerA: PreviewPlayer{UserID: playerA.ID, Name: playerA.Name, Elo: playerA.Stats.Elo},
		PlayerB: PreviewPlayer{UserID: playerB.ID, Name: playerB.Name, Elo: playerB.Stats.Elo},
		Preview: preview,
	})
}

func (sc *StatsController) renderPlayerError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.ErrorJSON(c, http.StatusNotFound, "Player not found")
		return
	}
	utils.ErrorJSON(c, http.StatusInternalServerError, "Failed to load player")
}

func parsePlayerID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
