package stats

import (
	"time"

	"github.com/aaomarel/billiards-club/internal/match"
	"github.com/aaomarel/billiards-club/internal/user"
	"gorm.io/gorm"
)

type StatsRepository interface {
	// PlayerStats aggregates a player's completed matches within the timeframe.
	PlayerStats(userID uint, timeframe Timeframe, now time.Time) (*StatsResponse, error)

	// Leaderboard returns every player's record sorted by rating.
	Leaderboard() ([]LeaderboardEntry, error)

	GetPlayer(userID uint) (*user.User, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) PlayerStats(userID uint, timeframe Timeframe, now time.Time) (*StatsResponse, error) {
	var u user.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return nil, err
	}

	query := r.db.Preload("Players").
		Where("status = ?", match.StatusCompleted).
		Where("id IN (?)", r.db.Table("match_players").Select("match_id").Where("user_id = ?", userID)).
		Order("datetime ASC")
	if start := timeframe.Start(now); !start.IsZero() {
		query = query.Where("datetime >= ?", start)
	}

	var matches []match.Match
	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}

	resp := BuildPlayerStats(userID, matches, timeframe)
	resp.Elo = u.Stats.Elo
	return &resp, nil
}

func (r *statsRepository) Leaderboard() ([]LeaderboardEntry, error) {
	var players []user.User
	if err := r.db.Order("stats_elo DESC, name ASC").Find(&players).Error; err != nil {
		return nil, err
	}

	var matches []match.Match
	err := r.db.Where("status = ?", match.StatusCompleted).Find(&matches).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for i := range players {
		entries = append(entries, LeaderboardEntry{
			UserID: players[i].ID,
			Name:   players[i].Name,
			Elo:    players[i].Stats.Elo,
		})
	}
	return BuildLeaderboard(entries, matches), nil
}

func (r *statsRepository) GetPlayer(userID uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
