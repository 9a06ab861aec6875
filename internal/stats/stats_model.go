package stats

import (
	"time"

	"github.com/aaomarel/billiards-club/pkg/elo"
)

// Timeframe is the reporting window for personal stats.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// ParseTimeframe maps a query value onto a known timeframe, defaulting to all.
func ParseTimeframe(s string) (Timeframe, bool) {
	switch Timeframe(s) {
	case TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeAll:
		return Timeframe(s), true
	case "":
		return TimeframeAll, true
	}
	return TimeframeAll, false
}

// Start returns the inclusive lower bound of the timeframe relative to now.
// The zero time means no lower bound.
func (t Timeframe) Start(now time.Time) time.Time {
	switch t {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	case TimeframeYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

// MatchSummary is one completed match from the player's point of view.
type MatchSummary struct {
	MatchID   uint      `json:"match_id"`
	Datetime  time.Time `json:"datetime"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	IsRanked  bool      `json:"is_ranked"`
	Won       bool      `json:"won"`
	Score     string    `json:"score,omitempty"`
	Opponents []string  `json:"opponents"`
}

// MonthlyPerformance buckets wins and losses by calendar month ("2026-01").
type MonthlyPerformance struct {
	Month  string `json:"month"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type StatsResponse struct {
	Timeframe   Timeframe            `json:"timeframe"`
	GamesPlayed int                  `json:"games_played"`
	Wins        int                  `json:"wins"`
	Losses      int                  `json:"losses"`
	WinRate     float64              `json:"win_rate"`
	Elo         int                  `json:"elo"`
	History     []MatchSummary       `json:"history"`
	Monthly     []MonthlyPerformance `json:"monthly"`
}

// LeaderboardEntry splits a player's record into ranked and casual play.
type LeaderboardEntry struct {
	UserID       uint    `json:"user_id"`
	Name         string  `json:"name"`
	Elo          int     `json:"elo"`
	RankedWins   int     `json:"ranked_wins"`
	RankedLosses int     `json:"ranked_losses"`
	CasualWins   int     `json:"casual_wins"`
	CasualLosses int     `json:"casual_losses"`
	GamesPlayed  int     `json:"games_played"`
	WinRate      float64 `json:"win_rate"`
}

// PreviewResponse shows both players' current ratings and what each outcome
// would do to them.
type PreviewResponse struct {
	PlayerA PreviewPlayer `json:"player_a"`
	PlayerB PreviewPlayer `json:"player_b"`
	Preview elo.Preview   `json:"preview"`
}

type PreviewPlayer struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Elo    int    `json:"elo"`
}
