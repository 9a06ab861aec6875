// Package elo implements the club's competitive rating calculations.
package elo

import "math"

// Config controls the rating behaviour. Zero values are replaced by the
// defaults from DefaultConfig, so callers can override only what they need.
type Config struct {
	KFactor            int // standard K-factor for established players
	MinRating          int // floor for any rating
	MaxRating          int // ceiling for any rating
	ProvisionalGames   int // games before a player counts as established
	ProvisionalKFactor int // higher K-factor while provisional
}

// DefaultConfig returns the standard club settings.
func DefaultConfig() Config {
	return Config{
		KFactor:            32,
		MinRating:          100,
		MaxRating:          3000,
		ProvisionalGames:   10,
		ProvisionalKFactor: 64,
	}
}

// highRatedKFactor dampens rating swings above this threshold.
const (
	highRatedThreshold = 2400
	highRatedKFactor   = 16
)

// Player is the rating-relevant slice of a user passed in by the caller.
type Player struct {
	Rating      int
	GamesPlayed int
}

// Result holds the post-match ratings for both sides.
type Result struct {
	WinnerNewRating int
	LoserNewRating  int
}

// Preview reports the rating deltas for either outcome of a pairing.
type Preview struct {
	IfAWins Changes `json:"if_a_wins"`
	IfBWins Changes `json:"if_b_wins"`
}

type Changes struct {
	AChange int `json:"a_change"`
	BChange int `json:"b_change"`
}

// Engine computes rating updates. It holds only fixed configuration and is
// safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine builds an Engine, filling unset config fields from DefaultConfig.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.KFactor == 0 {
		cfg.KFactor = def.KFactor
	}
	if cfg.MinRating == 0 {
		cfg.MinRating = def.MinRating
	}
	if cfg.MaxRating == 0 {
		cfg.MaxRating = def.MaxRating
	}
	if cfg.ProvisionalGames == 0 {
		cfg.ProvisionalGames = def.ProvisionalGames
	}
	if cfg.ProvisionalKFactor == 0 {
		cfg.ProvisionalKFactor = def.ProvisionalKFactor
	}
	return &Engine{cfg: cfg}
}

// ExpectedScore returns the logistic win probability of the first rating
// against the second. The result is always in (0,1).
func (e *Engine) ExpectedScore(rating, opponentRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentRating-rating)/400))
}

// kFactor picks the K-factor for a player. Provisional status dominates the
// high-rating reduction.
func (e *Engine) kFactor(rating, gamesPlayed int) int {
	if gamesPlayed < e.cfg.ProvisionalGames {
		return e.cfg.ProvisionalKFactor
	}
	if rating > highRatedThreshold {
		return highRatedKFactor
	}
	return e.cfg.KFactor
}

// ApplyResult computes both players' new ratings after a decided match.
// Ratings are rounded once, after the logistic computation, then clamped to
// the configured bounds.
func (e *Engine) ApplyResult(winner, loser Player) Result {
	expectedWinner := e.ExpectedScore(winner.Rating, loser.Rating)
	expectedLoser := e.ExpectedScore(loser.Rating, winner.Rating)

	winnerK := e.kFactor(winner.Rating, winner.GamesPlayed)
	loserK := e.kFactor(loser.Rating, loser.GamesPlayed)

	winnerNew := int(math.Round(float64(winner.Rating) + float64(winnerK)*(1-expectedWinner)))
	loserNew := int(math.Round(float64(loser.Rating) + float64(loserK)*(0-expectedLoser)))

	return Result{
		WinnerNewRating: e.clamp(winnerNew),
		LoserNewRating:  e.clamp(loserNew),
	}
}

// PreviewBothOutcomes runs ApplyResult for either winner and returns the
// deltas rather than absolute ratings.
func (e *Engine) PreviewBothOutcomes(playerA, playerB Player) Preview {
	aWins := e.ApplyResult(playerA, playerB)
	bWins := e.ApplyResult(playerB, playerA)

	return Preview{
		IfAWins: Changes{
			AChange: aWins.WinnerNewRating - playerA.Rating,
			BChange: aWins.LoserNewRating - playerB.Rating,
		},
		IfBWins: Changes{
			AChange: bWins.LoserNewRating - playerA.Rating,
			BChange: bWins.WinnerNewRating - playerB.Rating,
		},
	}
}

func (e *Engine) clamp(rating int) int {
	if rating < e.cfg.MinRating {
		return e.cfg.MinRating
	}
	if rating > e.cfg.MaxRating {
		return e.cfg.MaxRating
	}
	return rating
}
