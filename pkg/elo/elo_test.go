package elo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func established() int { return DefaultConfig().ProvisionalGames }

func TestExpectedScore(t *testing.T) {
	engine := NewEngine(Config{})

	t.Run("equal ratings are a coin flip", func(t *testing.T) {
		assert.InDelta(t, 0.5, engine.ExpectedScore(1200, 1200), 1e-9)
	})

	t.Run("expectations of both sides sum to one", func(t *testing.T) {
		a := engine.ExpectedScore(1400, 1000)
		b := engine.ExpectedScore(1000, 1400)
		assert.InDelta(t, 1.0, a+b, 1e-9)
		assert.Greater(t, a, b)
	})

	t.Run("400 point gap is roughly ten to one", func(t *testing.T) {
		assert.InDelta(t, 10.0/11.0, engine.ExpectedScore(1400, 1000), 1e-9)
	})
}

func TestApplyResult(t *testing.T) {
	engine := NewEngine(Config{})

	t.Run("even match moves both sides by half K", func(t *testing.T) {
		result := engine.ApplyResult(
			Player{Rating: 1200, GamesPlayed: established()},
			Player{Rating: 1200, GamesPlayed: established()},
		)
		assert.Equal(t, 1216, result.WinnerNewRating)
		assert.Equal(t, 1184, result.LoserNewRating)
	})

	t.Run("upset win pays more than expected win", func(t *testing.T) {
		favorite := Player{Rating: 1400, GamesPlayed: established()}
		underdog := Player{Rating: 1000, GamesPlayed: established()}

		upset := engine.ApplyResult(underdog, favorite)
		expected := engine.ApplyResult(favorite, underdog)

		underdogGain := upset.WinnerNewRating - underdog.Rating
		favoriteGain := expected.WinnerNewRating - favorite.Rating
		assert.Equal(t, 29, underdogGain)
		assert.Equal(t, 3, favoriteGain)
	})

	t.Run("ratings clamp to the configured bounds", func(t *testing.T) {
		top := engine.ApplyResult(
			Player{Rating: 2999, GamesPlayed: 0},
			Player{Rating: 2999, GamesPlayed: 0},
		)
		assert.Equal(t, 3000, top.WinnerNewRating)

		bottom := engine.ApplyResult(
			Player{Rating: 105, GamesPlayed: 0},
			Player{Rating: 105, GamesPlayed: 0},
		)
		assert.Equal(t, 100, bottom.LoserNewRating)
	})
}

func TestKFactorSelection(t *testing.T) {
	engine := NewEngine(Config{})

	t.Run("provisional players swing harder", func(t *testing.T) {
		provisional := engine.ApplyResult(
			Player{Rating: 1200, GamesPlayed: 0},
			Player{Rating: 1200, GamesPlayed: established()},
		)
		// Winner at K=64 gains twice what an established winner would.
		assert.Equal(t, 1232, provisional.WinnerNewRating)
		assert.Equal(t, 1184, provisional.LoserNewRating)
	})

	t.Run("provisional status beats the high rating reduction", func(t *testing.T) {
		result := engine.ApplyResult(
			Player{Rating: 2500, GamesPlayed: 0},
			Player{Rating: 2500, GamesPlayed: 0},
		)
		assert.Equal(t, 2532, result.WinnerNewRating)
	})

	t.Run("established high rated players move slowly", func(t *testing.T) {
		result := engine.ApplyResult(
			Player{Rating: 2500, GamesPlayed: established()},
			Player{Rating: 2500, GamesPlayed: established()},
		)
		assert.Equal(t, 2508, result.WinnerNewRating)
		assert.Equal(t, 2492, result.LoserNewRating)
	})
}

func TestPreviewBothOutcomes(t *testing.T) {
	engine := NewEngine(Config{})

	preview := engine.PreviewBothOutcomes(
		Player{Rating: 1200, GamesPlayed: established()},
		Player{Rating: 1200, GamesPlayed: established()},
	)

	assert.Equal(t, Changes{AChange: 16, BChange: -16}, preview.IfAWins)
	assert.Equal(t, Changes{AChange: -16, BChange: 16}, preview.IfBWins)
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(Config{KFactor: 24})

	assert.Equal(t, 24, engine.cfg.KFactor)
	assert.Equal(t, DefaultConfig().MinRating, engine.cfg.MinRating)
	assert.Equal(t, DefaultConfig().MaxRating, engine.cfg.MaxRating)
	assert.Equal(t, DefaultConfig().ProvisionalGames, engine.cfg.ProvisionalGames)
	assert.Equal(t, DefaultConfig().ProvisionalKFactor, engine.cfg.ProvisionalKFactor)
}
