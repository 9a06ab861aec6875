package stats

import (
	"testing"
	"time"

	"github.com/aaomarel/billiards-club/internal/match"
	"github.com/aaomarel/billiards-club/internal/models"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func player(id uint, name string) user.User {
	return user.User{Model: gorm.Model{ID: id}, Name: name}
}

func completedMatch(id uint, at time.Time, ranked bool, winners, losers []uint, players ...user.User) match.Match {
	recordedAt := at.Add(2 * time.Hour)
	return match.Match{
		Model:    gorm.Model{ID: id},
		Type:     match.MatchType1v1,
		Datetime: at,
		Location: "Table 1",
		Status:   match.StatusCompleted,
		IsRanked: ranked,
		Players:  players,
		Result: match.MatchResult{
			WinnerIDs:  models.IDSlice(winners),
			LoserIDs:   models.IDSlice(losers),
			Score:      "5-3",
			RecordedAt: &recordedAt,
		},
	}
}

func TestBuildPlayerStats(t *testing.T) {
	jan := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 18, 0, 0, 0, time.UTC)

	alice := player(1, "Alice")
	bob := player(2, "Bob")

	matches := []match.Match{
		completedMatch(10, jan, true, []uint{1}, []uint{2}, alice, bob),
		completedMatch(11, jan.AddDate(0, 0, 2), false, []uint{2}, []uint{1}, alice, bob),
		completedMatch(12, feb, true, []uint{1}, []uint{2}, alice, bob),
	}

	resp := BuildPlayerStats(1, matches, TimeframeAll)

	assert.Equal(t, 3, resp.GamesPlayed)
	assert.Equal(t, 2, resp.Wins)
	assert.Equal(t, 1, resp.Losses)
	assert.InDelta(t, 66.7, resp.WinRate, 1e-9)

	require.Len(t, resp.History, 3)
	assert.True(t, resp.History[0].Won)
	assert.False(t, resp.History[1].Won)
	assert.Equal(t, []string{"Bob"}, resp.History[0].Opponents)
	assert.Equal(t, "5-3", resp.History[0].Score)

	require.Len(t, resp.Monthly, 2)
	assert.Equal(t, MonthlyPerformance{Month: "2026-01", Wins: 1, Losses: 1}, resp.Monthly[0])
	assert.Equal(t, MonthlyPerformance{Month: "2026-02", Wins: 1, Losses: 0}, resp.Monthly[1])
}

func TestBuildPlayerStatsSkipsUnrecordedMatches(t *testing.T) {
	at := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	open := match.Match{
		Model:    gorm.Model{ID: 20},
		Datetime: at,
		Status:   match.StatusOpen,
	}

	resp := BuildPlayerStats(1, []match.Match{open}, TimeframeWeek)

	assert.Equal(t, 0, resp.GamesPlayed)
	assert.Zero(t, resp.WinRate)
	assert.Empty(t, resp.History)
	assert.Equal(t, TimeframeWeek, resp.Timeframe)
}

func TestBuildPlayerStatsTeamOpponents(t *testing.T) {
	at := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	m := completedMatch(30, at, false, []uint{1, 2}, []uint{3, 4},
		player(1, "Alice"), player(2, "Bob"), player(3, "Cara"), player(4, "Dan"))
	m.Type = match.MatchType2v2

	resp := BuildPlayerStats(1, []match.Match{m}, TimeframeAll)

	require.Len(t, resp.History, 1)
	assert.ElementsMatch(t, []string{"Cara", "Dan"}, resp.History[0].Opponents)
}

func TestBuildLeaderboard(t *testing.T) {
	jan := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)

	alice := player(1, "Alice")
	bob := player(2, "Bob")

	matches := []match.Match{
		completedMatch(10, jan, true, []uint{1}, []uint{2}, alice, bob),
		completedMatch(11, jan.AddDate(0, 0, 1), false, []uint{2}, []uint{1}, alice, bob),
		completedMatch(12, jan.AddDate(0, 0, 2), true, []uint{1}, []uint{2}, alice, bob),
	}

	entries := BuildLeaderboard([]LeaderboardEntry{
		{UserID: 1, Name: "Alice", Elo: 1232},
		{UserID: 2, Name: "Bob", Elo: 1168},
		{UserID: 3, Name: "Cara", Elo: 1200},
	}, matches)

	require.Len(t, entries, 3)

	// Sorted by rating descending.
	assert.Equal(t, uint(1), entries[0].UserID)
	assert.Equal(t, uint(3), entries[1].UserID)
	assert.Equal(t, uint(2), entries[2].UserID)

	assert.Equal(t, 2, entries[0].RankedWins)
	assert.Equal(t, 0, entries[0].RankedLosses)
	assert.Equal(t, 1, entries[0].CasualLosses)
	assert.Equal(t, 3, entries[0].GamesPlayed)
	assert.InDelta(t, 66.7, entries[0].WinRate, 1e-9)

	assert.Equal(t, 2, entries[2].RankedLosses)
	assert.Equal(t, 1, entries[2].CasualWins)

	// A player with no games keeps a zero record.
	assert.Zero(t, entries[1].GamesPlayed)
	assert.Zero(t, entries[1].WinRate)
}

func TestTimeframeStart(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -7), TimeframeWeek.Start(now))
	assert.Equal(t, now.AddDate(0, -1, 0), TimeframeMonth.Start(now))
	assert.Equal(t, now.AddDate(-1, 0, 0), TimeframeYear.Start(now))
	assert.True(t, TimeframeAll.Start(now).IsZero())
}

func TestParseTimeframe(t *testing.T) {
	for _, valid := range []string{"week", "month", "year", "all", ""} {
		_, ok := ParseTimeframe(valid)
		assert.True(t, ok, valid)
	}

	tf, ok := ParseTimeframe("decade")
	assert.False(t, ok)
	assert.Equal(t, TimeframeAll, tf)
}
