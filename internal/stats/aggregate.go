package stats

import (
	"math"
	"sort"

	"github.com/aaomarel/billiards-club/internal/match"
)

// BuildPlayerStats folds a player's completed matches into totals, a match
// history and per-month performance. Matches are expected in chronological
// order with players preloaded; only matches with a recorded result count.
func BuildPlayerStats(userID uint, matches []match.Match, timeframe Timeframe) StatsResponse {
	resp := StatsResponse{
		Timeframe: timeframe,
		History:   []MatchSummary{},
		Monthly:   []MonthlyPerformance{},
	}

	byMonth := map[string]*MonthlyPerformance{}
	for i := range matches {
		m := &matches[i]
		if m.Status != match.StatusCompleted || m.Result.RecordedAt == nil {
			continue
		}

		won := m.Result.WinnerIDs.Contains(userID)
		if won {
			resp.Wins++
		} else {
			resp.Losses++
		}
		resp.GamesPlayed++

		resp.History = append(resp.History, MatchSummary{
			MatchID:   m.ID,
			Datetime:  m.Datetime,
			Type:      string(m.Type),
			Location:  m.Location,
			IsRanked:  m.IsRanked,
			Won:       won,
			Score:     m.Result.Score,
			Opponents: opponentNames(userID, m),
		})

		key := m.Datetime.Format("2006-01")
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlyPerformance{Month: key}
			byMonth[key] = bucket
		}
		if won {
			bucket.Wins++
		} else {
			bucket.Losses++
		}
	}

	months := make([]string, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	sort.Strings(months)
	for _, key := range months {
		resp.Monthly = append(resp.Monthly, *byMonth[key])
	}

	resp.WinRate = winRate(resp.Wins, resp.Losses)
	return resp
}

// BuildLeaderboard computes every listed player's ranked and casual record
// from the completed matches, sorted by rating descending with name as the
// tiebreaker.
func BuildLeaderboard(players []LeaderboardEntry, matches []match.Match) []LeaderboardEntry {
	index := make(map[uint]*LeaderboardEntry, len(players))
	entries := make([]LeaderboardEntry, len(players))
	copy(entries, players)
	for i := range entries {
		index[entries[i].UserID] = &entries[i]
	}

	for i := range matches {
		m := &matches[i]
		if m.Status != match.StatusCompleted || m.Result.RecordedAt == nil {
			continue
		}
		for _, id := range m.Result.WinnerIDs {
			if e, ok := index[id]; ok {
				e.GamesPlayed++
				if m.IsRanked {
					e.RankedWins++
				} else {
					e.CasualWins++
				}
			}
		}
		for _, id := range m.Result.LoserIDs {
			if e, ok := index[id]; ok {
				e.GamesPlayed++
				if m.IsRanked {
					e.RankedLosses++
				} else {
					e.CasualLosses++
				}
			}
		}
	}

	for i := range entries {
		e := &entries[i]
		e.WinRate = winRate(e.RankedWins+e.CasualWins, e.RankedLosses+e.CasualLosses)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Elo != entries[j].Elo {
			return entries[i].Elo > entries[j].Elo
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// winRate is the win percentage rounded to one decimal place, 0 for no games.
func winRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*1000) / 10
}

// opponentNames lists the players on the other side of the result. When the
// result does not cover a player the name is skipped.
func opponentNames(userID uint, m *match.Match) []string {
	won := m.Result.WinnerIDs.Contains(userID)
	names := []string{}
	for i := range m.Players {
		p := &m.Players[i]
		if p.ID == userID {
			continue
		}
		onWinningSide := m.Result.WinnerIDs.Contains(p.ID)
		if won != onWinningSide {
			names = append(names, p.Name)
		}
	}
	return names
}
