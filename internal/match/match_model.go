package match

import (
	"time"

	"github.com/aaomarel/billiards-club/internal/models"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/aaomarel/billiards-club/pkg/booking"
	"gorm.io/gorm"
)

type MatchType string

const (
	MatchType1v1 MatchType = "1v1"
	MatchType2v2 MatchType = "2v2"
)

// PlayerCapacity returns how many players fill a match of this type.
func (t MatchType) PlayerCapacity() int {
	if t == MatchType2v2 {
		return 4
	}
	return 2
}

// TeamSize returns how many players stand on each side.
func (t MatchType) TeamSize() int {
	return t.PlayerCapacity() / 2
}

type MatchStatus string

const (
	StatusOpen      MatchStatus = "open"
	StatusFilled    MatchStatus = "filled"
	StatusCancelled MatchStatus = "cancelled"
	StatusCompleted MatchStatus = "completed"
)

// Match is a scheduled billiards game at a club table.
type Match struct {
	gorm.Model
	Type            MatchType   `gorm:"not null" json:"type"`
	Datetime        time.Time   `gorm:"index;not null" json:"datetime"`
	DurationMinutes int         `gorm:"not null;default:60" json:"duration_minutes"`
	Location        string      `gorm:"index;not null" json:"location"`
	CreatorID       uint        `gorm:"index;not null" json:"creator_id"`
	Creator         user.User   `gorm:"foreignKey:CreatorID" json:"creator"`
	Players         []user.User `gorm:"many2many:match_players" json:"players"`
	Status          MatchStatus `gorm:"index;not null;default:'open'" json:"status"`
	IsRanked        bool        `gorm:"default:false" json:"is_ranked"`
	IsDeleted       bool        `gorm:"index;default:false" json:"is_deleted"`
	Result          MatchResult `gorm:"embedded;embeddedPrefix:result_" json:"result"`
}

// MatchResult is the recorded outcome embedded in a completed match row.
// RecordedAt is nil until a result has been recorded.
type MatchResult struct {
	WinnerIDs    models.IDSlice `gorm:"type:jsonb" json:"winner_ids,omitempty"`
	LoserIDs     models.IDSlice `gorm:"type:jsonb" json:"loser_ids,omitempty"`
	Score        string         `json:"score,omitempty"`
	RecordedByID *uint          `json:"recorded_by_id,omitempty"`
	RecordedAt   *time.Time     `json:"recorded_at,omitempty"`
}

// PlayerIDs returns the loaded players' IDs in join order.
func (m *Match) PlayerIDs() []uint {
	ids := make([]uint, 0, len(m.Players))
	for i := range m.Players {
		ids = append(ids, m.Players[i].ID)
	}
	return ids
}

// HasPlayer reports whether a user is among the match's players.
func (m *Match) HasPlayer(userID uint) bool {
	for i := range m.Players {
		if m.Players[i].ID == userID {
			return true
		}
	}
	return false
}

// ToBookingMatch converts a match into the snapshot shape the booking
// validator consumes.
func (m *Match) ToBookingMatch() booking.Match {
	return booking.Match{
		ID:              m.ID,
		Datetime:        m.Datetime,
		DurationMinutes: m.DurationMinutes,
		Location:        m.Location,
		Status:          string(m.Status),
		PlayerIDs:       m.PlayerIDs(),
	}
}

type CreateMatchRequest struct {
	Type            MatchType `json:"type" binding:"required,oneof=1v1 2v2" example:"1v1"`
	Datetime        time.Time `json:"datetime" binding:"required" example:"2024-01-01T18:00:00Z"`
	Location        string    `json:"location" binding:"required" example:"Table 3"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=15,max=480" example:"60"`
	IsRanked        bool      `json:"is_ranked" example:"true"`
}

// BookingConflictResponse is the 409 payload for a rejected create or join.
type BookingConflictResponse struct {
	Error            string         `json:"error"`
	Details          []string       `json:"details"`
	ConflictingMatch *booking.Match `json:"conflicting_match,omitempty"`
}

type RecordResultRequest struct {
	Winners []uint `json:"winners" binding:"required,min=1" example:"1"`
	Losers  []uint `json:"losers" binding:"required,min=1" example:"2"`
	Score   string `json:"score,omitempty" example:"5-3"`
}
