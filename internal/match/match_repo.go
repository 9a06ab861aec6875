package match

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaomarel/billiards-club/internal/models"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/aaomarel/billiards-club/pkg/booking"
	"github.com/aaomarel/billiards-club/pkg/elo"
	"github.com/aaomarel/billiards-club/pkg/roles"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// candidateWindow is the coarse interval around a proposed slot used to fetch
// potential conflicts. Generous on purpose; the validator does the exact math.
const candidateWindow = 24 * time.Hour

var (
	ErrMatchNotOpen      = errors.New("match is not open for joining")
	ErrAlreadyJoined     = errors.New("you are already in this match")
	ErrNotInMatch        = errors.New("you are not in this match")
	ErrCreatorMustCancel = errors.New("match creator must cancel the match instead of leaving")
	ErrNotCreator        = errors.New("only the creator can cancel this match")
	ErrAlreadyDecided    = errors.New("match is already completed or cancelled")
)

// BookingConflictError carries the booking validator's verdict for a rejected
// create or join.
type BookingConflictError struct {
	Errors           []string
	ConflictingMatch *booking.Match
}

func (e BookingConflictError) Error() string {
	return strings.Join(e.Errors, "; ")
}

// ForbiddenError is a permission rejection surfaced as a 403.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string { return e.Msg }

// InvalidResultError marks a malformed winners/losers submission.
type InvalidResultError struct {
	Msg string
}

func (e InvalidResultError) Error() string { return e.Msg }

type MatchRepository interface {
	// Create validates the proposed booking against overlapping matches and
	// persists it in the same transaction. The creator joins as first player.
	Create(m *Match) error

	GetByID(id uint) (*Match, error)

	// List returns matches chronologically. Non-privileged callers see
	// undeleted matches plus any match they play in, deleted or not.
	List(userID uint, privileged bool) ([]Match, error)

	Join(matchID, userID uint) (*Match, error)
	Leave(matchID, userID uint) (*Match, error)
	Cancel(matchID, userID uint) (*Match, error)

	// RecordResult authorizes the recorder, stores the outcome and, for ranked
	// 1v1 matches, applies the rating update to both players atomically.
	RecordResult(matchID, recorderID uint, req RecordResultRequest) (*Match, error)

	// CancelExpired marks past open/filled matches cancelled and hidden.
	CancelExpired(now time.Time) (int64, error)
}

type matchRepository struct {
	db        *gorm.DB
	validator *booking.Validator
	engine    *elo.Engine
}

func NewMatchRepository(db *gorm.DB, validator *booking.Validator, engine *elo.Engine) MatchRepository {
	return &matchRepository{db: db, validator: validator, engine: engine}
}

func (r *matchRepository) Create(m *Match) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Serialize with concurrent bookings touching the same table or
		// player before reading candidates, otherwise two transactions can
		// validate against snapshots that miss each other's insert.
		if err := models.AcquireLocationLock(tx, m.Location); err != nil {
			return err
		}
		if err := models.AcquireAdvisoryLocks(tx, models.PlayerLockKeys([]uint{m.CreatorID})); err != nil {
			return err
		}

		candidates, err := candidatesTx(tx, m.Datetime)
		if err != nil {
			return err
		}

		proposed := m.ToBookingMatch()
		proposed.PlayerIDs = []uint{m.CreatorID}

		result := r.validator.ValidateBooking(proposed, candidates)
		if !result.IsValid {
			return BookingConflictError{Errors: result.Errors, ConflictingMatch: result.ConflictingMatch}
		}

		m.Players = []user.User{{Model: gorm.Model{ID: m.CreatorID}}}
		return tx.Create(m).Error
	})
}

func (r *matchRepository) GetByID(id uint) (*Match, error) {
	var m Match
	err := r.db.Preload("Players").Preload("Creator").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) List(userID uint, privileged bool) ([]Match, error) {
	query := r.db.Preload("Players").Preload("Creator").Order("datetime ASC")
	if !privileged {
		query = query.Where(
			"is_deleted = ? OR id IN (?)",
			false,
			r.db.Table("match_players").Select("match_id").Where("user_id = ?", userID),
		)
	}

	var matches []Match
	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) Join(matchID, userID uint) (*Match, error) {
	var m *Match
	err := r.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := lockMatchTx(tx, matchID)
		if err != nil {
			return err
		}
		m = loaded

		if m.Status != StatusOpen {
			return ErrMatchNotOpen
		}
		if m.HasPlayer(userID) {
			return ErrAlreadyJoined
		}

		// Hold the joining player's booking lock so a concurrent create or
		// join for the same player cannot validate against a stale snapshot.
		if err := models.AcquireAdvisoryLocks(tx, models.PlayerLockKeys([]uint{userID})); err != nil {
			return err
		}

		candidates, err := candidatesTx(tx, m.Datetime)
		if err != nil {
			return err
		}
		conflict := r.validator.HasConflictingMatches(userID, m.ToBookingMatch(), candidates)
		if conflict.HasConflict {
			return BookingConflictError{
				Errors:           []string{"player has a conflicting match"},
				ConflictingMatch: conflict.ConflictingMatch,
			}
		}

		if err := tx.Model(m).Association("Players").Append(&user.User{Model: gorm.Model{ID: userID}}); err != nil {
			return fmt.Errorf("failed to add player: %w", err)
		}

		if len(m.Players)+1 >= m.Type.PlayerCapacity() {
			m.Status = StatusFilled
			if err := tx.Save(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(matchID)
}

func (r *matchRepository) Leave(matchID, userID uint) (*Match, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := lockMatchTx(tx, matchID)
		if err != nil {
			return err
		}

		if m.Status != StatusOpen {
			return ErrMatchNotOpen
		}
		if !m.HasPlayer(userID) {
			return ErrNotInMatch
		}
		if m.CreatorID == userID {
			return ErrCreatorMustCancel
		}

		if err := tx.Model(m).Association("Players").Delete(&user.User{Model: gorm.Model{ID: userID}}); err != nil {
			return fmt.Errorf("failed to remove player: %w", err)
		}

		if m.Status == StatusFilled {
			m.Status = StatusOpen
			return tx.Save(m).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(matchID)
}

func (r *matchRepository) Cancel(matchID, userID uint) (*Match, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := lockMatchTx(tx, matchID)
		if err != nil {
			return err
		}

		if m.CreatorID != userID {
			return ErrNotCreator
		}
		if m.Status == StatusCompleted || m.Status == StatusCancelled {
			return ErrAlreadyDecided
		}

		m.Status = StatusCancelled
		return tx.Save(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(matchID)
}

func (r *matchRepository) RecordResult(matchID, recorderID uint, req RecordResultRequest) (*Match, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := lockMatchTx(tx, matchID)
		if err != nil {
			return err
		}

		var recorder user.User
		if err := tx.First(&recorder, recorderID).Error; err != nil {
			return fmt.Errorf("failed to load recorder: %w", err)
		}
		perms := roles.PermissionsFor(roles.Role(recorder.Role))

		if m.IsRanked && !perms.CanManageMatches {
			return ForbiddenError{Msg: "only match managers can record ranked match results"}
		}
		if !m.IsRanked && !perms.CanManageMatches && m.CreatorID != recorderID {
			return ForbiddenError{Msg: "only the match creator or match managers can record casual match results"}
		}

		if m.Status == StatusCompleted || m.Status == StatusCancelled {
			return ErrAlreadyDecided
		}

		if err := validateResultSides(m, req); err != nil {
			return err
		}

		now := time.Now()
		m.Result = MatchResult{
			WinnerIDs:    models.IDSlice(req.Winners),
			LoserIDs:     models.IDSlice(req.Losers),
			Score:        req.Score,
			RecordedByID: &recorderID,
			RecordedAt:   &now,
		}
		m.Status = StatusCompleted

		if m.IsRanked {
			if err := r.applyRankedStats(tx, m, req); err != nil {
				return err
			}
		}

		return tx.Save(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(matchID)
}

// applyRankedStats updates the win/loss record of every participant and, for
// 1v1 matches, feeds the pairing through the rating engine. Team matches keep
// their record without a rating change; the engine models exactly one winner
// against one loser.
func (r *matchRepository) applyRankedStats(tx *gorm.DB, m *Match, req RecordResultRequest) error {
	if m.Type == MatchType1v1 {
		var winner, loser user.User
		if err := tx.First(&winner, req.Winners[0]).Error; err != nil {
			return fmt.Errorf("failed to load winner: %w", err)
		}
		if err := tx.First(&loser, req.Losers[0]).Error; err != nil {
			return fmt.Errorf("failed to load loser: %w", err)
		}

		result := r.engine.ApplyResult(
			elo.Player{Rating: winner.Stats.Elo, GamesPlayed: winner.Stats.GamesPlayed},
			elo.Player{Rating: loser.Stats.Elo, GamesPlayed: loser.Stats.GamesPlayed},
		)
		winner.Stats.Elo = result.WinnerNewRating
		loser.Stats.Elo = result.LoserNewRating

		winner.Stats.Wins++
		winner.Stats.GamesPlayed++
		loser.Stats.Losses++
		loser.Stats.GamesPlayed++

		if err := tx.Save(&winner).Error; err != nil {
			return err
		}
		return tx.Save(&loser).Error
	}

	for _, id := range req.Winners {
		err := tx.Model(&user.User{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"stats_wins":         gorm.Expr("stats_wins + 1"),
				"stats_games_played": gorm.Expr("stats_games_played + 1"),
			}).Error
		if err != nil {
			return err
		}
	}
	for _, id := range req.Losers {
		err := tx.Model(&user.User{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"stats_losses":       gorm.Expr("stats_losses + 1"),
				"stats_games_played": gorm.Expr("stats_games_played + 1"),
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *matchRepository) CancelExpired(now time.Time) (int64, error) {
	result := r.db.Model(&Match{}).
		Where("datetime < ? AND status IN ? AND is_deleted = ?", now, []MatchStatus{StatusOpen, StatusFilled}, false).
		Updates(map[string]interface{}{
			"status":     StatusCancelled,
			"is_deleted": true,
		})
	return result.RowsAffected, result.Error
}

// validateResultSides checks that the submitted winners and losers exactly
// partition the match's players into two equal teams.
func validateResultSides(m *Match, req RecordResultRequest) error {
	teamSize := m.Type.TeamSize()
	if len(req.Winners) != teamSize || len(req.Losers) != teamSize {
		return InvalidResultError{Msg: fmt.Sprintf("a %s match needs %d winner(s) and %d loser(s)", m.Type, teamSize, teamSize)}
	}

	seen := make(map[uint]bool, teamSize*2)
	for _, id := range append(append([]uint{}, req.Winners...), req.Losers...) {
		if seen[id] {
			return InvalidResultError{Msg: "a player cannot appear on both sides"}
		}
		seen[id] = true
		if !m.HasPlayer(id) {
			return InvalidResultError{Msg: fmt.Sprintf("user %d is not a player in this match", id)}
		}
	}
	return nil
}

// lockMatchTx loads a match row under FOR UPDATE so concurrent joins, cancels
// and result recordings serialize on it, then loads its players.
func lockMatchTx(tx *gorm.DB, matchID uint) (*Match, error) {
	var m Match
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, matchID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&m).Association("Players").Find(&m.Players); err != nil {
		return nil, err
	}
	return &m, nil
}

// candidatesTx fetches undeleted matches in a coarse window around the
// proposed time, chronologically, as booking snapshots.
func candidatesTx(tx *gorm.DB, around time.Time) ([]booking.Match, error) {
	var matches []Match
	err := tx.Preload("Players").
		Where("datetime BETWEEN ? AND ? AND is_deleted = ?", around.Add(-candidateWindow), around.Add(candidateWindow), false).
		Order("datetime ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]booking.Match, 0, len(matches))
	for i := range matches {
		candidates = append(candidates, matches[i].ToBookingMatch())
	}
	return candidates, nil
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
