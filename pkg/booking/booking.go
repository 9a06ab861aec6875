// Package booking decides whether a proposed match can be scheduled without
// colliding with another match for any of its players or its table.
package booking

import "time"

// DefaultBufferMinutes is the padding added before and after every match's
// occupied interval, modelling table turnover and travel time.
const DefaultBufferMinutes = 30

// MatchStatusCancelled matches are ignored during conflict checks.
const MatchStatusCancelled = "cancelled"

// Match is the read-only snapshot of a match fed into the validator. The
// caller resolves player identity to plain user IDs before calling in.
type Match struct {
	ID              uint
	Datetime        time.Time
	DurationMinutes int
	Location        string
	Status          string
	PlayerIDs       []uint
}

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// ConflictResult reports whether a player is double-booked.
type ConflictResult struct {
	HasConflict      bool
	ConflictingMatch *Match
}

// AvailabilityResult reports whether a location is free.
type AvailabilityResult struct {
	IsAvailable      bool
	ConflictingMatch *Match
}

// ValidationResult is the combined verdict for a proposed booking.
type ValidationResult struct {
	IsValid          bool
	Errors           []string
	ConflictingMatch *Match
}

// Validator checks proposed matches against a caller-supplied candidate set.
// It performs no I/O; candidates should be passed in a stable order
// (chronological) so the reported conflict is reproducible.
type Validator struct {
	bufferMinutes int
}

// NewValidator builds a Validator. A non-positive buffer falls back to
// DefaultBufferMinutes.
func NewValidator(bufferMinutes int) *Validator {
	if bufferMinutes <= 0 {
		bufferMinutes = DefaultBufferMinutes
	}
	return &Validator{bufferMinutes: bufferMinutes}
}

// TimeSlotWithBuffer returns the interval a match occupies, padded by the
// configured buffer on both sides.
func (v *Validator) TimeSlotWithBuffer(m Match) TimeSlot {
	buffer := time.Duration(v.bufferMinutes) * time.Minute
	return TimeSlot{
		Start: m.Datetime.Add(-buffer),
		End:   m.Datetime.Add(time.Duration(m.DurationMinutes)*time.Minute + buffer),
	}
}

// SlotsOverlap reports whether two half-open slots intersect. Touching
// endpoints do not count as overlapping.
func SlotsOverlap(a, b TimeSlot) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// HasConflictingMatches scans candidates for another match involving playerID
// whose buffered slot overlaps the proposed one. The first overlap found wins.
func (v *Validator) HasConflictingMatches(playerID uint, proposed Match, candidates []Match) ConflictResult {
	proposedSlot := v.TimeSlotWithBuffer(proposed)

	for i := range candidates {
		c := &candidates[i]
		if c.Status == MatchStatusCancelled || c.ID == proposed.ID {
			continue
		}
		if !containsPlayer(c.PlayerIDs, playerID) {
			continue
		}
		if SlotsOverlap(proposedSlot, v.TimeSlotWithBuffer(*c)) {
			return ConflictResult{HasConflict: true, ConflictingMatch: c}
		}
	}
	return ConflictResult{}
}

// IsLocationAvailable scans candidates for another match at the same location
// whose buffered slot overlaps the proposed one.
func (v *Validator) IsLocationAvailable(location string, proposed Match, candidates []Match) AvailabilityResult {
	proposedSlot := v.TimeSlotWithBuffer(proposed)

	for i := range candidates {
		c := &candidates[i]
		if c.Status == MatchStatusCancelled || c.ID == proposed.ID {
			continue
		}
		if c.Location != location {
			continue
		}
		if SlotsOverlap(proposedSlot, v.TimeSlotWithBuffer(*c)) {
			return AvailabilityResult{IsAvailable: false, ConflictingMatch: c}
		}
	}
	return AvailabilityResult{IsAvailable: true}
}

// ValidateBooking checks every player of the proposed match for conflicts,
// stopping at the first player found in conflict, then independently checks
// the location. When both checks fail, ConflictingMatch reflects the location
// conflict.
func (v *Validator) ValidateBooking(proposed Match, candidates []Match) ValidationResult {
	result := ValidationResult{}

	for _, playerID := range proposed.PlayerIDs {
		conflict := v.HasConflictingMatches(playerID, proposed, candidates)
		if conflict.HasConflict {
			result.Errors = append(result.Errors, "player has a conflicting match")
			result.ConflictingMatch = conflict.ConflictingMatch
			break
		}
	}

	availability := v.IsLocationAvailable(proposed.Location, proposed, candidates)
	if !availability.IsAvailable {
		result.Errors = append(result.Errors, "location is not available at this time")
		result.ConflictingMatch = availability.ConflictingMatch
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func containsPlayer(ids []uint, id uint) bool {
	for _, p := range ids {
		if p == id {
			return true
		}
	}
	return false
}
