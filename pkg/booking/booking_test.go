package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func matchAt(id uint, start time.Time, location string, playerIDs ...uint) Match {
	return Match{
		ID:              id,
		Datetime:        start,
		DurationMinutes: 60,
		Location:        location,
		Status:          "open",
		PlayerIDs:       playerIDs,
	}
}

func TestTimeSlotWithBuffer(t *testing.T) {
	v := NewValidator(30)

	slot := v.TimeSlotWithBuffer(matchAt(1, baseTime, "Table 1"))

	assert.Equal(t, baseTime.Add(-30*time.Minute), slot.Start)
	assert.Equal(t, baseTime.Add(90*time.Minute), slot.End)
}

func TestSlotsOverlap(t *testing.T) {
	slot := func(start, end time.Time) TimeSlot { return TimeSlot{Start: start, End: end} }

	a := slot(baseTime, baseTime.Add(time.Hour))
	later := slot(baseTime.Add(30*time.Minute), baseTime.Add(90*time.Minute))
	touching := slot(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))

	t.Run("overlap is symmetric", func(t *testing.T) {
		assert.True(t, SlotsOverlap(a, later))
		assert.True(t, SlotsOverlap(later, a))
	})

	t.Run("touching endpoints do not overlap", func(t *testing.T) {
		assert.False(t, SlotsOverlap(a, touching))
		assert.False(t, SlotsOverlap(touching, a))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		inner := slot(baseTime.Add(10*time.Minute), baseTime.Add(20*time.Minute))
		assert.True(t, SlotsOverlap(a, inner))
	})
}

func TestHasConflictingMatches(t *testing.T) {
	v := NewValidator(30)
	proposed := matchAt(0, baseTime, "Table 1", 7)

	t.Run("buffered slots collide across the gap", func(t *testing.T) {
		// 18:00+60 buffered to [17:30,19:30) meets 19:00+60 buffered to [18:30,20:30).
		candidate := matchAt(2, baseTime.Add(time.Hour), "Table 2", 7)

		result := v.HasConflictingMatches(7, proposed, []Match{candidate})

		require.True(t, result.HasConflict)
		assert.Equal(t, uint(2), result.ConflictingMatch.ID)
	})

	t.Run("two hours apart is clear", func(t *testing.T) {
		candidate := matchAt(2, baseTime.Add(2*time.Hour), "Table 2", 7)

		result := v.HasConflictingMatches(7, proposed, []Match{candidate})

		assert.False(t, result.HasConflict)
	})

	t.Run("cancelled matches are ignored", func(t *testing.T) {
		candidate := matchAt(2, baseTime, "Table 2", 7)
		candidate.Status = MatchStatusCancelled

		result := v.HasConflictingMatches(7, proposed, []Match{candidate})

		assert.False(t, result.HasConflict)
	})

	t.Run("the proposed match is not its own conflict", func(t *testing.T) {
		existing := matchAt(5, baseTime, "Table 1", 7)

		result := v.HasConflictingMatches(7, existing, []Match{existing})

		assert.False(t, result.HasConflict)
	})

	t.Run("matches without the player are ignored", func(t *testing.T) {
		candidate := matchAt(2, baseTime, "Table 2", 8, 9)

		result := v.HasConflictingMatches(7, proposed, []Match{candidate})

		assert.False(t, result.HasConflict)
	})

	t.Run("first overlap in candidate order wins", func(t *testing.T) {
		first := matchAt(2, baseTime, "Table 2", 7)
		second := matchAt(3, baseTime.Add(30*time.Minute), "Table 3", 7)

		result := v.HasConflictingMatches(7, proposed, []Match{first, second})

		require.True(t, result.HasConflict)
		assert.Equal(t, uint(2), result.ConflictingMatch.ID)
	})
}

func TestIsLocationAvailable(t *testing.T) {
	v := NewValidator(30)
	proposed := matchAt(0, baseTime, "Table 1", 7)

	t.Run("same table at an overlapping time is taken", func(t *testing.T) {
		candidate := matchAt(2, baseTime, "Table 1", 8)

		result := v.IsLocationAvailable("Table 1", proposed, []Match{candidate})

		require.False(t, result.IsAvailable)
		assert.Equal(t, uint(2), result.ConflictingMatch.ID)
	})

	t.Run("a different table does not block", func(t *testing.T) {
		candidate := matchAt(2, baseTime, "Table 2", 8)

		result := v.IsLocationAvailable("Table 1", proposed, []Match{candidate})

		assert.True(t, result.IsAvailable)
	})
}

func TestValidateBooking(t *testing.T) {
	v := NewValidator(30)

	t.Run("clear slot is valid", func(t *testing.T) {
		proposed := matchAt(0, baseTime, "Table 1", 7, 8)
		candidate := matchAt(2, baseTime.Add(3*time.Hour), "Table 1", 7)

		result := v.ValidateBooking(proposed, []Match{candidate})

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.Nil(t, result.ConflictingMatch)
	})

	t.Run("one error per concern even with several conflicted players", func(t *testing.T) {
		proposed := matchAt(0, baseTime, "Table 1", 7, 8)
		candidate := matchAt(2, baseTime, "Table 2", 7, 8)

		result := v.ValidateBooking(proposed, []Match{candidate})

		require.False(t, result.IsValid)
		assert.Equal(t, []string{"player has a conflicting match"}, result.Errors)
	})

	t.Run("location conflict is reported when both checks fail", func(t *testing.T) {
		proposed := matchAt(0, baseTime, "Table 1", 7)
		playerConflict := matchAt(2, baseTime, "Table 2", 7)
		locationConflict := matchAt(3, baseTime, "Table 1", 8)

		result := v.ValidateBooking(proposed, []Match{playerConflict, locationConflict})

		require.False(t, result.IsValid)
		assert.Equal(t, []string{
			"player has a conflicting match",
			"location is not available at this time",
		}, result.Errors)
		assert.Equal(t, uint(3), result.ConflictingMatch.ID)
	})
}

func TestNewValidatorDefaultBuffer(t *testing.T) {
	v := NewValidator(0)

	slot := v.TimeSlotWithBuffer(matchAt(1, baseTime, "Table 1"))
	assert.Equal(t, baseTime.Add(-DefaultBufferMinutes*time.Minute), slot.Start)
}
