package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerLockKeys(t *testing.T) {
	t.Run("keys come out sorted regardless of input order", func(t *testing.T) {
		keys := PlayerLockKeys([]uint{42, 7, 19})

		require.Len(t, keys, 3)
		assert.Equal(t, int32(7), keys[0].Key)
		assert.Equal(t, int32(19), keys[1].Key)
		assert.Equal(t, int32(42), keys[2].Key)
	})

	t.Run("duplicate players collapse to one key", func(t *testing.T) {
		keys := PlayerLockKeys([]uint{7, 7, 7})

		require.Len(t, keys, 1)
		assert.Equal(t, int32(7), keys[0].Key)
	})

	t.Run("two callers with the same players agree on order", func(t *testing.T) {
		a := PlayerLockKeys([]uint{3, 1, 2})
		b := PlayerLockKeys([]uint{2, 3, 1})

		assert.Equal(t, a, b)
	})

	t.Run("all keys land in the player class", func(t *testing.T) {
		for _, k := range PlayerLockKeys([]uint{1, 2}) {
			assert.Equal(t, LockClassPlayer, k.Class)
		}
	})

	t.Run("empty input yields no keys", func(t *testing.T) {
		assert.Empty(t, PlayerLockKeys(nil))
	})
}

func TestLockKeyspacesAreDisjoint(t *testing.T) {
	assert.NotEqual(t, LockClassLocation, LockClassPlayer)
	assert.NotEqual(t, LockClassPlayer, LockClassRoles)
	assert.NotEqual(t, LockClassLocation, LockClassRoles)

	assert.Equal(t, LockClassRoles, RoleLockKey().Class)
}
