package models

import (
	"sort"

	"gorm.io/gorm"
)

// Advisory lock keyspaces. The classes keep location, player and role locks
// in disjoint key ranges so unrelated resources never contend.
const (
	LockClassLocation int32 = 1
	LockClassPlayer   int32 = 2
	LockClassRoles    int32 = 3
)

// AdvisoryLockKey identifies one pg_advisory_xact_lock target.
type AdvisoryLockKey struct {
	Class int32
	Key   int32
}

// PlayerLockKeys builds lock keys for a set of players, sorted and
// deduplicated so concurrent transactions acquire them in the same order and
// cannot deadlock on each other.
func PlayerLockKeys(playerIDs []uint) []AdvisoryLockKey {
	ids := append([]uint(nil), playerIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	keys := make([]AdvisoryLockKey, 0, len(ids))
	var last uint
	for i, id := range ids {
		if i > 0 && id == last {
			continue
		}
		last = id
		keys = append(keys, AdvisoryLockKey{Class: LockClassPlayer, Key: int32(id)})
	}
	return keys
}

// RoleLockKey is the single club-wide key serializing role changes and
// removals with the leader/co-leader/admin counts they validate against.
func RoleLockKey() AdvisoryLockKey {
	return AdvisoryLockKey{Class: LockClassRoles}
}

// AcquireAdvisoryLocks takes transaction-scoped advisory locks. They release
// automatically on commit or rollback, so a validate-then-commit sequence
// holding one cannot race another holding the same key.
func AcquireAdvisoryLocks(tx *gorm.DB, keys []AdvisoryLockKey) error {
	for _, k := range keys {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", k.Class, k.Key).Error; err != nil {
			return err
		}
	}
	return nil
}

// AcquireLocationLock serializes bookings at one location. The text key is
// hashed server-side into the int4 lock space.
func AcquireLocationLock(tx *gorm.DB, location string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?, hashtext(?))", LockClassLocation, location).Error
}
