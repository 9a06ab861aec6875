package user

import (
	"errors"
	"fmt"

	"github.com/aaomarel/billiards-club/internal/models"
	"github.com/aaomarel/billiards-club/pkg/roles"
	"gorm.io/gorm"
)

// ForbiddenError carries a business-rule rejection from the role authority.
// It maps to a 403 at the HTTP boundary.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string { return e.Msg }

type UserRepository interface {
	GetByID(id uint) (*User, error)
	List() ([]User, error)

	// ChangeRole validates and applies a role change in one transaction so the
	// leader/co-leader counts it checks cannot go stale before the write.
	ChangeRole(targetID uint, newRole roles.Role, managerID uint) (*User, error)

	// Remove validates and soft-deletes a member in one transaction.
	Remove(targetID uint, managerID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List() ([]User, error) {
	var users []User
	if err := r.db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ChangeRole(targetID uint, newRole roles.Role, managerID uint) (*User, error) {
	var target User

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// One club-wide lock serializes role changes and removals so the
		// leader/co-leader counts below cannot go stale between validation
		// and commit (two concurrent demotions of the last two leaders would
		// otherwise both pass the last-leader check).
		if err := models.AcquireAdvisoryLocks(tx, []models.AdvisoryLockKey{models.RoleLockKey()}); err != nil {
			return err
		}

		var manager User
		if err := tx.First(&manager, managerID).Error; err != nil {
			return fmt.Errorf("failed to load manager: %w", err)
		}
		if err := tx.First(&target, targetID).Error; err != nil {
			return err
		}

		leaderCount, err := countRoleTx(tx, roles.RoleLeader)
		if err != nil {
			return err
		}
		coLeaderCount, err := countRoleTx(tx, roles.RoleCoLeader)
		if err != nil {
			return err
		}

		verdict := roles.ValidateRoleChange(
			int(leaderCount), int(coLeaderCount),
			roles.Role(target.Role), newRole, roles.Role(manager.Role),
		)
		if !verdict.IsValid {
			return ForbiddenError{Msg: verdict.Error}
		}

		target.Role = string(newRole)
		return tx.Save(&target).Error
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *userRepository) Remove(targetID uint, managerID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := models.AcquireAdvisoryLocks(tx, []models.AdvisoryLockKey{models.RoleLockKey()}); err != nil {
			return err
		}

		var manager User
		if err := tx.First(&manager, managerID).Error; err != nil {
			return fmt.Errorf("failed to load manager: %w", err)
		}
		var target User
		if err := tx.First(&target, targetID).Error; err != nil {
			return err
		}

		leaderCount, err := countRoleTx(tx, roles.RoleLeader)
		if err != nil {
			return err
		}

		// Privileged accounts other than the target; zero means the target is
		// the last admin standing.
		var otherAdmins int64
		err = tx.Model(&User{}).
			Where("role IN ?", []string{
				string(roles.RoleOfficer),
				string(roles.RoleCoLeader),
				string(roles.RoleLeader),
			}).
			Where("id <> ?", target.ID).
			Count(&otherAdmins).Error
		if err != nil {
			return err
		}
		isLastAdmin := roles.IsPrivileged(roles.Role(target.Role)) && otherAdmins == 0

		verdict := roles.CanRemoveUser(
			roles.Role(target.Role), roles.Role(manager.Role),
			int(leaderCount), isLastAdmin,
		)
		if !verdict.IsValid {
			return ForbiddenError{Msg: verdict.Error}
		}

		return tx.Delete(&target).Error
	})
}

func countRoleTx(tx *gorm.DB, role roles.Role) (int64, error) {
	var count int64
	if err := tx.Model(&User{}).Where("role = ?", string(role)).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
