package user

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered club member.
type User struct {
	gorm.Model
	Name      string      `gorm:"not null" json:"name"`
	Email     string      `gorm:"uniqueIndex;not null" json:"email"`
	Password  string      `gorm:"not null" json:"-"`
	StudentID string      `gorm:"uniqueIndex;not null" json:"student_id"`
	Role      string      `gorm:"not null;default:'member';index" json:"role"`
	Stats     PlayerStats `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
}

// PlayerStats is the competitive record embedded in every user row. Elo and
// GamesPlayed are mutated only by recording a ranked match result.
type PlayerStats struct {
	Wins        int `gorm:"default:0" json:"wins"`
	Losses      int `gorm:"default:0" json:"losses"`
	Elo         int `gorm:"default:1200" json:"elo"`
	GamesPlayed int `gorm:"default:0" json:"games_played"`
}

// RefreshToken is a revocable long-lived session token.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// ChangeRoleRequest is the payload for a role-change request.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required" example:"officer"`
}

// PublicProfile is the externally visible slice of a user.
type PublicProfile struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	StudentID string      `json:"student_id"`
	Role      string      `json:"role"`
	Stats     PlayerStats `json:"stats"`
}

// ToPublicProfile strips credentials and contact details from a user record.
func ToPublicProfile(u *User) PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		StudentID: u.StudentID,
		Role:      u.Role,
		Stats:     u.Stats,
	}
}
