package models

import (
	"time"

	"homechain/internal/domain"

	"gorm.io/gorm"
)

// User is the shared platform identity. Clients, agents and admins are one
// table dispatched by the Role tag; role-specific attributes stay optional.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Fullname     string         `gorm:"size:255" json:"fullname"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // CLIENT | AGENT | ADMIN
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// DisplayName picks the best human-readable name for counterparty summaries.
func (u *User) DisplayName() string {
	if u.Fullname != "" {
		return u.Fullname
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
