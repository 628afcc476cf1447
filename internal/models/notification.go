package models

import (
	"time"

	"homechain/internal/domain"
)

// TransactionNotification is the fan-out artifact written for a recipient on
// a transaction-update call. Only IsRead ever changes after creation.
type TransactionNotification struct {
	ID              uint                    `gorm:"primaryKey" json:"id"`
	TransactionID   string                  `gorm:"index;size:64;not null" json:"transaction_id"`
	Event           domain.TransactionEvent `gorm:"size:32;not null" json:"event"`
	RecipientUserID uint                    `gorm:"not null;index" json:"recipient_user_id"`
	PropertyID      int                     `gorm:"not null;index" json:"property_id"`
	Metadata        JSONMap                 `gorm:"type:json" json:"metadata,omitempty"`
	IsRead          bool                    `gorm:"default:false" json:"is_read"`
	CreatedAt       time.Time               `json:"created_at"`

	Recipient User `gorm:"foreignKey:RecipientUserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TransactionNotification) TableName() string {
	return "transaction_notifications"
}

// DeviceToken registers a push target. A token is globally unique: when it
// shows up under a new user the row is re-pointed, not duplicated.
type DeviceToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	DeviceToken string    `gorm:"uniqueIndex;size:255;not null" json:"device_token"`
	Platform    string    `gorm:"size:50" json:"platform,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}
