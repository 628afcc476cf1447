package models

import (
	"time"

	"gorm.io/gorm"
)

// Property is the catalog entry matched against on-chain property ids when
// assembling transaction views. Records may lag the chain: a transaction can
// reference a BlockchainPropertyID that has no catalog row yet.
type Property struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	BlockchainPropertyID string         `gorm:"uniqueIndex;size:64;not null" json:"blockchain_property_id"`
	Title                string         `gorm:"size:100;not null" json:"title"`
	Location             string         `gorm:"size:70;not null" json:"location"`
	OwnerID              *uint          `gorm:"index" json:"owner_id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	Images []PropertyImage `gorm:"foreignKey:PropertyID" json:"images,omitempty"`
}

func (Property) TableName() string {
	return "properties"
}

type PropertyImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	ImageURL   string `gorm:"size:255;not null" json:"image_url"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}
