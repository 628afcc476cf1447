package repository

import (
	"homechain/internal/models"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(p *models.Property) error {
	return r.db.Create(p).Error
}

// GetByBlockchainID resolves a catalog entry by its on-chain identifier.
func (r *PropertyRepository) GetByBlockchainID(blockchainID string) (*models.Property, error) {
	var p models.Property
	err := r.db.Preload("Images").Where("blockchain_property_id = ?", blockchainID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
