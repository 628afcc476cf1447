package repository

import (
	"homechain/internal/domain"
	"homechain/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByBidID(bidID string) (*models.TransactionRecord, error) {
	var rec models.TransactionRecord
	err := r.db.Where("bid_id = ?", bidID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByWallet returns records where the wallet is buyer or seller, optionally
// narrowed to a status set. Plain snapshot reads, no locking.
func (r *TransactionRepository) ListByWallet(walletID string, statuses []domain.TransactionStatus) ([]models.TransactionRecord, error) {
	q := r.db.Where("buyer_wallet_id = ? OR seller_wallet_id = ?", walletID, walletID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var list []models.TransactionRecord
	err := q.Order("updated_at DESC").Find(&list).Error
	return list, err
}

// AuditTrail returns the full transition history for a bid, oldest first.
func (r *TransactionRepository) AuditTrail(bidID string) ([]models.TransactionAuditLog, error) {
	var list []models.TransactionAuditLog
	err := r.db.Where("bid_id = ?", bidID).Order("id ASC").Find(&list).Error
	return list, err
}
