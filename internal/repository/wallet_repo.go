package repository

import (
	"errors"

	"homechain/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrWalletTaken means the wallet address is already mapped to some user.
	ErrWalletTaken = errors.New("wallet already registered")
	// ErrUserHasWallet means the user already registered a different wallet.
	ErrUserHasWallet = errors.New("user already has a registered wallet")
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Register creates the user↔wallet mapping. Both directions are one-to-one;
// either side already being mapped is a conflict the client must resolve.
func (r *WalletRepository) Register(userID uint, walletID string) (*models.WalletMapping, error) {
	var m models.WalletMapping
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WalletMapping{}).Where("wallet_id = ?", walletID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrWalletTaken
		}
		if err := tx.Model(&models.WalletMapping{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserHasWallet
		}
		m = models.WalletMapping{UserID: userID, WalletID: walletID}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.WalletMapping, error) {
	var m models.WalletMapping
	err := r.db.Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetUserByWallet returns the owning user for a wallet, or nil when the
// wallet is unregistered (external counterparties are legal).
func (r *WalletRepository) GetUserByWallet(walletID string) (*models.User, error) {
	var m models.WalletMapping
	err := r.db.Where("wallet_id = ?", walletID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var u models.User
	if err := r.db.First(&u, m.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
