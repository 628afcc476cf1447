package repository

import (
	"errors"

	"homechain/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.TransactionNotification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(userID uint, limit, offset int) ([]models.TransactionNotification, error) {
	var list []models.TransactionNotification
	err := r.db.Where("recipient_user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkRead flips is_read for a notification owned by userID. Returns
// gorm.ErrRecordNotFound for unknown or foreign ids.
func (r *NotificationRepository) MarkRead(id, userID uint) (*models.TransactionNotification, error) {
	var n models.TransactionNotification
	err := r.db.Where("id = ? AND recipient_user_id = ?", id, userID).First(&n).Error
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.IsRead = true
		if err := r.db.Model(&n).Update("is_read", true).Error; err != nil {
			return nil, err
		}
	}
	return &n, nil
}

type DeviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// Upsert registers a device token. Tokens are globally unique: an existing
// token under another user is re-homed to the caller instead of duplicated.
func (r *DeviceTokenRepository) Upsert(userID uint, token, platform string) (*models.DeviceToken, error) {
	var dt models.DeviceToken
	err := r.db.Where("device_token = ?", token).First(&dt).Error
	switch {
	case err == nil:
		dt.UserID = userID
		dt.Platform = platform
		if err := r.db.Save(&dt).Error; err != nil {
			return nil, err
		}
		return &dt, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		dt = models.DeviceToken{UserID: userID, DeviceToken: token, Platform: platform}
		if err := r.db.Create(&dt).Error; err != nil {
			return nil, err
		}
		return &dt, nil
	default:
		return nil, err
	}
}

func (r *DeviceTokenRepository) ListByUserID(userID uint) ([]models.DeviceToken, error) {
	var list []models.DeviceToken
	err := r.db.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}
