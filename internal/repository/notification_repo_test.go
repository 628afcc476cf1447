package repository

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"homechain/internal/domain"
	"homechain/internal/models"
)

func TestDeviceTokenUpsertRehomes(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewDeviceTokenRepository(db)
	a := seedUser(t, db, "a@test.local")
	b := seedUser(t, db, "b@test.local")

	if _, err := repo.Upsert(a.ID, "tok-1", "android"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	dt, err := repo.Upsert(b.ID, "tok-1", "ios")
	if err != nil {
		t.Fatalf("re-home upsert: %v", err)
	}
	if dt.UserID != b.ID || dt.Platform != "ios" {
		t.Fatalf("token not re-homed: %+v", dt)
	}

	var count int64
	db.Model(&models.DeviceToken{}).Where("device_token = ?", "tok-1").Count(&count)
	if count != 1 {
		t.Fatalf("token must stay globally unique, got %d rows", count)
	}

	aTokens, err := repo.ListByUserID(a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(aTokens) != 0 {
		t.Fatalf("previous owner should have no tokens, got %d", len(aTokens))
	}
}

func TestNotificationMarkRead(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewNotificationRepository(db)
	owner := seedUser(t, db, "owner@test.local")
	other := seedUser(t, db, "other@test.local")

	n := models.TransactionNotification{
		TransactionID:   "b1",
		Event:           domain.EventBidAccepted,
		RecipientUserID: owner.ID,
		PropertyID:      42,
	}
	if err := repo.Create(&n); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Foreign user cannot acknowledge it.
	if _, err := repo.MarkRead(n.ID, other.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}

	read, err := repo.MarkRead(n.ID, owner.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !read.IsRead {
		t.Fatal("expected is_read true")
	}

	// Acknowledging again is a no-op, not an error.
	if _, err := repo.MarkRead(n.ID, owner.ID); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	if _, err := repo.MarkRead(9999, owner.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}
