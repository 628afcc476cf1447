package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"homechain/config"
	"homechain/internal/domain"
	"homechain/internal/models"

	"github.com/avast/retry-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownEvent is returned for event values outside the indexer contract.
var ErrUnknownEvent = errors.New("unknown transaction event")

// Reconciler applies indexer lifecycle events to transaction records. Events
// arrive unordered, possibly duplicated, at-least-once; application is
// idempotent per bid and every applied event appends exactly one audit row in
// the same database transaction as the record mutation.
type Reconciler struct {
	db      *gorm.DB
	retries uint
	backoff time.Duration
}

func NewReconciler(db *gorm.DB, cfg *config.IndexerConfig) *Reconciler {
	retries := uint(3)
	backoff := 200 * time.Millisecond
	if cfg != nil {
		if cfg.ReconcileRetries > 0 {
			retries = uint(cfg.ReconcileRetries)
		}
		if cfg.ReconcileBackoff > 0 {
			backoff = cfg.ReconcileBackoff
		}
	}
	return &Reconciler{db: db, retries: retries, backoff: backoff}
}

// Reconcile looks up or creates the record for bidID, applies the event's
// target status, merges metadata, and appends the audit entry. The row lock
// serializes concurrent events for the same bid; different bids proceed in
// parallel. Transient storage failures are retried with backoff; a colliding
// insert for a brand-new bid lands on the update path on retry.
func (s *Reconciler) Reconcile(ctx context.Context, bidID string, event domain.TransactionEvent, propertyID string, metadata models.JSONMap) (*models.TransactionRecord, error) {
	status, ok := domain.StatusForEvent(event)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	if bidID == "" {
		return nil, fmt.Errorf("reconcile: transaction_id is required")
	}

	var out models.TransactionRecord
	err := retry.Do(
		func() error {
			return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				var rec models.TransactionRecord
				var fromStatus *string
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("bid_id = ?", bidID).First(&rec).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					rec = models.TransactionRecord{BidID: bidID, PropertyID: propertyID, Status: status}
				case err != nil:
					return err
				default:
					fs := string(rec.Status)
					fromStatus = &fs
					rec.Status = status
				}

				mergeMetadata(&rec, metadata)

				if err := tx.Save(&rec).Error; err != nil {
					return err
				}
				audit := models.TransactionAuditLog{
					BidID:         rec.BidID,
					PropertyID:    rec.PropertyID,
					FromStatus:    fromStatus,
					ToStatus:      string(rec.Status),
					ActorWalletID: metadata.String("actor_wallet_id"),
					TxHash:        metadata.String("tx_hash"),
					Metadata:      metadata,
				}
				if err := tx.Create(&audit).Error; err != nil {
					return err
				}
				out = rec
				return nil
			})
		},
		retry.Attempts(s.retries),
		retry.Delay(s.backoff),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Printf("[Reconciler] bid=%s event=%s failed: %v", bidID, event, err)
		return nil, err
	}
	return &out, nil
}

// mergeMetadata lifts known payload keys onto first-class columns and folds
// the rest into the stored map. Keys absent from the payload leave existing
// values untouched.
func mergeMetadata(rec *models.TransactionRecord, metadata models.JSONMap) {
	if len(metadata) == 0 {
		return
	}
	if v := metadata.String("document_token_id"); v != "" {
		rec.DocumentTokenID = v
	}
	if v := metadata.String("escrow_release_tx"); v != "" {
		rec.EscrowReleaseTx = v
	}
	if v := stringify(metadata["bid_amount"]); v != "" {
		rec.BidAmount = v
	}
	if v := metadata.String("stablecoin_token"); v != "" {
		rec.StablecoinToken = v
	}
	if v := metadata.String("buyer_wallet_id"); v != "" {
		rec.BuyerWalletID = v
	}
	if v := metadata.String("seller_wallet_id"); v != "" {
		rec.SellerWalletID = v
	}
	if v := domain.ParseAction(metadata.String("action")); v != "" {
		rec.Action = v
	}
	if rec.Metadata == nil {
		rec.Metadata = models.JSONMap{}
	}
	for k, v := range metadata {
		rec.Metadata[k] = v
	}
}

// stringify tolerates indexers that send numeric bid amounts.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
