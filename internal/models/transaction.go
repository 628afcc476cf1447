package models

import (
	"time"

	"homechain/internal/domain"
)

// WalletMapping links a platform user to their blockchain wallet, one-to-one
// in both directions. Counterparty wallets with no mapping are legal.
type WalletMapping struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	WalletID  string    `gorm:"uniqueIndex;size:255;not null" json:"wallet_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WalletMapping) TableName() string {
	return "wallet_mappings"
}

// TransactionRecord is the mutable off-chain projection of one escrow bid.
// BidID and PropertyID are opaque identifiers assigned upstream. Terminal
// records are retained, never deleted.
type TransactionRecord struct {
	ID              uint                     `gorm:"primaryKey" json:"id"`
	BidID           string                   `gorm:"uniqueIndex;size:64;not null" json:"bid_id"`
	PropertyID      string                   `gorm:"index;size:64;not null" json:"property_id"`
	Status          domain.TransactionStatus `gorm:"size:32;not null;index;default:'pending'" json:"status"`
	Action          string                   `gorm:"size:16" json:"action,omitempty"` // purchase | lease
	BidAmount       string                   `gorm:"size:64" json:"bid_amount,omitempty"`
	StablecoinToken string                   `gorm:"size:255" json:"stablecoin_token,omitempty"`
	BuyerWalletID   string                   `gorm:"index;size:255" json:"buyer_wallet_id,omitempty"`
	SellerWalletID  string                   `gorm:"index;size:255" json:"seller_wallet_id,omitempty"`
	DocumentTokenID string                   `gorm:"size:255" json:"document_token_id,omitempty"`
	EscrowReleaseTx string                   `gorm:"size:255" json:"escrow_release_tx,omitempty"`
	Metadata        JSONMap                  `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

func (TransactionRecord) TableName() string {
	return "transaction_records"
}

// TransactionAuditLog is the append-only trail of status transitions. Exactly
// one row is written per applied event, in the same transaction as the record
// mutation it describes. Rows are never updated or deleted.
type TransactionAuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BidID         string    `gorm:"index;size:64;not null" json:"bid_id"`
	PropertyID    string    `gorm:"index;size:64" json:"property_id"`
	FromStatus    *string   `gorm:"size:64" json:"from_status"` // nil on first transition
	ToStatus      string    `gorm:"size:64;not null" json:"to_status"`
	ActorWalletID string    `gorm:"size:255" json:"actor_wallet_id,omitempty"`
	TxHash        string    `gorm:"size:255" json:"tx_hash,omitempty"`
	Metadata      JSONMap   `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TransactionAuditLog) TableName() string {
	return "transaction_audit_logs"
}
