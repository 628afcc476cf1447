package service

import (
	"errors"
	"log"
	"time"

	"homechain/internal/domain"
	"homechain/internal/models"
	"homechain/internal/repository"

	"gorm.io/gorm"
)

// TransactionPropertyInfo is the catalog summary attached to a view.
type TransactionPropertyInfo struct {
	ID                   uint     `json:"id"`
	BlockchainPropertyID string   `json:"blockchain_property_id"`
	Title                string   `json:"title"`
	Location             string   `json:"location"`
	Images               []string `json:"images"`
}

// TransactionCounterpartyInfo summarizes the other side of the deal. ID and
// name are zero-valued when the counterparty wallet has no registered owner.
type TransactionCounterpartyInfo struct {
	ID        uint   `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	WalletID  string `json:"wallet_id,omitempty"`
}

type TransactionView struct {
	BidID           string                       `json:"bid_id"`
	PropertyID      string                       `json:"property_id"`
	Status          domain.TransactionStatus     `json:"status"`
	Action          string                       `json:"action,omitempty"`
	BidAmount       string                       `json:"bid_amount,omitempty"`
	StablecoinToken string                       `json:"stablecoin_token,omitempty"`
	DocumentTokenID string                       `json:"document_token_id,omitempty"`
	EscrowReleaseTx string                       `json:"escrow_release_tx,omitempty"`
	UpdatedAt       time.Time                    `json:"updated_at"`
	Property        *TransactionPropertyInfo     `json:"property,omitempty"`
	Counterparty    *TransactionCounterpartyInfo `json:"counterparty,omitempty"`
}

// TransactionService assembles enriched read-side views of the caller's
// transactions. Enrichment is best-effort: a missing catalog entry or an
// unregistered counterparty degrades the view to partial data, never an error.
type TransactionService struct {
	txRepo       *repository.TransactionRepository
	walletRepo   *repository.WalletRepository
	propertyRepo *repository.PropertyRepository
}

func NewTransactionService(txRepo *repository.TransactionRepository, walletRepo *repository.WalletRepository, propertyRepo *repository.PropertyRepository) *TransactionService {
	return &TransactionService{txRepo: txRepo, walletRepo: walletRepo, propertyRepo: propertyRepo}
}

// ListForUser returns the caller's transactions, optionally narrowed to a
// coarse status bucket (ongoing/completed/cancelled). Users with no wallet
// mapping see an empty list.
func (s *TransactionService) ListForUser(userID uint, statusBucket string) ([]TransactionView, error) {
	mapping, err := s.walletRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []TransactionView{}, nil
		}
		return nil, err
	}

	records, err := s.txRepo.ListByWallet(mapping.WalletID, domain.StatusesForBucket(statusBucket))
	if err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(records))
	for _, rec := range records {
		view := TransactionView{
			BidID:           rec.BidID,
			PropertyID:      rec.PropertyID,
			Status:          rec.Status,
			Action:          rec.Action,
			BidAmount:       rec.BidAmount,
			StablecoinToken: rec.StablecoinToken,
			DocumentTokenID: rec.DocumentTokenID,
			EscrowReleaseTx: rec.EscrowReleaseTx,
			UpdatedAt:       rec.UpdatedAt,
			Property:        s.propertyInfo(rec.PropertyID),
			Counterparty:    s.counterpartyInfo(&rec, mapping.WalletID),
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *TransactionService) propertyInfo(blockchainID string) *TransactionPropertyInfo {
	p, err := s.propertyRepo.GetByBlockchainID(blockchainID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Transactions] property lookup %s: %v", blockchainID, err)
		}
		return nil
	}
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.ImageURL)
	}
	return &TransactionPropertyInfo{
		ID:                   p.ID,
		BlockchainPropertyID: p.BlockchainPropertyID,
		Title:                p.Title,
		Location:             p.Location,
		Images:               images,
	}
}

func (s *TransactionService) counterpartyInfo(rec *models.TransactionRecord, callerWallet string) *TransactionCounterpartyInfo {
	otherWallet := rec.BuyerWalletID
	if rec.BuyerWalletID == callerWallet {
		otherWallet = rec.SellerWalletID
	}
	if otherWallet == "" {
		return nil
	}
	info := &TransactionCounterpartyInfo{WalletID: otherWallet}
	u, err := s.walletRepo.GetUserByWallet(otherWallet)
	if err != nil {
		log.Printf("[Transactions] counterparty lookup %s: %v", otherWallet, err)
		return info
	}
	if u != nil {
		info.ID = u.ID
		info.Name = u.DisplayName()
		info.AvatarURL = u.AvatarURL
	}
	return info
}
