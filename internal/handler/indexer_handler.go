package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"homechain/internal/domain"
	"homechain/internal/models"
	"homechain/internal/service"

	"github.com/gin-gonic/gin"
)

// IndexerHandler ingests lifecycle events pushed by the blockchain indexer.
type IndexerHandler struct {
	reconciler *service.Reconciler
}

func NewIndexerHandler(reconciler *service.Reconciler) *IndexerHandler {
	return &IndexerHandler{reconciler: reconciler}
}

type transactionEventRequest struct {
	TransactionID string                 `json:"transaction_id" binding:"required"`
	Event         string                 `json:"event" binding:"required"`
	PropertyID    int                    `json:"property_id" binding:"required"`
	ActorWalletID string                 `json:"actor_wallet_id"`
	TxHash        string                 `json:"tx_hash"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// Ingest applies one indexer event. The contract is fire-and-forget: a 202 is
// returned without the resulting record. A 5xx means nothing was committed and
// the indexer should retry; replays are safe because reconciliation is
// idempotent per bid.
func (h *IndexerHandler) Ingest(c *gin.Context) {
	var req transactionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[Indexer] invalid payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	metadata := models.JSONMap(req.Metadata)
	if metadata == nil {
		metadata = models.JSONMap{}
	}
	if req.ActorWalletID != "" {
		if _, ok := metadata["actor_wallet_id"]; !ok {
			metadata["actor_wallet_id"] = req.ActorWalletID
		}
	}
	if req.TxHash != "" {
		if _, ok := metadata["tx_hash"]; !ok {
			metadata["tx_hash"] = req.TxHash
		}
	}

	_, err := h.reconciler.Reconcile(
		c.Request.Context(),
		req.TransactionID,
		domain.TransactionEvent(req.Event),
		strconv.Itoa(req.PropertyID),
		metadata,
	)
	if err != nil {
		if errors.Is(err, service.ErrUnknownEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
