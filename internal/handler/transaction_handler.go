package handler

import (
	"net/http"

	"homechain/internal/middleware"
	"homechain/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	svc *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// List returns the caller's transactions with property and counterparty
// enrichment. Optional ?status=ongoing|completed|cancelled bucket filter.
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	views, err := h.svc.ListForUser(userID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}
