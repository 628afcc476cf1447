package handler

import (
	"errors"
	"net/http"

	"homechain/internal/middleware"
	"homechain/internal/repository"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
	userRepo   *repository.UserRepository
}

func NewWalletHandler(walletRepo *repository.WalletRepository, userRepo *repository.UserRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, userRepo: userRepo}
}

type walletRegisterRequest struct {
	WalletID string `json:"wallet_id" binding:"required"`
}

type walletLookupResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	WalletID  string `json:"wallet_id"`
}

// Register maps the caller to a wallet address. Conflicts (wallet taken, or
// caller already mapped) are 409 and need client-side correction, not retry.
func (h *WalletHandler) Register(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req walletRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_id required"})
		return
	}
	mapping, err := h.walletRepo.Register(userID, req.WalletID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletTaken) || errors.Is(err, repository.ErrUserHasWallet) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	c.JSON(http.StatusCreated, walletLookupResponse{
		ID:        u.ID,
		Name:      u.DisplayName(),
		AvatarURL: u.AvatarURL,
		WalletID:  mapping.WalletID,
	})
}

// LookupByWallet resolves the owning user of a wallet address, 404 when the
// wallet is unregistered.
func (h *WalletHandler) LookupByWallet(c *gin.Context) {
	walletID := c.Param("wallet_id")
	u, err := h.walletRepo.GetUserByWallet(walletID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found for wallet"})
		return
	}
	c.JSON(http.StatusOK, walletLookupResponse{
		ID:        u.ID,
		Name:      u.DisplayName(),
		AvatarURL: u.AvatarURL,
		WalletID:  walletID,
	})
}
