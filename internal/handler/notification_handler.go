package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"homechain/internal/domain"
	"homechain/internal/middleware"
	"homechain/internal/models"
	"homechain/internal/repository"
	"homechain/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	repo       *repository.NotificationRepository
	devices    *repository.DeviceTokenRepository
	reconciler *service.Reconciler
	notifSvc   *service.NotificationService
}

func NewNotificationHandler(repo *repository.NotificationRepository, devices *repository.DeviceTokenRepository, reconciler *service.Reconciler, notifSvc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{repo: repo, devices: devices, reconciler: reconciler, notifSvc: notifSvc}
}

type transactionUpdateRequest struct {
	TransactionID   string                 `json:"transaction_id" binding:"required"`
	Event           string                 `json:"event" binding:"required"`
	RecipientUserID uint                   `json:"recipient_user_id" binding:"required"`
	PropertyID      int                    `json:"property_id" binding:"required"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// TransactionUpdate reconciles the event, writes the notification row, then
// triggers fanout — in that order. Fanout failures are logged, never surfaced;
// the reconciliation write stays atomic on its own.
func (h *NotificationHandler) TransactionUpdate(c *gin.Context) {
	var req transactionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	metadata := models.JSONMap(req.Metadata)
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

	n := &models.TransactionNotification{
		TransactionID:   req.TransactionID,
		Event:           domain.TransactionEvent(req.Event),
		RecipientUserID: req.RecipientUserID,
		PropertyID:      req.PropertyID,
		Metadata:        metadata,
	}
	if err := h.notifSvc.Create(n); err != nil {
		// Reconciliation is already committed; the caller may retry the
		// notification itself.
		log.Printf("[Notifications] create for user %d: %v", req.RecipientUserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification write failed"})
		return
	}

	h.notifSvc.Fanout(n)

	c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByRecipient(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	n, err := h.repo.MarkRead(uint(id), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, n)
}

type deviceTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
	Platform    string `json:"platform"`
}

// RegisterDevice upserts a push target for the caller. A token that already
// exists under another user is re-homed.
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_token required"})
		return
	}
	dt, err := h.devices.Upsert(userID, req.DeviceToken, req.Platform)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, dt)
}
