package service

import (
	"context"
	"fmt"
	"log"

	"homechain/internal/models"
	"homechain/internal/repository"
	"homechain/internal/ws"
)

// Pusher delivers one push notification to one device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// NotificationService writes notification rows and fans them out to the
// recipient's devices and open sockets. Delivery is best-effort and never
// blocks or fails the write path that triggered it.
type NotificationService struct {
	repo    *repository.NotificationRepository
	devices *repository.DeviceTokenRepository
	pusher  Pusher
	hub     *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, devices *repository.DeviceTokenRepository, pusher Pusher, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, devices: devices, pusher: pusher, hub: hub}
}

// Create persists the notification row. Fanout is a separate call so the
// handler controls ordering: reconcile, then row, then fanout.
func (s *NotificationService) Create(n *models.TransactionNotification) error {
	return s.repo.Create(n)
}

// Fanout pushes the notification to every device token of the recipient and
// broadcasts it to their open websockets. Push failures are logged only.
func (s *NotificationService) Fanout(n *models.TransactionNotification) {
	title := "Transaction update"
	body := fmt.Sprintf("Event: %s", n.Event)

	if s.hub != nil {
		s.hub.BroadcastToUser(n.RecipientUserID, n)
	}

	if s.pusher == nil || s.devices == nil {
		return
	}
	tokens, err := s.devices.ListByUserID(n.RecipientUserID)
	if err != nil {
		log.Printf("[Notifications] device tokens for user %d: %v", n.RecipientUserID, err)
		return
	}
	data := map[string]string{
		"transaction_id": n.TransactionID,
		"event":          string(n.Event),
		"property_id":    fmt.Sprintf("%d", n.PropertyID),
	}
	for _, t := range tokens {
		token := t.DeviceToken
		go func() {
			if err := s.pusher.Send(context.Background(), token, title, body, data); err != nil {
				log.Printf("[Notifications] push to user %d failed: %v", n.RecipientUserID, err)
			}
		}()
	}
}
