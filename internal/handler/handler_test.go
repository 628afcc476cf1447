package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"homechain/config"
	"homechain/internal/auth"
	"homechain/internal/database"
	"homechain/internal/domain"
	"homechain/internal/models"
	"homechain/internal/router"
)

func setupTestEnv(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test"},
		JWT: config.JWTConfig{
			AccessSecret: "test-secret",
			AccessExpiry: time.Hour,
			Issuer:       "homechain-test",
		},
		Indexer: config.IndexerConfig{ReconcileRetries: 2, ReconcileBackoff: 10 * time.Millisecond},
	}
	dsn := fmt.Sprintf("file:handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return router.Setup(cfg, db), db, cfg
}

func seedUserWithToken(t *testing.T, db *gorm.DB, cfg *config.Config, email, role string) (*models.User, string) {
	t.Helper()
	u := models.User{Username: email, Email: email, Role: role}
	require.NoError(t, db.Create(&u).Error)
	token, err := auth.GenerateAccessToken(&cfg.JWT, u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return &u, token
}

func doJSON(engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIndexerIngest(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	_, adminToken := seedUserWithToken(t, db, cfg, "indexer@test.local", domain.RoleAdmin)

	body := map[string]interface{}{
		"transaction_id": "b1",
		"event":          "bid_accepted",
		"property_id":    42,
		"actor_wallet_id": "0xACTOR",
		"tx_hash":        "0xTX",
		"metadata":       map[string]interface{}{"bid_amount": "500"},
	}
	w := doJSON(engine, http.MethodPost, "/api/v1/indexer/transactions", adminToken, body)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.JSONEq(t, `{"status":"queued"}`, w.Body.String())

	var rec models.TransactionRecord
	require.NoError(t, db.Where("bid_id = ?", "b1").First(&rec).Error)
	require.Equal(t, domain.StatusAccepted, rec.Status)
	require.Equal(t, "42", rec.PropertyID)
	require.Equal(t, "500", rec.BidAmount)

	var audit models.TransactionAuditLog
	require.NoError(t, db.Where("bid_id = ?", "b1").First(&audit).Error)
	require.Nil(t, audit.FromStatus)
	require.Equal(t, "0xACTOR", audit.ActorWalletID)
	require.Equal(t, "0xTX", audit.TxHash)
}

func TestIndexerIngestUnknownEvent(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	_, adminToken := seedUserWithToken(t, db, cfg, "indexer@test.local", domain.RoleAdmin)

	body := map[string]interface{}{
		"transaction_id": "b1",
		"event":          "bid_vaporized",
		"property_id":    42,
	}
	w := doJSON(engine, http.MethodPost, "/api/v1/indexer/transactions", adminToken, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.TransactionRecord{}).Count(&count)
	require.Zero(t, count)
}

func TestIndexerIngestRequiresAdmin(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	_, clientToken := seedUserWithToken(t, db, cfg, "client@test.local", domain.RoleClient)

	body := map[string]interface{}{
		"transaction_id": "b1",
		"event":          "bid_accepted",
		"property_id":    42,
	}
	w := doJSON(engine, http.MethodPost, "/api/v1/indexer/transactions", clientToken, body)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/indexer/transactions", "", body)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletRegisterAndLookup(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	userA, tokenA := seedUserWithToken(t, db, cfg, "a@test.local", domain.RoleClient)
	_, tokenB := seedUserWithToken(t, db, cfg, "b@test.local", domain.RoleClient)

	w := doJSON(engine, http.MethodPost, "/api/v1/users/wallets/register", tokenA, map[string]string{"wallet_id": "0xW"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		WalletID string `json:"wallet_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, userA.ID, resp.ID)
	require.Equal(t, "0xW", resp.WalletID)

	// Same wallet under another user conflicts.
	w = doJSON(engine, http.MethodPost, "/api/v1/users/wallets/register", tokenB, map[string]string{"wallet_id": "0xW"})
	require.Equal(t, http.StatusConflict, w.Code)

	// A second wallet for the same user conflicts too.
	w = doJSON(engine, http.MethodPost, "/api/v1/users/wallets/register", tokenA, map[string]string{"wallet_id": "0xOTHER"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/v1/users/by-wallet/0xW", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/v1/users/by-wallet/0xNOBODY", tokenB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionUpdateFlow(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	recipient, token := seedUserWithToken(t, db, cfg, "buyer@test.local", domain.RoleClient)

	body := map[string]interface{}{
		"transaction_id":    "b1",
		"event":             "docs_released",
		"recipient_user_id": recipient.ID,
		"property_id":       42,
		"metadata":          map[string]interface{}{"document_token_id": "doc-9"},
	}
	w := doJSON(engine, http.MethodPost, "/api/v1/notifications/transaction-update", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	// Reconciliation ran before the notification write.
	var rec models.TransactionRecord
	require.NoError(t, db.Where("bid_id = ?", "b1").First(&rec).Error)
	require.Equal(t, domain.StatusDocsReleased, rec.Status)
	require.Equal(t, "doc-9", rec.DocumentTokenID)

	var n models.TransactionNotification
	require.NoError(t, db.Where("recipient_user_id = ?", recipient.ID).First(&n).Error)
	require.Equal(t, "b1", n.TransactionID)
	require.False(t, n.IsRead)

	// The recipient sees it in their list and can acknowledge it.
	w = doJSON(engine, http.MethodGet, "/api/v1/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(engine, http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", n.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&n, n.ID).Error)
	require.True(t, n.IsRead)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	_, token := seedUserWithToken(t, db, cfg, "buyer@test.local", domain.RoleClient)

	w := doJSON(engine, http.MethodPost, "/api/v1/notifications/9999/read", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterDevice(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	u, token := seedUserWithToken(t, db, cfg, "buyer@test.local", domain.RoleClient)

	w := doJSON(engine, http.MethodPost, "/api/v1/notifications/register-device", token, map[string]string{
		"device_token": "tok-1",
		"platform":     "android",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var dt models.DeviceToken
	require.NoError(t, db.Where("device_token = ?", "tok-1").First(&dt).Error)
	require.Equal(t, u.ID, dt.UserID)

	w = doJSON(engine, http.MethodPost, "/api/v1/notifications/register-device", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTransactions(t *testing.T) {
	engine, db, cfg := setupTestEnv(t)
	u, token := seedUserWithToken(t, db, cfg, "buyer@test.local", domain.RoleClient)
	require.NoError(t, db.Create(&models.WalletMapping{UserID: u.ID, WalletID: "0xBUYER"}).Error)

	for i, status := range []domain.TransactionStatus{domain.StatusPending, domain.StatusCompleted} {
		require.NoError(t, db.Create(&models.TransactionRecord{
			BidID:         fmt.Sprintf("b%d", i),
			PropertyID:    "42",
			Status:        status,
			BuyerWalletID: "0xBUYER",
		}).Error)
	}

	w := doJSON(engine, http.MethodGet, "/api/v1/transactions?status=ongoing", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)

	w = doJSON(engine, http.MethodGet, "/api/v1/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
}
