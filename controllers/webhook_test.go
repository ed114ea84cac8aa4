package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bayon/bot"
	"bayon/config"
	appdb "bayon/db"
	"bayon/dedup"
	"bayon/messenger"
	"bayon/models"
	"bayon/secret"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVerifyToken = "verify-me"
	testAppSecret   = "app-secret"
)

func testConfig() config.Configuration {
	var c config.Configuration
	c.Messenger.ApiVersion = "v21.0"
	c.Messenger.VerifyToken = testVerifyToken
	c.Messenger.AppSecret = testAppSecret
	return c
}

// newTestServer wires a full gin engine backed by an in-memory db and a
// stubbed Send API.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	// a second pool connection would see a different empty memory db
	conn.DB().SetMaxOpenConns(1)
	appdb.AutoMigrate(conn)

	sendAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"recipient_id": "psid-1", "message_id": "m_out"})
	}))
	t.Cleanup(sendAPI.Close)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	box, err := secret.NewBox(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	client := messenger.NewClient("v21.0")
	client.BaseURL = sendAPI.URL
	retrier := messenger.NewRetrier(discard)
	gateway := bot.NewGateway(conn, discard)
	responder := bot.NewResponder(conn, discard, box, client, retrier, gateway)
	proc := bot.NewProcessor(conn, discard, dedup.New(nil), responder)

	Setup(testConfig(), proc, box, discard)

	r := gin.New()
	r.Use(appdb.SetDBtoContext(conn))
	api := r.Group("/api")
	api.GET("/webhook", WebhookVerify)
	api.POST("/webhook", WebhookUpdate)
	api.POST("/businesses/:id/channel", ConnectChannel)
	api.POST("/conversations/:id/handover", MarkHandover)
	return r, conn
}

func TestWebhookVerify(t *testing.T) {
	r, _ := newTestServer(t)

	get := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/webhook"+query, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := get("?hub.mode=subscribe&hub.verify_token=" + testVerifyToken + "&hub.challenge=12345")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())

	w = get("?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get("?hub.mode=unsubscribe&hub.verify_token=" + testVerifyToken + "&hub.challenge=12345")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get("?hub.mode=subscribe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	r.ServeHTTP(w, req)
	return w
}

func deliveryBody(page, psid, text, mid string) []byte {
	b, _ := json.Marshal(map[string]any{
		"object": "page",
		"entry": []map[string]any{{
			"id": page,
			"messaging": []map[string]any{{
				"sender":    map[string]string{"id": psid},
				"recipient": map[string]string{"id": page},
				"timestamp": time.Now().UnixMilli(),
				"message":   map[string]string{"mid": mid, "text": text},
			}},
		}},
	})
	return b
}

func TestWebhookUpdateRejectsBadSignature(t *testing.T) {
	r, db := newTestServer(t)

	body := deliveryBody("page-1", "psid-1", "hello", "mid-1")

	w := postWebhook(r, body, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postWebhook(r, body, sign(body, "wrong-secret"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int
	db.Model(&models.Message{}).Count(&count)
	assert.Zero(t, count, "rejected deliveries must not reach the processor")
}

func TestWebhookUpdateRejectsMalformedBody(t *testing.T) {
	r, _ := newTestServer(t)

	body := []byte(`{not json`)
	w := postWebhook(r, body, sign(body, testAppSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookUpdateAcksAndProcesses(t *testing.T) {
	r, db := newTestServer(t)

	biz := models.Business{Name: "Shop", PageID: "page-1", BotActive: true}
	require.NoError(t, db.Create(&biz).Error)

	body := deliveryBody("page-1", "psid-1", "hello", "mid-1")
	w := postWebhook(r, body, sign(body, testAppSecret))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	// processing happens after the ack
	require.Eventually(t, func() bool {
		var count int
		db.Model(&models.Message{}).Where("sender_type = ?", models.MESSAGE_SENDER_CUSTOMER).Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebhookUpdateAcksEmptyDelivery(t *testing.T) {
	r, _ := newTestServer(t)

	body := []byte(`{"object":"page","entry":[]}`)
	w := postWebhook(r, body, sign(body, testAppSecret))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())
}

func TestConnectChannel(t *testing.T) {
	r, db := newTestServer(t)

	biz := models.Business{Name: "Shop"}
	require.NoError(t, db.Create(&biz).Error)

	post := func(path string, payload any) *httptest.ResponseRecorder {
		b, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(fmt.Sprintf("/api/businesses/%d/channel", biz.ID),
		connectChannelInput{PageID: "page-9", PageToken: "token-plain"})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Business
	require.NoError(t, db.First(&stored, biz.ID).Error)
	assert.Equal(t, "page-9", stored.PageID)
	assert.NotEmpty(t, stored.EncryptedPageToken)
	assert.NotContains(t, stored.EncryptedPageToken, "token-plain", "token must not be stored in the clear")

	plain, err := tokenBox.Decrypt(stored.EncryptedPageToken)
	require.NoError(t, err)
	assert.Equal(t, "token-plain", plain)

	w = post("/api/businesses/9999/channel", connectChannelInput{PageID: "p", PageToken: "t"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = post(fmt.Sprintf("/api/businesses/%d/channel", biz.ID), connectChannelInput{PageID: "", PageToken: "t"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkHandover(t *testing.T) {
	r, db := newTestServer(t)

	biz := models.Business{Name: "Shop", PageID: "page-1"}
	require.NoError(t, db.Create(&biz).Error)
	conv := models.Conversation{BusinessID: biz.ID, SenderPSID: "psid-1", Status: models.CONVERSATION_STATUS_NEEDS_ATTENTION}
	require.NoError(t, db.Create(&conv).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/conversations/%d/handover", conv.ID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Conversation
	require.NoError(t, db.First(&stored, conv.ID).Error)
	assert.Equal(t, models.CONVERSATION_STATUS_OWNER_HANDLED, stored.Status)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/conversations/9999/handover", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
