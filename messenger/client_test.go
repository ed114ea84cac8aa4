package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTextSuccess(t *testing.T) {
	var gotBody map[string]any
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v21.0/me/messages", r.URL.Path)
		gotToken = r.URL.Query().Get("access_token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recipient_id":"psid-1","message_id":"m_abc123"}`))
	}))
	defer srv.Close()

	c := NewClient("v21.0")
	c.BaseURL = srv.URL

	result, err := c.SendText(context.Background(), "tok", "psid-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "m_abc123", result.MessageID)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "RESPONSE", gotBody["messaging_type"])
	assert.Equal(t, "psid-1", gotBody["recipient"].(map[string]any)["id"])
	assert.Equal(t, "hello", gotBody["message"].(map[string]any)["text"])
}

func TestSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","code":190}}`))
	}))
	defer srv.Close()

	c := NewClient("v21.0")
	c.BaseURL = srv.URL

	_, err := c.SendText(context.Background(), "bad", "psid-1", "hello")
	require.Error(t, err)
	se, ok := err.(*SendError)
	require.True(t, ok)
	assert.Equal(t, 190, se.Code)
	assert.Equal(t, http.StatusBadRequest, se.HTTPStatus)
	assert.False(t, IsRateLimited(err))
}

func TestSendTextRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Calls to this api have exceeded the rate limit.","code":613}}`))
	}))
	defer srv.Close()

	c := NewClient("v21.0")
	c.BaseURL = srv.URL

	_, err := c.SendText(context.Background(), "tok", "psid-1", "hello")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}
