// Package messenger talks to the Messenger Send API for one page at a
// time and wraps delivery in bounded retries.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://graph.facebook.com"

// ErrCodeRateLimit is Meta's "calls to this API have exceeded the rate
// limit" error code. It gets a long cooldown instead of exponential
// backoff.
const ErrCodeRateLimit = 613

// SendResult is a successful delivery.
type SendResult struct {
	MessageID   string `json:"message_id"`
	RecipientID string `json:"recipient_id"`
}

// SendError is a failed Send API call, keeping the platform's numeric
// error code so callers can tell rate limiting apart from everything else.
type SendError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *SendError) Error() string {
	return fmt.Sprintf("messenger send failed: code=%d status=%d %s", e.Code, e.HTTPStatus, e.Message)
}

// IsRateLimited reports whether err is the platform rate-limit signal.
func IsRateLimited(err error) bool {
	se, ok := err.(*SendError)
	return ok && se.Code == ErrCodeRateLimit
}

type Client struct {
	BaseURL    string
	ApiVersion string
	HTTPClient *http.Client
}

func NewClient(apiVersion string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		ApiVersion: apiVersion,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendText sends one text message to a PSID using the page access token.
func (c *Client) SendText(ctx context.Context, accessToken, recipientPSID, text string) (*SendResult, error) {
	endpoint := fmt.Sprintf("%s/%s/me/messages?access_token=%s",
		c.BaseURL, c.ApiVersion, url.QueryEscape(accessToken))

	reqBody := map[string]any{
		"recipient":      map[string]any{"id": recipientPSID},
		"message":        map[string]any{"text": text},
		"messaging_type": "RESPONSE",
	}
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		var parsed struct {
			Error struct {
				Message string `json:"message"`
				Code    int    `json:"code"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &parsed)
		return nil, &SendError{
			Code:       parsed.Error.Code,
			Message:    parsed.Error.Message,
			HTTPStatus: resp.StatusCode,
		}
	}

	var result SendResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse send response: %w", err)
	}
	return &result, nil
}
