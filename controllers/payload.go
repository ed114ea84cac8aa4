package controllers

import (
	"strings"
	"time"

	"bayon/bot"
)

// WebhookPayload is the Messenger webhook delivery shape. Messages arrive
// under entry[].messaging[]; each messaging item carries sender/recipient
// ids, a millisecond timestamp and, for text messages, a message object.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID        string `json:"id"`
		Time      int64  `json:"time"`
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Recipient struct {
				ID string `json:"id"`
			} `json:"recipient"`
			Timestamp int64 `json:"timestamp"`
			Message   *struct {
				MID  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// ExtractMessages flattens a delivery into ordered message events,
// skipping non-message items (delivery receipts, read events, postbacks)
// and items missing a sender or recipient.
func ExtractMessages(payload WebhookPayload) []bot.MessageEvent {
	var out []bot.MessageEvent

	for _, entry := range payload.Entry {
		for _, m := range entry.Messaging {
			if m.Message == nil {
				continue
			}
			sender := strings.TrimSpace(m.Sender.ID)
			recipient := strings.TrimSpace(m.Recipient.ID)
			if sender == "" || recipient == "" {
				continue
			}

			ts := time.Now()
			if m.Timestamp > 0 {
				ts = time.UnixMilli(m.Timestamp)
			}

			out = append(out, bot.MessageEvent{
				SenderID:    sender,
				RecipientID: recipient,
				Timestamp:   ts,
				Text:        m.Message.Text,
				MessageID:   strings.TrimSpace(m.Message.MID),
			})
		}
	}

	return out
}
