package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, CONVERSATION_STATUS_ACTIVE, InitialStatus(true))
	assert.Equal(t, CONVERSATION_STATUS_NEEDS_ATTENTION, InitialStatus(false))
}

func TestStatusTransitions(t *testing.T) {
	all := []ConversationStatus{
		CONVERSATION_STATUS_ACTIVE,
		CONVERSATION_STATUS_NEEDS_ATTENTION,
		CONVERSATION_STATUS_BOT_HANDLED,
		CONVERSATION_STATUS_OWNER_HANDLED,
	}

	for _, s := range all {
		assert.Equal(t, s, s.OnInboundWhileActive(), "inbound with bot on keeps %s", s)
		assert.Equal(t, CONVERSATION_STATUS_NEEDS_ATTENTION, s.OnInboundWhilePaused())
		assert.Equal(t, CONVERSATION_STATUS_NEEDS_ATTENTION, s.OnSendFailureExhausted())
		assert.Equal(t, CONVERSATION_STATUS_NEEDS_ATTENTION, s.OnSendPrecondFailure())
		assert.Equal(t, CONVERSATION_STATUS_OWNER_HANDLED, s.OnOwnerReply())
	}
}
