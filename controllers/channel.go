package controllers

import (
	"net/http"
	"strconv"
	"strings"

	dbpkg "bayon/db"
	"bayon/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type connectChannelInput struct {
	PageID    string `json:"page_id"`
	PageToken string `json:"page_token"`
}

// POST /api/businesses/:id/channel
//
// Attaches a Messenger page to a business. The page token is encrypted
// before it touches the database and never leaves it again.
func ConnectChannel(c *gin.Context) {
	db := dbpkg.DBInstance(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, "invalid business id", http.StatusBadRequest)
		return
	}

	var input connectChannelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "malformed body", http.StatusBadRequest)
		return
	}
	input.PageID = strings.TrimSpace(input.PageID)
	input.PageToken = strings.TrimSpace(input.PageToken)
	if input.PageID == "" || input.PageToken == "" {
		RespondError(c, "page_id and page_token are required", http.StatusBadRequest)
		return
	}

	var biz models.Business
	if err := db.First(&biz, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "business not found", http.StatusNotFound)
			return
		}
		RespondError(c, "database error", http.StatusInternalServerError)
		return
	}

	encrypted, err := tokenBox.Encrypt(input.PageToken)
	if err != nil {
		logger.Error("page token encryption failed", "business_id", id, "error", err)
		RespondError(c, "could not store credential", http.StatusInternalServerError)
		return
	}

	updates := map[string]any{
		"page_id":              input.PageID,
		"encrypted_page_token": encrypted,
	}
	if err := db.Model(&biz).Updates(updates).Error; err != nil {
		RespondError(c, "database error", http.StatusInternalServerError)
		return
	}

	logger.Info("channel connected", "business_id", id, "page_id", input.PageID)
	RespondSuccess(c, gin.H{"business_id": id, "page_id": input.PageID})
}

// POST /api/conversations/:id/handover
//
// Marks a conversation as taken over by a human. Called by the inbox UI
// when the owner answers a customer themselves.
func MarkHandover(c *gin.Context) {
	db := dbpkg.DBInstance(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, "invalid conversation id", http.StatusBadRequest)
		return
	}

	var conv models.Conversation
	if err := db.First(&conv, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "conversation not found", http.StatusNotFound)
			return
		}
		RespondError(c, "database error", http.StatusInternalServerError)
		return
	}

	if err := db.Model(&conv).Update("status", conv.Status.OnOwnerReply()).Error; err != nil {
		RespondError(c, "database error", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"id": id, "status": models.CONVERSATION_STATUS_OWNER_HANDLED})
}
