package delivery

import (
	"errors"
	"net/http"
	"strconv"

	ratelimitdomain "netsync-backend/internal/ratelimit/domain"
	"netsync-backend/internal/sync/domain"
	syncdto "netsync-backend/internal/sync/dto"
	"netsync-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase *usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase *usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
	}
}

// RunSync triggers an on-demand pass. A pass already in flight makes this a
// no-op and the client is told so.
func (h *SyncHandler) RunSync(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.GetString("workspaceID")

	var req syncdto.RunSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	if !h.syncUsecase.SyncNow(userID, workspaceID, req.AccountID, req.FullRescan) {
		c.JSON(http.StatusConflict, gin.H{"error": "a sync pass is already running for this account"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "sync started"})
}

func (h *SyncHandler) CancelSync(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")
	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	h.syncUsecase.CancelRunningPass(workspaceID, accountID)
	c.JSON(http.StatusOK, gin.H{"message": "cancel requested"})
}

func (h *SyncHandler) GetStatus(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")
	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	full, preview, err := h.syncUsecase.DepthCounts(workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, syncdto.SyncStatusResponse{
		AccountID:    accountID,
		Running:      h.syncUsecase.IsRunning(workspaceID, accountID),
		Scheduled:    h.syncUsecase.IsScheduled(workspaceID, accountID),
		FullCount:    full,
		PreviewCount: preview,
	})
}

func (h *SyncHandler) EnableSchedule(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.GetString("workspaceID")

	var req syncdto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	if err := h.syncUsecase.EnableAutoSync(userID, workspaceID, req.AccountID, req.IntervalMinutes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "auto-sync enabled"})
}

func (h *SyncHandler) DisableSchedule(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")
	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	if err := h.syncUsecase.DisableAutoSync(workspaceID, accountID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "auto-sync disabled"})
}

func (h *SyncHandler) GetConversations(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")

	var depth domain.SyncDepth
	switch c.Query("depth") {
	case "":
	case string(domain.SyncDepthFull):
		depth = domain.SyncDepthFull
	case string(domain.SyncDepthPreview):
		depth = domain.SyncDepthPreview
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be full or preview"})
		return
	}

	limit, offset := pagination(c, 20)

	conversations, total, err := h.syncUsecase.ListConversations(workspaceID, depth, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, syncdto.ConversationsResponse{
		Conversations: conversations,
		Limit:         limit,
		Offset:        offset,
		Total:         total,
	})
}

func (h *SyncHandler) GetMessages(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")
	conversationID := c.Param("id")
	limit, offset := pagination(c, 50)

	messages, total, err := h.syncUsecase.ListMessages(workspaceID, conversationID, limit, offset)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, syncdto.MessagesResponse{
		Messages: messages,
		Limit:    limit,
		Offset:   offset,
		Total:    total,
	})
}

// PromoteToFull switches a conversation to full history and backfills it
func (h *SyncHandler) PromoteToFull(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.GetString("workspaceID")
	conversationID := c.Param("id")

	if err := h.syncUsecase.PromoteToFull(c.Request.Context(), userID, workspaceID, conversationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conversation promoted to full history"})
}

func (h *SyncHandler) SendMessage(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.GetString("workspaceID")
	conversationID := c.Param("id")

	var req syncdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	msg, err := h.syncUsecase.SendMessage(c.Request.Context(), userID, workspaceID, conversationID, req.Text)
	if err != nil {
		var limited *ratelimitdomain.ErrRateLimited
		if errors.As(err, &limited) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":        limited.Error(),
				"limit_type":   limited.LimitType,
				"paused_until": limited.Until,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func pagination(c *gin.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
