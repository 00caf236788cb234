package delivery

import (
	"errors"
	"net/http"

	"netsync-backend/internal/ratelimit/domain"
	"netsync-backend/internal/ratelimit/usecase"

	"github.com/gin-gonic/gin"
)

type RateLimitHandler struct {
	monitor *usecase.Monitor
}

func NewRateLimitHandler(monitor *usecase.Monitor) *RateLimitHandler {
	return &RateLimitHandler{
		monitor: monitor,
	}
}

// GetStatus reports whether the account is Normal or Limited
func (h *RateLimitHandler) GetStatus(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	event := h.monitor.Status(accountID)
	if event == nil {
		c.JSON(http.StatusOK, gin.H{"state": "normal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":          "limited",
		"limit_type":     event.LimitType,
		"current_count":  event.CurrentCount,
		"max_limit":      event.MaxLimit,
		"cooldown_until": event.CooldownUntil(),
	})
}

// Retry attempts the Limited -> Normal transition after a cooldown
func (h *RateLimitHandler) Retry(c *gin.Context) {
	var req struct {
		AccountID string `json:"account_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	if err := h.monitor.RetryAfterRateLimit(req.AccountID); err != nil {
		var limited *domain.ErrRateLimited
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

	c.JSON(http.StatusOK, gin.H{"state": "normal"})
}
