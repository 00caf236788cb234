package delivery

import (
	"net/http"
	"strconv"

	"netsync-backend/internal/quota/usecase"

	"github.com/gin-gonic/gin"
)

type QuotaHandler struct {
	ledger *usecase.Ledger
}

func NewQuotaHandler(ledger *usecase.Ledger) *QuotaHandler {
	return &QuotaHandler{
		ledger: ledger,
	}
}

// GetQuota reports the current month's usage without consuming anything
func (h *QuotaHandler) GetQuota(c *gin.Context) {
	userID := c.GetString("userID")

	record, err := h.ledger.Status(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *QuotaHandler) GetAudit(c *gin.Context) {
	userID := c.GetString("userID")

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.ledger.Audit(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
