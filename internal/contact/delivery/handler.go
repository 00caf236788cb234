package delivery

import (
	"net/http"
	"strconv"

	"netsync-backend/internal/contact/repository"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactRepo repository.ContactRepository
}

func NewContactHandler(contactRepo repository.ContactRepository) *ContactHandler {
	return &ContactHandler{
		contactRepo: contactRepo,
	}
}

func (h *ContactHandler) GetContacts(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")

	limit := 50
	offset := 0
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

	contacts, total, err := h.contactRepo.ListByWorkspace(workspaceID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"limit":    limit,
		"offset":   offset,
		"total":    total,
	})
}
