package api

import (
	"net/http"

	"netsync-backend/internal/account/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authRequired := delivery.AuthMiddleware(h.config.JWTSecret)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", authRequired, func(c *gin.Context) {
			userID := c.GetString("userID")
			h.sseManager.ServeHTTP(c, userID)
		})

		// Connected provider accounts
		accounts := api.Group("/accounts")
		accounts.Use(authRequired)
		{
			accounts.POST("", h.accountHandler.Connect)
			accounts.GET("", h.accountHandler.List)
		}

		// Sync control
		sync := api.Group("/sync")
		sync.Use(authRequired)
		{
			sync.POST("/run", h.syncHandler.RunSync)
			sync.POST("/cancel", h.syncHandler.CancelSync)
			sync.GET("/status", h.syncHandler.GetStatus)
			sync.POST("/schedule", h.syncHandler.EnableSchedule)
			sync.DELETE("/schedule", h.syncHandler.DisableSchedule)
		}

		// Mirrored conversations and messages
		conversations := api.Group("/conversations")
		conversations.Use(authRequired)
		{
			conversations.GET("", h.syncHandler.GetConversations)
			conversations.GET("/:id/messages", h.syncHandler.GetMessages)
			conversations.POST("/:id/full-history", h.syncHandler.PromoteToFull)
			conversations.POST("/:id/messages", h.syncHandler.SendMessage)
		}

		// Deduplicated contacts
		contacts := api.Group("/contacts")
		contacts.Use(authRequired)
		{
			contacts.GET("", h.contactHandler.GetContacts)
		}

		// Monthly extraction quota
		quota := api.Group("/quota")
		quota.Use(authRequired)
		{
			quota.GET("", h.quotaHandler.GetQuota)
			quota.GET("/audit", h.quotaHandler.GetAudit)
		}

		// Provider rate-limit state
		rateLimit := api.Group("/rate-limit")
		rateLimit.Use(authRequired)
		{
			rateLimit.GET("", h.rateLimitHandler.GetStatus)
			rateLimit.POST("/retry", h.rateLimitHandler.Retry)
		}
	}
}
