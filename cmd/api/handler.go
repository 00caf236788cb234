package api

import (
	accountDelivery "netsync-backend/internal/account/delivery"
	contactDelivery "netsync-backend/internal/contact/delivery"
	quotaDelivery "netsync-backend/internal/quota/delivery"
	ratelimitDelivery "netsync-backend/internal/ratelimit/delivery"
	syncDelivery "netsync-backend/internal/sync/delivery"
	"netsync-backend/pkg/config"
	"netsync-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config           *config.Config
	sseManager       *sse.Manager
	accountHandler   *accountDelivery.AccountHandler
	syncHandler      *syncDelivery.SyncHandler
	contactHandler   *contactDelivery.ContactHandler
	quotaHandler     *quotaDelivery.QuotaHandler
	rateLimitHandler *ratelimitDelivery.RateLimitHandler
}

func NewHandler(
	cfg *config.Config,
	sseManager *sse.Manager,
	accountHandler *accountDelivery.AccountHandler,
	syncHandler *syncDelivery.SyncHandler,
	contactHandler *contactDelivery.ContactHandler,
	quotaHandler *quotaDelivery.QuotaHandler,
	rateLimitHandler *ratelimitDelivery.RateLimitHandler,
) *Handler {
	return &Handler{
		config:           cfg,
		sseManager:       sseManager,
		accountHandler:   accountHandler,
		syncHandler:      syncHandler,
		contactHandler:   contactHandler,
		quotaHandler:     quotaHandler,
		rateLimitHandler: rateLimitHandler,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
