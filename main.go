package main

import (
	"log"

	api "netsync-backend/cmd/api"
	accountDelivery "netsync-backend/internal/account/delivery"
	accountdomain "netsync-backend/internal/account/domain"
	accountRepo "netsync-backend/internal/account/repository"
	contactDelivery "netsync-backend/internal/contact/delivery"
	contactdomain "netsync-backend/internal/contact/domain"
	contactRepo "netsync-backend/internal/contact/repository"
	quotaDelivery "netsync-backend/internal/quota/delivery"
	quotadomain "netsync-backend/internal/quota/domain"
	quotaRepo "netsync-backend/internal/quota/repository"
	quotaUsecase "netsync-backend/internal/quota/usecase"
	ratelimitDelivery "netsync-backend/internal/ratelimit/delivery"
	ratelimitdomain "netsync-backend/internal/ratelimit/domain"
	ratelimitRepo "netsync-backend/internal/ratelimit/repository"
	ratelimitUsecase "netsync-backend/internal/ratelimit/usecase"
	syncDelivery "netsync-backend/internal/sync/delivery"
	syncdomain "netsync-backend/internal/sync/domain"
	syncRepo "netsync-backend/internal/sync/repository"
	syncUsecase "netsync-backend/internal/sync/usecase"
	"netsync-backend/pkg/config"
	"netsync-backend/pkg/database"
	"netsync-backend/pkg/kvstore"
	"netsync-backend/pkg/provider"
	"netsync-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&accountdomain.Account{},
		&syncdomain.Conversation{},
		&syncdomain.Message{},
		&syncdomain.SyncCursor{},
		&contactdomain.Contact{},
		&quotadomain.QuotaRecord{},
		&quotadomain.AuditEntry{},
		&ratelimitdomain.RateLimitEvent{},
		&kvstore.Entry{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	accountRepository := accountRepo.NewAccountRepository(db)
	conversationRepository := syncRepo.NewConversationRepository(db)
	messageRepository := syncRepo.NewMessageRepository(db)
	cursorRepository := syncRepo.NewCursorRepository(db)
	contactRepository := contactRepo.NewContactRepository(db)
	quotaRepository := quotaRepo.NewQuotaRepository(db)
	rateLimitRepository := ratelimitRepo.NewRateLimitRepository(db)
	settingsStore := kvstore.NewStore(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize provider client
	providerClient := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderClientID, cfg.ProviderClientSecret)

	// Initialize use cases (dependency injection)
	ledger := quotaUsecase.NewLedger(quotaRepository, cfg.MonthlyQuotaCap, cfg.QuotaWarnThresholds, sseManager)
	monitor := ratelimitUsecase.NewMonitor(rateLimitRepository, cfg.QuotaWarnThresholds, sseManager)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(
		conversationRepository,
		messageRepository,
		cursorRepository,
		contactRepository,
		accountRepository,
		ledger,
		monitor,
		providerClient,
		sseManager,
		settingsStore,
		cfg,
	)

	// Re-arm auto-sync timers that were enabled before the restart
	syncUsecaseInstance.RestoreSchedules()

	// Initialize HTTP handlers
	handler := api.NewHandler(
		cfg,
		sseManager,
		accountDelivery.NewAccountHandler(accountRepository),
		syncDelivery.NewSyncHandler(syncUsecaseInstance),
		contactDelivery.NewContactHandler(contactRepository),
		quotaDelivery.NewQuotaHandler(ledger),
		ratelimitDelivery.NewRateLimitHandler(monitor),
	)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
