package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	accountrepo "netsync-backend/internal/account/repository"
	contactdomain "netsync-backend/internal/contact/domain"
	contactrepo "netsync-backend/internal/contact/repository"
	contactusecase "netsync-backend/internal/contact/usecase"
	quotausecase "netsync-backend/internal/quota/usecase"
	ratelimitdomain "netsync-backend/internal/ratelimit/domain"
	ratelimitusecase "netsync-backend/internal/ratelimit/usecase"
	"netsync-backend/internal/sync/domain"
	"netsync-backend/internal/sync/repository"
	"netsync-backend/pkg/config"
	"netsync-backend/pkg/kvstore"
	"netsync-backend/pkg/provider"

	"golang.org/x/oauth2"
)

// EventService defines interface for sending notifications
type EventService interface {
	SendToUser(userID string, eventType string, payload interface{})
}

// NetworkProvider is the slice of the provider client the pipeline consumes
type NetworkProvider interface {
	ListConversations(ctx context.Context, auth provider.Auth, accountID string, limit int, cursor string) (*provider.Page[provider.Conversation], error)
	ListMessages(ctx context.Context, auth provider.Auth, chatID string, limit int, cursor string) (*provider.Page[provider.Message], error)
	ListAttendees(ctx context.Context, auth provider.Auth, chatID string, limit int, cursor string) (*provider.Page[provider.Attendee], error)
	SendMessage(ctx context.Context, auth provider.Auth, chatID, text string) (*provider.Message, error)
}

const platformName = "linkedin"

// SyncUsecase runs the fetch -> dedup -> classify -> persist pipeline and
// owns the surrounding scheduling, quota and rate-limit integration.
type SyncUsecase struct {
	convRepo    repository.ConversationRepository
	msgRepo     repository.MessageRepository
	cursorRepo  repository.CursorRepository
	contactRepo contactrepo.ContactRepository
	accountRepo accountrepo.AccountRepository
	ledger      *quotausecase.Ledger
	monitor     *ratelimitusecase.Monitor
	provider    NetworkProvider
	events      EventService
	scheduler   *Scheduler
	settings    kvstore.Store
	cfg         *config.Config
}

func NewSyncUsecase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	cursorRepo repository.CursorRepository,
	contactRepo contactrepo.ContactRepository,
	accountRepo accountrepo.AccountRepository,
	ledger *quotausecase.Ledger,
	monitor *ratelimitusecase.Monitor,
	networkProvider NetworkProvider,
	events EventService,
	settings kvstore.Store,
	cfg *config.Config,
) *SyncUsecase {
	return &SyncUsecase{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		cursorRepo:  cursorRepo,
		contactRepo: contactRepo,
		accountRepo: accountRepo,
		ledger:      ledger,
		monitor:     monitor,
		provider:    networkProvider,
		events:      events,
		scheduler:   NewScheduler(),
		settings:    settings,
		cfg:         cfg,
	}
}

func scheduleKey(workspaceID, accountID string) string {
	return workspaceID + "/" + accountID
}

func (u *SyncUsecase) authFor(account *accountAuth) provider.Auth {
	return provider.Auth{
		AccessToken:  account.accessToken,
		RefreshToken: account.refreshToken,
		OnTokenRefresh: func(token *oauth2.Token) error {
			return u.accountRepo.UpdateTokens(account.id, token.AccessToken, token.RefreshToken, token.Expiry)
		},
	}
}

type accountAuth struct {
	id                string
	providerAccountID string
	accessToken       string
	refreshToken      string
}

func (u *SyncUsecase) lookupAccount(workspaceID, accountID string) (*accountAuth, error) {
	account, err := u.accountRepo.FindByProviderAccountID(workspaceID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account %s not found in workspace %s", accountID, workspaceID)
	}
	return &accountAuth{
		id:                account.ID,
		providerAccountID: account.ProviderAccountID,
		accessToken:       account.AccessToken,
		refreshToken:      account.RefreshToken,
	}, nil
}

// SyncNow triggers an on-demand pass through the same Idle/Running guard as
// scheduled ticks. Returns false when a pass is already running.
func (u *SyncUsecase) SyncNow(userID, workspaceID, accountID string, fullRescan bool) bool {
	return u.scheduler.TryRun(scheduleKey(workspaceID, accountID), func(ctx context.Context) {
		if _, err := u.RunPass(ctx, userID, workspaceID, accountID, fullRescan); err != nil {
			log.Printf("[Sync] Manual pass failed for %s/%s: %v", workspaceID, accountID, err)
		}
	})
}

// CancelRunningPass stops the in-flight pass, if any, without blocking.
// In-flight page requests complete and persist their results.
func (u *SyncUsecase) CancelRunningPass(workspaceID, accountID string) {
	u.scheduler.CancelRun(scheduleKey(workspaceID, accountID))
}

// IsRunning reports whether a pass for the account is in flight
func (u *SyncUsecase) IsRunning(workspaceID, accountID string) bool {
	return u.scheduler.IsRunning(scheduleKey(workspaceID, accountID))
}

// IsScheduled reports whether auto-sync is armed for the account
func (u *SyncUsecase) IsScheduled(workspaceID, accountID string) bool {
	return u.scheduler.IsScheduled(scheduleKey(workspaceID, accountID))
}

// EnableAutoSync arms the periodic timer and persists the setting so it is
// restored after a restart.
func (u *SyncUsecase) EnableAutoSync(userID, workspaceID, accountID string, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		intervalMinutes = u.cfg.SyncIntervalMinutes
	}

	if err := u.settings.Set(workspaceID, "autosync_interval:"+accountID, strconv.Itoa(intervalMinutes)); err != nil {
		return err
	}
	if err := u.settings.Set(workspaceID, "autosync_user:"+accountID, userID); err != nil {
		return err
	}

	u.scheduler.Start(scheduleKey(workspaceID, accountID), time.Duration(intervalMinutes)*time.Minute, func(ctx context.Context) {
		if _, err := u.RunPass(ctx, userID, workspaceID, accountID, false); err != nil {
			log.Printf("[Sync] Scheduled pass failed for %s/%s: %v", workspaceID, accountID, err)
		}
	})
	return nil
}

// DisableAutoSync stops the timer; an in-flight pass finishes
func (u *SyncUsecase) DisableAutoSync(workspaceID, accountID string) error {
	if err := u.settings.Delete(workspaceID, "autosync_interval:"+accountID); err != nil {
		return err
	}
	u.scheduler.Stop(scheduleKey(workspaceID, accountID))
	return nil
}

// RestoreSchedules re-arms auto-sync for every account that had it enabled.
// Called once at startup.
func (u *SyncUsecase) RestoreSchedules() {
	accounts, err := u.accountRepo.FindAll()
	if err != nil {
		log.Printf("[Sync] Failed to restore schedules: %v", err)
		return
	}

	for _, account := range accounts {
		intervalStr, ok, err := u.settings.Get(account.WorkspaceID, "autosync_interval:"+account.ProviderAccountID)
		if err != nil || !ok {
			continue
		}
		interval, err := strconv.Atoi(intervalStr)
		if err != nil || interval <= 0 {
			continue
		}
		userID, _, _ := u.settings.Get(account.WorkspaceID, "autosync_user:"+account.ProviderAccountID)
		if userID == "" {
			userID = account.UserID
		}
		if err := u.EnableAutoSync(userID, account.WorkspaceID, account.ProviderAccountID, interval); err != nil {
			log.Printf("[Sync] Failed to restore schedule for %s/%s: %v", account.WorkspaceID, account.ProviderAccountID, err)
		}
	}
}

// RunPass executes one full pipeline pass. Repeating an identical pass is
// idempotent: every write is an upsert by natural key and quota is only
// charged for contacts that did not exist before.
func (u *SyncUsecase) RunPass(ctx context.Context, userID, workspaceID, accountID string, fullRescan bool) (*domain.PassCounts, error) {
	counts := &domain.PassCounts{}
	var warnings []string

	emit := func(status domain.PassStatus, message string, percent int) {
		if u.events == nil {
			return
		}
		u.events.SendToUser(userID, "sync_progress", domain.Progress{
			Status:   status,
			Message:  message,
			Percent:  percent,
			Counts:   *counts,
			Warnings: warnings,
		})
	}

	emit(domain.PassStarting, "Sync pass starting", 0)

	account, err := u.lookupAccount(workspaceID, accountID)
	if err != nil {
		emit(domain.PassFailed, err.Error(), 0)
		return nil, err
	}
	auth := u.authFor(account)

	// Phase 1: walk the conversations endpoint
	var fetched []provider.Conversation
	convStats := FetchAll(ctx, u.cursorRepo, FetchOptions{
		Scope:         domain.CursorScope{WorkspaceID: workspaceID, AccountID: accountID, Endpoint: "conversations"},
		PageSize:      u.cfg.PageSize,
		MaxPages:      u.cfg.MaxPages,
		RetryAttempts: u.cfg.FetchRetryAttempts,
		FullRescan:    fullRescan,
	}, func(ctx context.Context, cursor string, limit int) ([]provider.Conversation, string, int, error) {
		page, err := u.provider.ListConversations(ctx, auth, accountID, limit, cursor)
		if err != nil {
			return nil, "", 0, err
		}
		return page.Items, page.Cursor, page.Skipped, nil
	}, func(items []provider.Conversation) error {
		fetched = append(fetched, items...)
		return nil
	})

	counts.PagesFetched += convStats.Pages
	counts.SkippedItems += convStats.Skipped
	if convStats.Err != nil {
		u.observeError(userID, accountID, convStats.Err)
		if convStats.Pages == 0 {
			// Total loss of connectivity before any page succeeded
			emit(domain.PassFailed, convStats.Err.Error(), 0)
			return nil, fmt.Errorf("sync pass failed before any page succeeded: %w", convStats.Err)
		}
		counts.FetchErrors++
		warnings = append(warnings, fmt.Sprintf("conversation fetch stopped early: %v", convStats.Err))
	}

	emit(domain.PassRunning, fmt.Sprintf("Fetched %d conversations", len(fetched)), 20)

	// Phase 2: upsert conversations with their depth classification
	conversations := make([]*domain.Conversation, 0, len(fetched))
	for _, pc := range fetched {
		conv := &domain.Conversation{
			WorkspaceID:            workspaceID,
			Platform:               platformName,
			PlatformConversationID: pc.ID,
			AccountID:              accountID,
			Subject:                pc.Subject,
			LastMessageAt:          pc.LastMessageAt,
			UnreadCount:            pc.UnreadCount,
			Status:                 domain.ConversationActive,
		}
		if pc.Archived {
			conv.Status = domain.ConversationArchived
		}

		existing, err := u.convRepo.FindByPlatformID(workspaceID, platformName, pc.ID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("lookup failed for conversation %s: %v", pc.ID, err))
			continue
		}
		if existing != nil {
			conv.ID = existing.ID
			conv.SyncDepth = existing.SyncDepth
		}
		conversations = append(conversations, conv)
	}

	Classify(conversations, u.cfg.FullSyncThreshold)

	for _, conv := range conversations {
		if err := u.convRepo.Upsert(conv); err != nil {
			warnings = append(warnings, fmt.Sprintf("upsert failed for conversation %s: %v", conv.PlatformConversationID, err))
			continue
		}
		counts.Conversations++
		if conv.SyncDepth == domain.SyncDepthFull {
			counts.FullSynced++
		} else {
			counts.PreviewSynced++
		}
	}

	emit(domain.PassRunning, "Conversations classified", 35)

	// Phase 3: attendees and messages per conversation, bounded concurrency
	sightings := u.fetchConversationDetails(ctx, auth, userID, accountID, conversations, counts, &warnings)

	emit(domain.PassRunning, "Messages persisted", 75)

	// Phase 4: dedup contacts and charge quota for new ones only
	u.persistContacts(workspaceID, userID, sightings, counts, &warnings)

	emit(domain.PassCompleted, "Sync pass completed", 100)
	log.Printf("[Sync] Pass completed for %s/%s: %d conversations, %d messages, %d contacts (%d new)",
		workspaceID, accountID, counts.Conversations, counts.Messages, counts.Contacts, counts.NewContacts)

	return counts, nil
}

// fetchConversationDetails walks attendees and message history for each
// conversation. Full conversations get their complete history, preview
// conversations only the latest message. Returns the contact sightings
// collected from both sources.
func (u *SyncUsecase) fetchConversationDetails(
	ctx context.Context,
	auth provider.Auth,
	userID, accountID string,
	conversations []*domain.Conversation,
	counts *domain.PassCounts,
	warnings *[]string,
) []contactdomain.Sighting {
	var (
		mu        sync.Mutex
		sightings []contactdomain.Sighting
		wg        sync.WaitGroup
	)
	semaphore := make(chan struct{}, 5)

	for _, conv := range conversations {
		// Cancellation stops issuing new requests; workers already started
		// complete and persist their results.
		if ctx.Err() != nil {
			mu.Lock()
			*warnings = append(*warnings, "pass cancelled before all conversations were fetched")
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(conv *domain.Conversation) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			convSightings, messages, skipped, errs := u.fetchOneConversation(ctx, auth, accountID, conv)

			mu.Lock()
			defer mu.Unlock()
			sightings = append(sightings, convSightings...)
			counts.Messages += messages
			counts.SkippedItems += skipped
			for _, err := range errs {
				counts.FetchErrors++
				*warnings = append(*warnings, err.Error())
				u.observeError(userID, accountID, err)
			}
		}(conv)
	}

	wg.Wait()
	return sightings
}

func (u *SyncUsecase) fetchOneConversation(
	ctx context.Context,
	auth provider.Auth,
	accountID string,
	conv *domain.Conversation,
) (sightings []contactdomain.Sighting, persisted, skipped int, errs []error) {
	chatID := conv.PlatformConversationID

	// Attendee list: usually a single short page
	attendeeStats := FetchAll(ctx, NewMemoryCursorStore(), FetchOptions{
		Scope:         domain.CursorScope{WorkspaceID: conv.WorkspaceID, AccountID: accountID, Endpoint: "attendees:" + chatID},
		PageSize:      u.cfg.PageSize,
		MaxPages:      u.cfg.MaxPages,
		RetryAttempts: u.cfg.FetchRetryAttempts,
	}, func(ctx context.Context, cursor string, limit int) ([]provider.Attendee, string, int, error) {
		page, err := u.provider.ListAttendees(ctx, auth, chatID, limit, cursor)
		if err != nil {
			return nil, "", 0, err
		}
		return page.Items, page.Cursor, page.Skipped, nil
	}, func(items []provider.Attendee) error {
		for _, att := range items {
			sightings = append(sightings, contactdomain.Sighting{
				ProviderID:       att.ID,
				Name:             att.Name,
				Headline:         att.Headline,
				ProfileURL:       att.ProfileURL,
				ConnectionDegree: att.ConnectionDegree,
				Source:           "attendees",
				IsSelf:           att.IsSelf,
			})
			if !att.IsSelf && conv.AttendeeProviderID == "" {
				conv.AttendeeProviderID = att.ID
				conv.AttendeeName = att.Name
				if err := u.convRepo.Upsert(conv); err != nil {
					log.Printf("[Sync] Failed to attach attendee to conversation %s: %v", chatID, err)
				}
			}
		}
		return nil
	})
	skipped += attendeeStats.Skipped
	if attendeeStats.Err != nil {
		errs = append(errs, fmt.Errorf("attendees fetch for %s: %w", chatID, attendeeStats.Err))
	}

	// Message history: depth decides how deep the walk goes
	maxPages := u.cfg.MaxPages
	pageSize := u.cfg.PageSize
	if conv.SyncDepth == domain.SyncDepthPreview {
		maxPages = 1
		pageSize = 1
	}

	msgStats := FetchAll(ctx, NewMemoryCursorStore(), FetchOptions{
		Scope:         domain.CursorScope{WorkspaceID: conv.WorkspaceID, AccountID: accountID, Endpoint: "messages:" + chatID},
		PageSize:      pageSize,
		MaxPages:      maxPages,
		RetryAttempts: u.cfg.FetchRetryAttempts,
	}, func(ctx context.Context, cursor string, limit int) ([]provider.Message, string, int, error) {
		page, err := u.provider.ListMessages(ctx, auth, chatID, limit, cursor)
		if err != nil {
			return nil, "", 0, err
		}
		return page.Items, page.Cursor, page.Skipped, nil
	}, func(items []provider.Message) error {
		for _, pm := range items {
			role := domain.SenderRoleContact
			if pm.IsSelf {
				role = domain.SenderRoleOwner
			} else {
				sightings = append(sightings, contactdomain.Sighting{
					ProviderID: pm.SenderID,
					Name:       pm.SenderName,
					Source:     "message_sender",
				})
			}

			msg := &domain.Message{
				ConversationID:    conv.ID,
				ProviderMessageID: pm.ID,
				SenderProviderID:  pm.SenderID,
				SenderRole:        role,
				Content:           pm.Text,
				SentAt:            pm.SentAt,
			}
			if err := u.msgRepo.Upsert(msg); err != nil {
				return fmt.Errorf("message upsert for %s: %w", chatID, err)
			}
			persisted++
		}
		return nil
	})
	skipped += msgStats.Skipped
	if msgStats.Err != nil {
		errs = append(errs, fmt.Errorf("messages fetch for %s: %w", chatID, msgStats.Err))
	}

	return sightings, persisted, skipped, errs
}

// persistContacts folds sightings into canonical contacts. New identities
// consume monthly quota; when the grant falls short only the granted number
// of new contacts is persisted and the shortfall is surfaced as a warning.
// Already-known contacts are merged without charge.
func (u *SyncUsecase) persistContacts(
	workspaceID, userID string,
	sightings []contactdomain.Sighting,
	counts *domain.PassCounts,
	warnings *[]string,
) {
	merged := contactusecase.Merge(workspaceID, sightings)
	if len(merged) == 0 {
		return
	}

	var newContacts, knownContacts []*contactdomain.Contact
	for key, contact := range merged {
		if contact.ProviderID == "" {
			contact.ProviderID = key
		}
		existing, err := u.contactRepo.FindByProviderID(workspaceID, contact.ProviderID)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("contact lookup failed for %s: %v", contact.ProviderID, err))
			continue
		}
		if existing == nil {
			newContacts = append(newContacts, contact)
		} else {
			knownContacts = append(knownContacts, contact)
		}
	}

	// Deterministic order so a partial grant persists a stable subset
	sort.Slice(newContacts, func(i, j int) bool {
		return newContacts[i].ProviderID < newContacts[j].ProviderID
	})

	allowed := len(newContacts)
	if len(newContacts) > 0 {
		grant, err := u.ledger.TryConsume(userID, "contact_extraction", len(newContacts))
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("quota check failed: %v", err))
			allowed = 0
		} else {
			allowed = grant.Granted
			if grant.Shortfall > 0 {
				counts.QuotaShortfall = grant.Shortfall
				*warnings = append(*warnings, fmt.Sprintf("monthly quota short by %d contacts", grant.Shortfall))
				log.Printf("[Sync] Quota shortfall for user %s: requested %d, granted %d", userID, grant.Requested, grant.Granted)
			}
		}
	}

	for i, contact := range newContacts {
		if i >= allowed {
			break
		}
		created, err := u.contactRepo.MergeUpsert(contact)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("contact upsert failed for %s: %v", contact.ProviderID, err))
			continue
		}
		counts.Contacts++
		if created {
			counts.NewContacts++
		}
	}
	for _, contact := range knownContacts {
		if _, err := u.contactRepo.MergeUpsert(contact); err != nil {
			*warnings = append(*warnings, fmt.Sprintf("contact merge failed for %s: %v", contact.ProviderID, err))
			continue
		}
		counts.Contacts++
	}
}

// PromoteToFull switches a conversation to full history on explicit user
// request and backfills its complete message history. One-way: a later pass
// never demotes it back to preview.
func (u *SyncUsecase) PromoteToFull(ctx context.Context, userID, workspaceID, conversationID string) error {
	conv, err := u.convRepo.FindByID(conversationID)
	if err != nil {
		return err
	}
	if conv == nil || conv.WorkspaceID != workspaceID {
		return fmt.Errorf("conversation not found")
	}

	if conv.SyncDepth != domain.SyncDepthFull {
		if err := u.convRepo.SetSyncDepth(conversationID, domain.SyncDepthFull); err != nil {
			return err
		}
		conv.SyncDepth = domain.SyncDepthFull
	}

	account, err := u.lookupAccount(workspaceID, conv.AccountID)
	if err != nil {
		return err
	}
	auth := u.authFor(account)

	_, persisted, _, errs := u.fetchOneConversation(ctx, auth, conv.AccountID, conv)
	for _, fetchErr := range errs {
		u.observeError(userID, conv.AccountID, fetchErr)
	}
	if len(errs) > 0 {
		return fmt.Errorf("history backfill incomplete: %v", errs[0])
	}

	log.Printf("[Sync] Conversation %s promoted to full history (%d messages)", conversationID, persisted)
	return nil
}

// SendMessage sends an outbound message through the provider. While the
// account is rate limited the send is rejected locally without contacting
// the provider.
func (u *SyncUsecase) SendMessage(ctx context.Context, userID, workspaceID, conversationID, text string) (*domain.Message, error) {
	conv, err := u.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil || conv.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("conversation not found")
	}

	if err := u.monitor.CanSend(conv.AccountID); err != nil {
		return nil, err
	}

	account, err := u.lookupAccount(workspaceID, conv.AccountID)
	if err != nil {
		return nil, err
	}

	pm, err := u.provider.SendMessage(ctx, u.authFor(account), conv.PlatformConversationID, text)
	if err != nil {
		u.observeError(userID, conv.AccountID, err)
		return nil, fmt.Errorf("send failed: %w", err)
	}

	msg := &domain.Message{
		ConversationID:    conv.ID,
		ProviderMessageID: pm.ID,
		SenderProviderID:  pm.SenderID,
		SenderRole:        domain.SenderRoleOwner,
		Content:           pm.Text,
		SentAt:            pm.SentAt,
	}
	if err := u.msgRepo.Upsert(msg); err != nil {
		return nil, err
	}

	sentAt := pm.SentAt
	conv.LastMessageAt = &sentAt
	if err := u.convRepo.Upsert(conv); err != nil {
		log.Printf("[Sync] Failed to bump last_message_at for %s: %v", conversationID, err)
	}

	return msg, nil
}

// DepthCounts reports how many conversations sit at each sync depth
func (u *SyncUsecase) DepthCounts(workspaceID string) (full, preview int64, err error) {
	full, err = u.convRepo.CountByDepth(workspaceID, domain.SyncDepthFull)
	if err != nil {
		return 0, 0, err
	}
	preview, err = u.convRepo.CountByDepth(workspaceID, domain.SyncDepthPreview)
	if err != nil {
		return 0, 0, err
	}
	return full, preview, nil
}

// ListConversations exposes the local store to the delivery layer
func (u *SyncUsecase) ListConversations(workspaceID string, depth domain.SyncDepth, limit, offset int) ([]*domain.Conversation, int64, error) {
	return u.convRepo.ListByWorkspace(workspaceID, depth, limit, offset)
}

// ListMessages exposes a conversation's stored history
func (u *SyncUsecase) ListMessages(workspaceID, conversationID string, limit, offset int) ([]*domain.Message, int64, error) {
	conv, err := u.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, 0, err
	}
	if conv == nil || conv.WorkspaceID != workspaceID {
		return nil, 0, fmt.Errorf("conversation not found")
	}
	return u.msgRepo.ListByConversation(conversationID, limit, offset)
}

// observeError feeds any provider error into the rate-limit monitor
func (u *SyncUsecase) observeError(userID, accountID string, err error) {
	apiErr, ok := provider.AsAPIError(err)
	if !ok {
		return
	}
	u.monitor.Observe(userID, accountID, ratelimitdomain.Observation{
		RateLimitReached: apiErr.RateLimitReached,
		LimitType:        apiErr.RateLimitType,
		CurrentCount:     apiErr.CurrentCount,
		MaxLimit:         apiErr.MaxLimit,
		ResetTime:        apiErr.ResetAt,
		PausedUntil:      apiErr.PausedUntil,
		ErrorText:        apiErr.Message,
	})
}
