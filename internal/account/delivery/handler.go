package delivery

import (
	"net/http"
	"time"

	"netsync-backend/internal/account/domain"
	"netsync-backend/internal/account/repository"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountRepo repository.AccountRepository
}

func NewAccountHandler(accountRepo repository.AccountRepository) *AccountHandler {
	return &AccountHandler{
		accountRepo: accountRepo,
	}
}

type connectAccountRequest struct {
	ProviderAccountID string `json:"provider_account_id" binding:"required"`
	Platform          string `json:"platform"`
	DisplayName       string `json:"display_name"`
	AccessToken       string `json:"access_token" binding:"required"`
	RefreshToken      string `json:"refresh_token"`
	TokenExpiry       string `json:"token_expiry"`
}

// Connect registers (or re-registers) a provider account in the workspace.
// Re-connecting the same account updates its tokens in place.
func (h *AccountHandler) Connect(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.GetString("workspaceID")

	var req connectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider_account_id and access_token are required"})
		return
	}

	platform := req.Platform
	if platform == "" {
		platform = "linkedin"
	}

	account := &domain.Account{
		WorkspaceID:       workspaceID,
		UserID:            userID,
		Platform:          platform,
		ProviderAccountID: req.ProviderAccountID,
		DisplayName:       req.DisplayName,
		AccessToken:       req.AccessToken,
		RefreshToken:      req.RefreshToken,
	}
	if req.TokenExpiry != "" {
		if expiry, err := time.Parse(time.RFC3339, req.TokenExpiry); err == nil {
			account.TokenExpiry = expiry
		}
	}

	if err := h.accountRepo.Upsert(account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) List(c *gin.Context) {
	workspaceID := c.GetString("workspaceID")

	accounts, err := h.accountRepo.FindByWorkspace(workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}
