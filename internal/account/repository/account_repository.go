package repository

import (
	"time"

	"netsync-backend/internal/account/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository defines the interface for provider account records
type AccountRepository interface {
	FindByID(id string) (*domain.Account, error)
	FindByWorkspace(workspaceID string) ([]*domain.Account, error)
	FindByProviderAccountID(workspaceID, providerAccountID string) (*domain.Account, error)
	FindAll() ([]*domain.Account, error)
	Upsert(account *domain.Account) error
	UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(id string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByWorkspace(workspaceID string) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.db.Where("workspace_id = ?", workspaceID).Order("created_at asc").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) FindByProviderAccountID(workspaceID, providerAccountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.Where("workspace_id = ? AND provider_account_id = ?", workspaceID, providerAccountID).First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindAll() ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.db.Order("created_at asc").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Upsert(account *domain.Account) error {
	now := time.Now()
	if account.ID == "" {
		account.ID = uuid.New().String()
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "provider_account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "access_token", "refresh_token", "token_expiry", "updated_at"}),
	}).Create(account).Error
}

func (r *accountRepository) UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"token_expiry": expiry,
		"updated_at":   time.Now(),
	}
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}
	return r.db.Model(&domain.Account{}).Where("id = ?", id).Updates(updates).Error
}
