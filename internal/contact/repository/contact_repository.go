package repository

import (
	"time"

	"netsync-backend/internal/contact/domain"
	"netsync-backend/internal/contact/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByProviderID returns the stored contact or nil
	FindByProviderID(workspaceID, providerID string) (*domain.Contact, error)
	// MergeUpsert folds an in-memory contact into the stored row under the
	// richest-wins rule. Returns true if a new row was created.
	MergeUpsert(contact *domain.Contact) (bool, error)
	ListByWorkspace(workspaceID string, limit, offset int) ([]*domain.Contact, int64, error)
	CountByWorkspace(workspaceID string) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) FindByProviderID(workspaceID, providerID string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.Where("workspace_id = ? AND provider_id = ?", workspaceID, providerID).First(&contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) MergeUpsert(contact *domain.Contact) (bool, error) {
	existing, err := r.FindByProviderID(contact.WorkspaceID, contact.ProviderID)
	if err != nil {
		return false, err
	}

	now := time.Now()

	if existing == nil {
		if contact.ID == "" {
			contact.ID = uuid.New().String()
		}
		contact.CreatedAt = now
		contact.UpdatedAt = now
		if err := r.db.Create(contact).Error; err != nil {
			// A concurrent pass may have created the row between the read and
			// the insert; fold into it instead of failing the pass.
			retry, retryErr := r.FindByProviderID(contact.WorkspaceID, contact.ProviderID)
			if retryErr != nil || retry == nil {
				return false, err
			}
			existing = retry
		} else {
			return true, nil
		}
	}

	changed := usecase.Apply(existing, domain.Sighting{
		ProviderID:       contact.ProviderID,
		Name:             contact.Name,
		Headline:         contact.Headline,
		ProfileURL:       contact.ProfileURL,
		ConnectionDegree: contact.ConnectionDegree,
	})
	for _, src := range contact.Sources {
		if usecase.Apply(existing, domain.Sighting{ProviderID: contact.ProviderID, Source: src}) {
			changed = true
		}
	}

	if changed {
		existing.UpdatedAt = now
		return false, r.db.Save(existing).Error
	}
	return false, nil
}

func (r *contactRepository) ListByWorkspace(workspaceID string, limit, offset int) ([]*domain.Contact, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Contact{}).Where("workspace_id = ?", workspaceID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []*domain.Contact
	err := r.db.Where("workspace_id = ?", workspaceID).
		Order("updated_at desc").
		Limit(limit).Offset(offset).
		Find(&contacts).Error
	return contacts, total, err
}

func (r *contactRepository) CountByWorkspace(workspaceID string) (int64, error) {
	var total int64
	err := r.db.Model(&domain.Contact{}).Where("workspace_id = ?", workspaceID).Count(&total).Error
	return total, err
}
