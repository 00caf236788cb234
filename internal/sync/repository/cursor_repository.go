package repository

import (
	"time"

	"netsync-backend/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CursorRepository defines the interface for sync cursor persistence.
// Cursors are owned exclusively by the pagination fetcher.
type CursorRepository interface {
	Load(scope domain.CursorScope) (string, error)
	// Save advances the cursor after a successfully fetched page
	Save(scope domain.CursorScope, cursor string) error
	// Reset clears the cursor at the start of a full rescan
	Reset(scope domain.CursorScope) error
}

type cursorRepository struct {
	db *gorm.DB
}

func NewCursorRepository(db *gorm.DB) CursorRepository {
	return &cursorRepository{db: db}
}

func (r *cursorRepository) Load(scope domain.CursorScope) (string, error) {
	var row domain.SyncCursor
	err := r.db.Where(
		"workspace_id = ? AND account_id = ? AND endpoint = ?",
		scope.WorkspaceID, scope.AccountID, scope.Endpoint,
	).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return row.Cursor, nil
}

func (r *cursorRepository) Save(scope domain.CursorScope, cursor string) error {
	now := time.Now()
	row := domain.SyncCursor{
		ID:          uuid.New().String(),
		WorkspaceID: scope.WorkspaceID,
		AccountID:   scope.AccountID,
		Endpoint:    scope.Endpoint,
		Cursor:      cursor,
		LastRunAt:   &now,
		UpdatedAt:   now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "account_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"cursor", "last_run_at", "updated_at"}),
	}).Create(&row).Error
}

func (r *cursorRepository) Reset(scope domain.CursorScope) error {
	return r.Save(scope, "")
}
