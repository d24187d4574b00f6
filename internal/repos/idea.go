package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/types"
)

type IdeaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ideas []*types.Idea) ([]*types.Idea, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) ([]*types.Idea, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Idea, error)
}

type ideaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdeaRepo(db *gorm.DB, baseLog *logger.Logger) IdeaRepo {
	repoLog := baseLog.With("repo", "IdeaRepo")
	return &ideaRepo{db: db, log: repoLog}
}

func (ir *ideaRepo) Create(ctx context.Context, tx *gorm.DB, ideas []*types.Idea) ([]*types.Idea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(ideas) == 0 {
		return []*types.Idea{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ideas).Error; err != nil {
		return nil, err
	}

	return ideas, nil
}

func (ir *ideaRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) ([]*types.Idea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Idea
	if len(ideaIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ideaIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByUserID returns the user's ideas newest-first; created_at is the
// default sort key for history views.
func (ir *ideaRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Idea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Idea
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
