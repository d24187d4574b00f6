package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/validately/startup-validator-backend/internal/apierr"
	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/normalization"
	"github.com/validately/startup-validator-backend/internal/repos"
	"github.com/validately/startup-validator-backend/internal/types"
)

type IdeaService interface {
	SubmitIdea(ctx context.Context, userID uuid.UUID, title string) (*types.Idea, error)
	ListIdeas(ctx context.Context, userID uuid.UUID) ([]*types.Idea, error)
	GetIdea(ctx context.Context, ideaID uuid.UUID) (*types.Idea, error)
}

type ideaService struct {
	db        *gorm.DB
	log       *logger.Logger
	ideaRepo  repos.IdeaRepo
	evaluator EvaluatorClient
}

func NewIdeaService(db *gorm.DB, log *logger.Logger, ideaRepo repos.IdeaRepo, evaluator EvaluatorClient) IdeaService {
	serviceLog := log.With("service", "IdeaService")
	return &ideaService{
		db:        db,
		log:       serviceLog,
		ideaRepo:  ideaRepo,
		evaluator: evaluator,
	}
}

// SubmitIdea calls the evaluation gateway and persists the result.
// Call-then-write: a failed gateway call persists nothing.
func (is *ideaService) SubmitIdea(ctx context.Context, userID uuid.UUID, title string) (*types.Idea, error) {
	title = normalization.ParseFreeText(title)
	if title == "" {
		return nil, apierr.Validation(fmt.Errorf("idea title is required"))
	}
	if userID == uuid.Nil {
		return nil, apierr.Validation(fmt.Errorf("user id is required"))
	}

	evaluation, evErr := is.evaluator.Validate(ctx, title)
	if evErr != nil {
		is.log.Warn("Evaluation gateway call failed", "error", evErr)
		return nil, apierr.EvaluationFailed(fmt.Errorf("AI evaluation failed: %w", evErr))
	}
	if !evaluation.Success {
		return nil, apierr.EvaluationFailed(fmt.Errorf("AI evaluation reported failure"))
	}

	payload, mErr := json.Marshal(evaluation)
	if mErr != nil {
		return nil, apierr.EvaluationFailed(fmt.Errorf("failed to encode evaluation payload: %w", mErr))
	}

	idea := &types.Idea{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		Evaluation: datatypes.JSON(payload),
		CreatedAt:  time.Now().UTC(),
	}
	if _, cErr := is.ideaRepo.Create(ctx, nil, []*types.Idea{idea}); cErr != nil {
		return nil, apierr.Persistence(fmt.Errorf("failed to persist idea: %w", cErr))
	}
	return idea, nil
}

func (is *ideaService) ListIdeas(ctx context.Context, userID uuid.UUID) ([]*types.Idea, error) {
	ideas, lErr := is.ideaRepo.ListByUserID(ctx, nil, userID)
	if lErr != nil {
		return nil, apierr.Persistence(fmt.Errorf("failed to list ideas: %w", lErr))
	}
	return ideas, nil
}

func (is *ideaService) GetIdea(ctx context.Context, ideaID uuid.UUID) (*types.Idea, error) {
	ideas, gErr := is.ideaRepo.GetByIDs(ctx, nil, []uuid.UUID{ideaID})
	if gErr != nil {
		return nil, apierr.Persistence(fmt.Errorf("failed to fetch idea: %w", gErr))
	}
	if len(ideas) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("idea not found"))
	}
	return ideas[0], nil
}
