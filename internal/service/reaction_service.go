package service

import (
	"context"

	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/metrics"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
)

type ReactionService interface {
	ReactToPost(ctx context.Context, actorID, postID, reactionType string) (*models.ToggleResult, error)
	ReactToReply(ctx context.Context, actorID, replyID, reactionType string) (*models.ToggleResult, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewReactionService(reactionRepo repository.ReactionRepository, m *metrics.Metrics, logger *zap.Logger) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		metrics:      m,
		logger:       logger,
	}
}

func (s *reactionService) ReactToPost(ctx context.Context, actorID, postID, reactionType string) (*models.ToggleResult, error) {
	return s.toggle(ctx, actorID, models.PostTarget(postID), reactionType)
}

func (s *reactionService) ReactToReply(ctx context.Context, actorID, replyID, reactionType string) (*models.ToggleResult, error) {
	return s.toggle(ctx, actorID, models.ReplyTarget(replyID), reactionType)
}

func (s *reactionService) toggle(ctx context.Context, actorID string, target models.Target, rawType string) (*models.ToggleResult, error) {
	if err := target.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	reactionType, err := models.ParseReactionType(rawType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	result, err := s.reactionRepo.Toggle(ctx, actorID, target, reactionType)
	if err != nil {
		return nil, err
	}

	s.metrics.ReactionToggles.WithLabelValues(string(target.Kind()), string(result.Action)).Inc()
	s.logger.Debug("reaction toggled",
		zap.String("actor_id", actorID),
		zap.String("target", string(target.Kind())),
		zap.String("target_id", target.ID()),
		zap.String("type", string(reactionType)),
		zap.String("action", string(result.Action)),
	)

	return result, nil
}
